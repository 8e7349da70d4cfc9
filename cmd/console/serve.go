package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastchannel/fastchannel-console/internal/api"
	"github.com/fastchannel/fastchannel-console/internal/campaign"
	"github.com/fastchannel/fastchannel-console/internal/config"
	"github.com/fastchannel/fastchannel-console/internal/logging"
	"github.com/fastchannel/fastchannel-console/internal/metrics"
	"github.com/fastchannel/fastchannel-console/internal/notify"
	"github.com/fastchannel/fastchannel-console/internal/simulator"
	"github.com/fastchannel/fastchannel-console/internal/ui"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the console API, upload simulator and tray",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	startTime := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.StoreDriver() == config.StoreSQLite {
		if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting fastchannel console",
		"version", config.Version,
		"store", cfg.StoreDriver(),
		"data_dir", logging.SanitizePath(cfg.DataDir()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	workflow := metrics.New()
	toasts := notify.NewRecorder(100)
	notifiers := notify.Multi{
		notify.NewLogNotifier(logging.WithComponent(logger, "toast")),
		toasts,
	}

	var events *notify.NATSNotifier
	if cfg.NATSURL() != "" {
		nc, err := notify.Connect(cfg.NATSURL())
		if err != nil {
			logger.Warn("NATS unavailable, toasts stay local", "error", err)
		} else {
			defer nc.Drain()
			events = notify.NewNATSNotifier(nc, logging.WithComponent(logger, "nats"))
			notifiers = append(notifiers, events)
			logger.Info("publishing toasts and upload events to NATS", "url", cfg.NATSURL())
		}
	}

	queue := uploads.NewQueue(st, logging.WithComponent(logger, "uploads"))
	queue.SetDefaultDuration(cfg.DefaultDuration())

	sim := simulator.New(queue, simulator.Options{
		TickInterval: cfg.TickInterval(),
		SettleDelay:  cfg.SettleDelay(),
		DisplayDelay: cfg.DisplayDelay(),
		IncrementMin: cfg.IncrementMin(),
		IncrementMax: cfg.IncrementMax(),
		Observer:     eventPublisher(events),
		Metrics:      workflow,
		Settings:     st,
		Logger:       logging.WithComponent(logger, "simulator"),
	})
	queue.SetStarter(sim)

	if err := sim.LoadPauseState(ctx); err != nil {
		logger.Warn("failed to load simulator pause state", "error", err)
	}
	if n, err := sim.Recover(ctx); err != nil {
		logger.Warn("failed to resume persisted uploads", "error", err)
	} else if n > 0 {
		logger.Info("resumed persisted uploads", "count", n)
	}

	campaigns := campaign.NewService(st, queue, campaign.Options{
		Notifier:        notifiers,
		Navigator:       api.Navigator(logger),
		MaxUploadBytes:  cfg.MaxUploadBytes(),
		DefaultDuration: cfg.DefaultDuration(),
		OnReject:        workflow.Rejected,
		Logger:          logging.WithComponent(logger, "campaign"),
	})

	apiServer := api.NewServer(api.ServerConfig{
		Port:      cfg.Port(),
		Campaigns: campaigns,
		Queue:     queue,
		Simulator: sim,
		Metrics:   workflow,
		Toasts:    toasts,
		Logger:    logging.WithComponent(logger, "api"),
		StartTime: startTime,
	})

	if err := apiServer.Listen(); err != nil {
		sim.Shutdown()
		return err
	}

	consoleURL := fmt.Sprintf("http://%s", apiServer.Addr())
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║  %-57s║\n", "FAST CHANNEL CONSOLE v"+config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:  %-47s║\n", consoleURL)
	fmt.Printf("║  Store:    %-47s║\n", cfg.StoreDriver())
	fmt.Printf("║  Metrics:  %-47s║\n", consoleURL+"/metrics")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			quit()
		case <-quitCh:
		}
	}()

	var tray *ui.Tray
	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray = ui.NewTray(ui.TrayConfig{
			Queue:      queue,
			Simulator:  sim,
			Logger:     logging.WithComponent(logger, "tray"),
			ConsoleURL: consoleURL,
			OnQuit:     quit,
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}
	sim.Shutdown()
	if tray != nil {
		tray.Quit()
	}

	logger.Info("shutdown complete")
	return nil
}

// eventPublisher forwards simulator events to NATS when connected.
func eventPublisher(events *notify.NATSNotifier) func(simulator.Event) {
	if events == nil {
		return nil
	}
	return func(e simulator.Event) {
		events.PublishUploadEvent(string(e.Kind), uploadEvent{
			Kind:   string(e.Kind),
			Record: e.Record,
			Entry:  e.Entry,
		})
	}
}

type uploadEvent struct {
	Kind   string                `json:"kind"`
	Record uploads.Record        `json:"record"`
	Entry  *uploads.LibraryEntry `json:"entry,omitempty"`
}
