package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fastchannel/fastchannel-console/internal/campaign"
	"github.com/fastchannel/fastchannel-console/internal/store"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

func TestServer_ListenOnFreePortAndShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewMemoryStore()
	q := uploads.NewQueue(st, logger)

	srv := NewServer(ServerConfig{
		Port:      0,
		Campaigns: campaign.NewService(st, q, campaign.Options{Logger: logger}),
		Queue:     q,
		Logger:    logger,
		StartTime: time.Now(),
	})
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if strings.HasSuffix(srv.Addr(), ":0") || !strings.HasPrefix(srv.Addr(), "127.0.0.1:") {
		t.Fatalf("Addr() = %s, want a bound loopback port", srv.Addr())
	}

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Start() returned %v after shutdown, want nil", err)
	}
}

func TestServer_ListenConflict(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	first := NewServer(ServerConfig{Port: 0, Logger: logger})
	if err := first.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer first.Shutdown(context.Background())

	port, err := strconv.Atoi(first.Addr()[strings.LastIndex(first.Addr(), ":")+1:])
	if err != nil {
		t.Fatalf("Addr() = %s has no numeric port", first.Addr())
	}
	second := NewServer(ServerConfig{Port: port, Logger: logger})
	if err := second.Listen(); err == nil {
		t.Fatal("Listen() on a taken port should fail")
	}
}

