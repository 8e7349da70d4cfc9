package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastchannel/fastchannel-console/internal/logging"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

var queueJSON bool

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Print the persisted upload queue and video library",
	RunE:  runQueue,
}

func init() {
	rootCmd.AddCommand(queueCmd)
	queueCmd.Flags().BoolVar(&queueJSON, "json", false, "Print JSON instead of tables")
}

func runQueue(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewLoggerTo(os.Stderr, "warn")
	ctx := context.Background()

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	return RunQueueWithDependencies(ctx, uploads.NewQueue(st, logger), queueJSON, os.Stdout)
}

type queueSnapshot struct {
	Uploads []uploads.Record       `json:"uploads"`
	Library []uploads.LibraryEntry `json:"library"`
}

// RunQueueWithDependencies prints the queue and library held by q.
func RunQueueWithDependencies(ctx context.Context, q *uploads.Queue, asJSON bool, output OutputWriter) error {
	records, err := q.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read upload queue: %w", err)
	}
	library, err := q.Library(ctx)
	if err != nil {
		return fmt.Errorf("failed to read video library: %w", err)
	}

	if asJSON {
		if records == nil {
			records = []uploads.Record{}
		}
		if library == nil {
			library = []uploads.LibraryEntry{}
		}
		enc := json.NewEncoder(output)
		enc.SetIndent("", "  ")
		return enc.Encode(queueSnapshot{Uploads: records, Library: library})
	}

	fmt.Fprintf(output, "Upload queue (%d)\n", len(records))
	if len(records) > 0 {
		w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tDURATION\tSOURCE\tPROGRESS\tSTATUS")
		for _, r := range records {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d%%\t%s\n", r.ID, r.Title, r.Duration, r.Source, r.Progress, r.Status)
		}
		w.Flush()
	}

	fmt.Fprintf(output, "\nVideo library (%d)\n", len(library))
	if len(library) > 0 {
		w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tID\tNAME\tDURATION\tSOURCE\tUPLOADED")
		for i, e := range library {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", i, e.ID, e.Name, e.Duration, e.Source, e.UploadedAt.Format(time.RFC3339))
		}
		w.Flush()
	}
	return nil
}
