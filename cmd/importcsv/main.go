// Command importcsv reads a CSV export and publishes every event found in it
// as an import message for the import worker.
//
// Flags:
//
//	-file     path to the CSV export (required)
//	-format   "events" for a baby tracker export, "snoo" for a smart
//	          bassinet session export (default "events")
//	-dry-run  map and log the events without publishing
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/septivank/babybeat/internal/config"
	"github.com/septivank/babybeat/internal/csvimport"
	"github.com/septivank/babybeat/internal/domain"
	"github.com/septivank/babybeat/internal/logging"
	"github.com/septivank/babybeat/internal/mq"
)

// Export formats
const (
	FormatEvents = "events"
	FormatSnoo   = "snoo"
)

func main() {
	file := flag.String("file", "", "path to the CSV export")
	format := flag.String("format", FormatEvents, "export format: events or snoo")
	dryRun := flag.Bool("dry-run", false, "map and log the events without publishing")
	flag.Parse()

	if *file == "" || (*format != FormatEvents && *format != FormatSnoo) {
		fmt.Fprintln(os.Stderr, "usage: importcsv -file <export.csv> [-format events|snoo] [-dry-run]")
		os.Exit(2)
	}

	config.LoadDotEnv()

	cfg, err := config.Read()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.ServiceName+"-importcsv", cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, options{path: *file, format: *format, dryRun: *dryRun}); err != nil {
		logger.Error("import failed", zap.Error(err))
		os.Exit(1)
	}
}

type options struct {
	path   string
	format string
	dryRun bool
}

// candidate is one mapped event, or the reason it could not be mapped.
// ref points back into the export for log lines.
type candidate struct {
	ref   string
	event domain.Event
	err   error
}

func load(format string, r io.Reader) ([]candidate, error) {
	switch format {
	case FormatSnoo:
		sessions, err := csvimport.ParseSnoo(r)
		if err != nil {
			return nil, err
		}
		out := make([]candidate, 0, len(sessions))
		for _, s := range sessions {
			ev, err := s.Event()
			out = append(out, candidate{ref: "session " + s.ID, event: ev, err: err})
		}
		return out, nil

	case FormatEvents:
		records, err := csvimport.Parse(r)
		if err != nil {
			return nil, err
		}
		out := make([]candidate, 0, len(records))
		for _, rec := range records {
			ev, err := csvimport.Map(rec)
			out = append(out, candidate{ref: fmt.Sprintf("line %d", rec.Line), event: ev, err: err})
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts options) error {
	f, err := os.Open(opts.path)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	candidates, err := load(opts.format, f)
	if err != nil {
		return fmt.Errorf("parse export: %w", err)
	}
	logger.Info("found events to import",
		zap.Int("count", len(candidates)),
		zap.String("format", opts.format),
		zap.Bool("dry_run", opts.dryRun),
	)

	var publisher *mq.Publisher
	if !opts.dryRun {
		if err := cfg.RequireRabbitMQ(); err != nil {
			return err
		}
		conn, err := mq.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer conn.Close()

		publisher, err = mq.NewPublisher(conn, cfg.RabbitMQ, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
	}

	source := filepath.Base(opts.path)
	published, skipped := 0, 0

	for _, c := range candidates {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if c.err != nil {
			logger.Warn("skipping record", zap.String("ref", c.ref), zap.Error(c.err))
			skipped++
			continue
		}

		if opts.dryRun {
			fields := []zap.Field{
				zap.String("ref", c.ref),
				zap.String("type", string(c.event.Type)),
				zap.Time("timestamp", c.event.Timestamp),
			}
			if c.event.EndTime != nil {
				fields = append(fields, zap.Time("end_time", *c.event.EndTime))
			}
			logger.Info("would import event", fields...)
			continue
		}

		msg := mq.ImportMessage{
			RequestID:  uuid.NewString(),
			Source:     source,
			ReceivedAt: time.Now().UTC(),
			Event:      c.event,
		}
		if err := publisher.PublishImport(ctx, msg); err != nil {
			return fmt.Errorf("%s: %w", c.ref, err)
		}
		published++
	}

	logger.Info("import completed",
		zap.Int("published", published),
		zap.Int("skipped", skipped),
		zap.Bool("dry_run", opts.dryRun),
	)
	return nil
}
