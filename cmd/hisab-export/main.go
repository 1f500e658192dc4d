// hisab-export reads the shared ledger document and appends one month's
// overview (per-category totals plus a total row) to the configured Google
// Sheet.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hisab/internal/backend"
	"hisab/internal/config"
	"hisab/internal/core"
	"hisab/internal/export"
	"hisab/internal/log"
)

func main() {
	_ = godotenv.Load()

	now := time.Now()
	year := flag.Int("year", now.Year(), "year to export")
	month := flag.Int("month", int(now.Month()), "month to export (1-12)")
	flag.Parse()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	if *month < 1 || *month > 12 {
		logger.Error("Invalid month", log.FieldMonth, *month)
		os.Exit(1)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	if err := run(cfg, logger, *year, time.Month(*month)); err != nil {
		logger.Error("Export failed", log.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger, year int, month time.Month) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := backend.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer res.Cleanup()

	doc, err := loadDocument(ctx, res)
	if err != nil {
		return err
	}

	exporter, err := export.NewSheetsExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger)
	if err != nil {
		return fmt.Errorf("initialize exporter: %w", err)
	}

	overview := core.Summarize(doc.Transactions, year, month)
	if err := exporter.ExportOverview(ctx, overview); err != nil {
		return err
	}

	logger.Info("Export complete",
		log.FieldYear, year,
		log.FieldMonth, int(month),
		"total_cents", overview.Total.Cents)
	return nil
}

// loadDocument takes the first snapshot from the store and tears the
// subscription down again.
func loadDocument(ctx context.Context, res *backend.Result) (core.Document, error) {
	docCh := make(chan core.Document, 1)
	errCh := make(chan error, 1)

	cancel := res.Store.Subscribe(ctx,
		func(d core.Document) {
			select {
			case docCh <- d:
			default:
			}
		},
		func(err error) {
			select {
			case errCh <- err:
			default:
			}
		})
	defer cancel()

	select {
	case doc := <-docCh:
		return doc, nil
	case err := <-errCh:
		return core.Document{}, fmt.Errorf("load document: %w", err)
	case <-ctx.Done():
		return core.Document{}, ctx.Err()
	}
}
