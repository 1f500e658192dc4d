// Package backend selects and wires a document store implementation from
// configuration.
package backend

import (
	"fmt"

	"hisab/internal/config"
	"hisab/internal/docstore"
	"hisab/internal/log"
	"hisab/internal/notify"
)

// Type represents the kind of document store backing the ledger.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	default:
		return false
	}
}

// Result holds the opened store and a cleanup releasing its resources.
type Result struct {
	Store   docstore.Store
	Cleanup func() error
}

// Open builds the document store named by cfg.DataBackend. The AMQP notifier
// is best-effort: if the broker is unreachable the SQLite backend still comes
// up and relies on polling alone.
func Open(cfg *config.Config, logger *log.Logger) (*Result, error) {
	blog := logger.WithComponent(log.ComponentBackend)
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLite:
		return openSQLite(cfg, logger, blog)
	default:
		blog.Info("Initialized memory backend", log.FieldBackend, t.String())
		return &Result{Store: docstore.NewMemory(), Cleanup: func() error { return nil }}, nil
	}
}

func openSQLite(cfg *config.Config, logger, blog *log.Logger) (*Result, error) {
	opts := []docstore.SQLiteOption{
		docstore.WithPollInterval(cfg.PollInterval),
		docstore.WithLogger(logger),
	}

	var notifier *notify.Client
	if cfg.AMQPURL != "" {
		var err error
		notifier, err = notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			blog.Warn("Failed to initialize AMQP notifier, continuing with polling only",
				log.FieldError, err)
		} else {
			opts = append(opts, docstore.WithNotifier(notifier))
			blog.Info("Initialized AMQP notifier", "exchange", cfg.AMQPExchange)
		}
	}

	store, err := docstore.NewSQLite(cfg.SQLiteDBPath, cfg.DocumentKey, opts...)
	if err != nil {
		if notifier != nil {
			notifier.Close()
		}
		return nil, fmt.Errorf("initialize sqlite store: %w", err)
	}

	blog.Info("Initialized sqlite backend",
		"db_path", cfg.SQLiteDBPath,
		log.FieldDocumentKey, cfg.DocumentKey,
		"amqp_enabled", notifier != nil)

	cleanup := func() error {
		var errs []error
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
		if notifier != nil {
			if err := notifier.Close(); err != nil {
				errs = append(errs, fmt.Errorf("notifier: %w", err))
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("close backend: %v", errs)
		}
		return nil
	}
	return &Result{Store: store, Cleanup: cleanup}, nil
}
