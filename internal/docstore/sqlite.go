package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"hisab/internal/core"
	"hisab/internal/log"

	_ "modernc.org/sqlite"
)

// DefaultPollInterval is how often a subscription checks the version column
// when no change notification has arrived.
const DefaultPollInterval = 2 * time.Second

// SQLite persists the document in a single-row table keyed by document key.
// The version column is an optimistic-concurrency token: every replace is
// checked against the version this handle last observed, so a lost race
// surfaces as ErrStaleDocument instead of a blind overwrite.
//
// Subscriptions poll the version column; an optional Notifier shortens the
// window by broadcasting change events between processes.
type SQLite struct {
	db           *sql.DB
	key          string
	pollInterval time.Duration
	notifier     Notifier
	logger       *log.Logger

	mu          sync.Mutex
	lastVersion int64
	closed      bool
}

var _ Store = (*SQLite)(nil)

// SQLiteOption configures a SQLite store.
type SQLiteOption func(*SQLite)

// WithPollInterval overrides the subscription poll interval.
func WithPollInterval(d time.Duration) SQLiteOption {
	return func(s *SQLite) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithNotifier attaches a change-event broadcaster.
func WithNotifier(n Notifier) SQLiteOption {
	return func(s *SQLite) { s.notifier = n }
}

// WithLogger overrides the store's logger.
func WithLogger(l *log.Logger) SQLiteOption {
	return func(s *SQLite) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentDocstore)
		}
	}
}

// NewSQLite opens (creating if necessary) the database at dbPath and runs
// migrations. key identifies the document this handle serves.
func NewSQLite(dbPath, key string, opts ...SQLiteOption) (*SQLite, error) {
	if key == "" {
		key = DefaultKey
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &SQLite{
		db:           db,
		key:          key,
		pollInterval: DefaultPollInterval,
		logger:       log.New(log.DefaultConfig()).WithComponent(log.ComponentDocstore),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the database handle. Live subscriptions degrade on their
// next poll.
func (s *SQLite) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.db.Close()
}

// Subscribe implements Store. The initial snapshot is delivered before the
// function returns; later snapshots arrive from a polling goroutine that
// stops permanently on the first error.
func (s *SQLite) Subscribe(ctx context.Context, onChange func(core.Document), onError func(error)) (cancel func()) {
	noop := func() {}

	doc, version, err := s.loadOrCreate(ctx)
	if err != nil {
		onError(fmt.Errorf("establish subscription: %w", err))
		return noop
	}

	s.mu.Lock()
	s.lastVersion = version
	s.mu.Unlock()
	onChange(doc)

	done := make(chan struct{})
	var events <-chan ChangeEvent
	if s.notifier != nil {
		events = s.notifier.Events()
	}

	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if ev.Key != s.key {
					continue
				}
				if stop := s.deliverIfChanged(ctx, onChange, onError); stop {
					return
				}
			case <-ticker.C:
				if stop := s.deliverIfChanged(ctx, onChange, onError); stop {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// deliverIfChanged reloads the document when the stored version moved past
// the last delivered one. Returns true when the subscription must stop.
func (s *SQLite) deliverIfChanged(ctx context.Context, onChange func(core.Document), onError func(error)) bool {
	var (
		payload string
		version int64
	)
	row := s.db.QueryRowContext(ctx, `SELECT payload, version FROM documents WHERE key = ?`, s.key)
	if err := row.Scan(&payload, &version); err != nil {
		onError(fmt.Errorf("load document: %w", err))
		return true
	}

	s.mu.Lock()
	known := s.lastVersion
	if version > known {
		s.lastVersion = version
	}
	s.mu.Unlock()
	if version <= known {
		return false
	}

	onChange(decodePayload(payload))
	return false
}

// Replace implements Store with a version-checked write. A replace that races
// a remote writer returns ErrStaleDocument and leaves the stored document as
// the remote writer left it.
func (s *SQLite) Replace(ctx context.Context, doc core.Document) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	known := s.lastVersion
	s.mu.Unlock()

	payload, err := json.Marshal(doc.Normalized())
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET payload = ?, version = version + 1, updated_at = ? WHERE key = ? AND version = ?`,
		string(payload), time.Now().UTC(), s.key, known)
	if err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	if affected == 0 {
		return ErrStaleDocument
	}

	s.mu.Lock()
	s.lastVersion = known + 1
	next := s.lastVersion
	s.mu.Unlock()

	if s.notifier != nil {
		if err := s.notifier.PublishDocumentChanged(ctx, s.key, next); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish change event",
				log.FieldDocumentKey, s.key,
				log.FieldVersion, next,
				log.FieldError, err)
		}
	}
	return nil
}

// loadOrCreate reads the document row, inserting the default document exactly
// once when the key is absent.
func (s *SQLite) loadOrCreate(ctx context.Context) (core.Document, int64, error) {
	payload, err := json.Marshal(core.DefaultDocument())
	if err != nil {
		return core.Document{}, 0, fmt.Errorf("encode default document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (key, payload, version, updated_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT(key) DO NOTHING`,
		s.key, string(payload), time.Now().UTC())
	if err != nil {
		return core.Document{}, 0, fmt.Errorf("seed document: %w", err)
	}

	var (
		stored  string
		version int64
	)
	row := s.db.QueryRowContext(ctx, `SELECT payload, version FROM documents WHERE key = ?`, s.key)
	if err := row.Scan(&stored, &version); err != nil {
		return core.Document{}, 0, fmt.Errorf("load document: %w", err)
	}
	return decodePayload(stored), version, nil
}

// decodePayload treats a structurally incompatible payload as an empty
// document rather than an error.
func decodePayload(payload string) core.Document {
	var doc core.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return core.DefaultDocument()
	}
	return doc.Normalized()
}
