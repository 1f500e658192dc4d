// Package ledger is the view-model of the shared expense ledger. It owns the
// working copy of the document (transactions and budget) plus the month
// cursor, derives monthly projections on demand, and persists every mutation
// back through the document store.
package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"hisab/internal/core"
	"hisab/internal/docstore"
	"hisab/internal/log"
)

// ConnectionState tracks the subscription lifecycle.
type ConnectionState string

const (
	StateLoading ConnectionState = "loading"
	StateReady   ConnectionState = "ready"
	StateError   ConnectionState = "error"
)

const defaultPersistTimeout = 10 * time.Second

// Ledger mirrors the shared document into memory. Mutations apply
// synchronously to local state, then persist fire-and-forget; the local copy
// is the optimistic source of truth and is never rolled back on a failed
// write. Remote snapshots replace the local copy wholesale.
type Ledger struct {
	store          docstore.Store
	logger         *log.Logger
	now            func() time.Time
	newID          func() string
	persistTimeout time.Duration
	onPersistError func(error)

	mu           sync.Mutex
	transactions []core.Transaction
	budget       core.Money
	cursor       Cursor
	state        ConnectionState
	lastErr      error
	cancelFeed   func()
	persisting   sync.WaitGroup
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock substitutes the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator substitutes the transaction id generator.
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) { l.newID = gen }
}

// WithLogger overrides the ledger's logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger.WithComponent(log.ComponentLedger)
		}
	}
}

// OnPersistError registers a callback for failed background persists. The
// callback fires outside the ledger's lock.
func OnPersistError(fn func(error)) Option {
	return func(l *Ledger) { l.onPersistError = fn }
}

// New creates a ledger in the loading state, with the cursor on the real
// current month. Call Start to begin the subscription.
func New(store docstore.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:          store,
		logger:         log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger),
		now:            time.Now,
		newID:          newID,
		persistTimeout: defaultPersistTimeout,
		transactions:   []core.Transaction{},
		budget:         core.Money{Cents: core.DefaultBudget},
		state:          StateLoading,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.cursor = CursorFor(l.now())
	return l
}

// Start subscribes to the document store. Calling Start again tears down the
// previous feed first, so there is never more than one live subscription.
// On the first snapshot the ledger transitions to ready; on a feed error it
// transitions to error and keeps whatever state it last knew. There is no
// automatic retry.
func (l *Ledger) Start(ctx context.Context) {
	l.mu.Lock()
	prev := l.cancelFeed
	l.cancelFeed = nil
	l.state = StateLoading
	l.lastErr = nil
	l.mu.Unlock()
	if prev != nil {
		prev()
	}

	cancel := l.store.Subscribe(ctx, l.applySnapshot, l.feedFailed)

	l.mu.Lock()
	l.cancelFeed = cancel
	l.mu.Unlock()
}

// Close terminates the subscription feed and waits for in-flight persists.
// Safe to call multiple times.
func (l *Ledger) Close() {
	l.mu.Lock()
	cancel := l.cancelFeed
	l.cancelFeed = nil
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	l.persisting.Wait()
}

// applySnapshot replaces local state with a full remote snapshot. A snapshot
// racing an in-flight local persist wins at the document level; that is the
// accepted last-writer-wins behavior of a single shared document.
func (l *Ledger) applySnapshot(doc core.Document) {
	doc = doc.Normalized()

	l.mu.Lock()
	l.transactions = doc.Transactions
	l.budget = doc.Budget
	l.state = StateReady
	l.lastErr = nil
	l.mu.Unlock()

	l.logger.Debug("Applied remote snapshot",
		log.FieldOperation, log.OpSnapshot,
		"transactions", len(doc.Transactions),
		log.FieldBudgetCents, doc.Budget.Cents)
}

func (l *Ledger) feedFailed(err error) {
	l.mu.Lock()
	l.state = StateError
	l.lastErr = err
	l.mu.Unlock()

	l.logger.Error("Subscription feed failed",
		log.FieldOperation, log.OpSubscribe,
		log.FieldError, err)
}

// AddTransaction validates and records a new expense. The transaction is
// always timestamped now, even when the cursor is on a past month. Returns
// the created transaction, or a validation error that left all state
// untouched.
func (l *Ledger) AddTransaction(description string, amount float64, category core.Category) (core.Transaction, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return core.Transaction{}, core.ErrEmptyDescription
	}
	money, err := core.FromRupees(amount)
	if err != nil {
		return core.Transaction{}, core.ErrInvalidAmount
	}
	if !category.Valid() {
		return core.Transaction{}, core.ErrUnknownCategory
	}

	txn := core.Transaction{
		ID:          l.newID(),
		Description: description,
		Amount:      money,
		Category:    category,
		Date:        l.now(),
	}

	l.mu.Lock()
	l.transactions = append([]core.Transaction{txn}, l.transactions...)
	doc := l.documentLocked()
	l.mu.Unlock()

	l.logger.Info("Transaction added",
		log.FieldOperation, log.OpAdd,
		log.FieldTxnID, txn.ID,
		log.FieldAmountCents, txn.Amount.Cents,
		log.FieldCategory, txn.Category.String())

	l.persist(doc)
	return txn, nil
}

// DeleteTransaction removes the transaction with the given id. An unknown id
// is a no-op with no persistence call.
func (l *Ledger) DeleteTransaction(id string) {
	l.mu.Lock()
	idx := -1
	for i, t := range l.transactions {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return
	}
	l.transactions = append(l.transactions[:idx:idx], l.transactions[idx+1:]...)
	doc := l.documentLocked()
	l.mu.Unlock()

	l.logger.Info("Transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldTxnID, id)

	l.persist(doc)
}

// UpdateBudget replaces the shared budget. Non-positive or non-finite input
// is rejected without touching state.
func (l *Ledger) UpdateBudget(amount float64) error {
	money, err := core.FromRupees(amount)
	if err != nil {
		return core.ErrInvalidAmount
	}

	l.mu.Lock()
	l.budget = money
	doc := l.documentLocked()
	l.mu.Unlock()

	l.logger.Info("Budget updated",
		log.FieldOperation, log.OpBudget,
		log.FieldBudgetCents, money.Cents)

	l.persist(doc)
	return nil
}

// PreviousMonth moves the cursor one month back. Unbounded into the past.
func (l *Ledger) PreviousMonth() {
	l.mu.Lock()
	l.cursor = l.cursor.Previous()
	l.mu.Unlock()
}

// NextMonth moves the cursor one month forward, unless the cursor is already
// on the real current month; the future is unreachable.
func (l *Ledger) NextMonth() {
	current := CursorFor(l.now())
	l.mu.Lock()
	if l.cursor.Before(current) {
		l.cursor = l.cursor.Next()
	}
	l.mu.Unlock()
}

// VisibleTransactions returns the transactions of the cursor's calendar
// month, preserving document order (newest first).
func (l *Ledger) VisibleTransactions() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []core.Transaction{}
	for _, t := range l.transactions {
		if t.InMonth(l.cursor.Year, l.cursor.Month) {
			out = append(out, t)
		}
	}
	return out
}

// TotalSpent sums the visible transactions.
func (l *Ledger) TotalSpent() core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	var cents int64
	for _, t := range l.transactions {
		if t.InMonth(l.cursor.Year, l.cursor.Month) {
			cents += t.Amount.Cents
		}
	}
	return core.Money{Cents: cents}
}

// Remaining is budget minus total spent; it may be negative.
func (l *Ledger) Remaining() core.Money {
	l.mu.Lock()
	budget := l.budget
	l.mu.Unlock()
	return budget.Sub(l.TotalSpent())
}

// CategoryTotals maps each category with at least one visible transaction to
// the sum of its amounts.
func (l *Ledger) CategoryTotals() map[core.Category]core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	totals := map[core.Category]core.Money{}
	for _, t := range l.transactions {
		if t.InMonth(l.cursor.Year, l.cursor.Month) {
			totals[t.Category] = totals[t.Category].Add(t.Amount)
		}
	}
	return totals
}

// Overview aggregates the cursor's month for reporting.
func (l *Ledger) Overview() core.MonthOverview {
	l.mu.Lock()
	txns := l.transactions
	cursor := l.cursor
	l.mu.Unlock()
	return core.Summarize(txns, cursor.Year, cursor.Month)
}

// IsCurrentMonth reports whether the cursor is on the real current month.
func (l *Ledger) IsCurrentMonth() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor == CursorFor(l.now())
}

// Budget returns the shared monthly budget.
func (l *Ledger) Budget() core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.budget
}

// Cursor returns the current month cursor.
func (l *Ledger) Cursor() Cursor {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

// State returns the connection state.
func (l *Ledger) State() ConnectionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error that put the ledger into the error state, if any.
func (l *Ledger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// documentLocked assembles the full document from local state. Caller holds
// l.mu.
func (l *Ledger) documentLocked() core.Document {
	txns := make([]core.Transaction, len(l.transactions))
	copy(txns, l.transactions)
	return core.Document{Transactions: txns, Budget: l.budget}
}

// persist writes the document in the background. Failures surface through
// the log and the OnPersistError callback; local state stands regardless.
func (l *Ledger) persist(doc core.Document) {
	l.persisting.Add(1)
	go func() {
		defer l.persisting.Done()
		ctx, cancel := context.WithTimeout(context.Background(), l.persistTimeout)
		defer cancel()
		if err := l.store.Replace(ctx, doc); err != nil {
			l.logger.ErrorContext(ctx, "Failed to persist ledger document",
				log.FieldOperation, log.OpReplace,
				log.FieldError, err)
			if l.onPersistError != nil {
				l.onPersistError(err)
			}
		}
	}()
}
