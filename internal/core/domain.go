package core

import (
	"errors"
	"strings"
	"time"
)

// DefaultBudget is the budget seeded into a freshly created document.
const DefaultBudget = 50000 * 100 // cents

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrEmptyID          = errors.New("empty transaction id")
)

type (
	// Transaction is a single recorded expense. Immutable once created
	// except for deletion.
	Transaction struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Category    Category  `json:"category"`
		Date        time.Time `json:"date"`
	}

	// Document is the sole persisted entity: the full transaction history
	// (newest first) plus the shared monthly budget. It is read and
	// overwritten wholesale; there is no field-level update.
	Document struct {
		Transactions []Transaction `json:"transactions"`
		Budget       Money         `json:"budget"`
	}
)

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Category.Valid() {
		return ErrUnknownCategory
	}
	if t.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// InMonth reports whether the transaction's date falls in the given calendar
// month. Calendar match, not a rolling 30 days.
func (t Transaction) InMonth(year int, month time.Month) bool {
	return t.Date.Year() == year && t.Date.Month() == month
}

// DefaultDocument returns the document created on first access: no
// transactions and the default budget.
func DefaultDocument() Document {
	return Document{Transactions: []Transaction{}, Budget: Money{Cents: DefaultBudget}}
}

// Normalized fills defaults for missing or structurally incompatible fields:
// a nil transaction list becomes empty and a non-positive budget falls back
// to the default. Incompatible documents degrade silently rather than erroring.
func (d Document) Normalized() Document {
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	if !d.Budget.IsPositive() {
		d.Budget = Money{Cents: DefaultBudget}
	}
	return d
}

// Clone returns a deep copy so callers can hand the document across goroutine
// boundaries without sharing the backing slice.
func (d Document) Clone() Document {
	out := Document{Budget: d.Budget, Transactions: make([]Transaction, len(d.Transactions))}
	copy(out.Transactions, d.Transactions)
	return out
}
