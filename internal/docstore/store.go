// Package docstore bridges the ledger view-model and a persistent shared
// document. A store holds exactly one document per key, read via a
// subscription feed of full-document snapshots and overwritten wholesale on
// every mutation.
package docstore

import (
	"context"
	"errors"

	"hisab/internal/core"
)

// DefaultKey identifies the single shared ledger document.
const DefaultKey = "shared_expenses"

var (
	// ErrStaleDocument reports a replace that lost a write race: the stored
	// version moved past the one this handle last observed. The winning
	// document arrives through the normal snapshot feed.
	ErrStaleDocument = errors.New("document changed since last snapshot")

	// ErrClosed reports an operation against a closed store.
	ErrClosed = errors.New("store closed")
)

// Store is the document store adapter.
//
// Subscribe establishes a live feed: onChange receives the full current
// document on every remote update, starting with an initial snapshot. If the
// document does not exist yet, the store creates it with default contents
// exactly once and the subscription observes that default. Failures are
// reported through onError and leave the subscription degraded until the
// caller re-subscribes. The returned cancel terminates the feed and is safe
// to call multiple times, including after errors.
//
// Replace overwrites the entire stored document. The returned error reports a
// failed write to the caller; the store never rolls anything back on the
// caller's behalf.
type Store interface {
	Subscribe(ctx context.Context, onChange func(core.Document), onError func(error)) (cancel func())
	Replace(ctx context.Context, doc core.Document) error
}

// ChangeEvent announces that a document was rewritten, carrying the new
// version so pollers can skip redundant reloads.
type ChangeEvent struct {
	Key     string
	Version int64
}

// Notifier broadcasts change events between processes sharing one document.
type Notifier interface {
	PublishDocumentChanged(ctx context.Context, key string, version int64) error
	Events() <-chan ChangeEvent
}
