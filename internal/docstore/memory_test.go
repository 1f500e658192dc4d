package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hisab/internal/core"
)

func TestMemorySubscribeCreatesDefaultDocument(t *testing.T) {
	m := NewMemory()

	var got core.Document
	cancel := m.Subscribe(context.Background(), func(d core.Document) { got = d }, nil)
	defer cancel()

	assert.Empty(t, got.Transactions)
	assert.NotNil(t, got.Transactions)
	assert.Equal(t, int64(core.DefaultBudget), got.Budget.Cents)
}

func TestMemoryReplaceNotifiesSubscribers(t *testing.T) {
	m := NewMemory()

	var snapshots []core.Document
	cancel := m.Subscribe(context.Background(), func(d core.Document) {
		snapshots = append(snapshots, d)
	}, nil)
	defer cancel()

	doc := core.Document{
		Transactions: []core.Transaction{{
			ID: "1", Description: "Chai", Amount: core.Money{Cents: 2000},
			Category: core.Food, Date: time.Now(),
		}},
		Budget: core.Money{Cents: 3000000},
	}
	require.NoError(t, m.Replace(context.Background(), doc))

	require.Len(t, snapshots, 2) // initial + replace
	assert.Len(t, snapshots[1].Transactions, 1)
	assert.Equal(t, int64(3000000), snapshots[1].Budget.Cents)
}

func TestMemoryCancelStopsDelivery(t *testing.T) {
	m := NewMemory()

	count := 0
	cancel := m.Subscribe(context.Background(), func(core.Document) { count++ }, nil)
	require.Equal(t, 1, count)

	cancel()
	cancel() // idempotent

	require.NoError(t, m.Replace(context.Background(), core.DefaultDocument()))
	assert.Equal(t, 1, count, "no snapshots after cancel")
}

func TestMemoryReplaceNormalizes(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Replace(context.Background(), core.Document{}))

	doc := m.Document()
	assert.NotNil(t, doc.Transactions)
	assert.Equal(t, int64(core.DefaultBudget), doc.Budget.Cents)
}

func TestMemorySnapshotIsolation(t *testing.T) {
	seeded := core.Document{
		Transactions: []core.Transaction{{
			ID: "1", Description: "Chai", Amount: core.Money{Cents: 2000},
			Category: core.Food, Date: time.Now(),
		}},
		Budget: core.Money{Cents: 100},
	}
	m := NewMemorySeeded(seeded)

	var got core.Document
	cancel := m.Subscribe(context.Background(), func(d core.Document) { got = d }, nil)
	defer cancel()

	got.Transactions[0].Description = "mutated"
	assert.Equal(t, "Chai", m.Document().Transactions[0].Description,
		"subscriber mutation must not leak into the store")
}
