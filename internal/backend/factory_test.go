package backend

import (
	"path/filepath"
	"testing"
	"time"

	"hisab/internal/config"
	"hisab/internal/docstore"
	"hisab/internal/log"
)

func TestTypeIsValid(t *testing.T) {
	cases := []struct {
		t    Type
		want bool
	}{
		{Memory, true},
		{SQLite, true},
		{Type("postgres"), false},
		{Type(""), false},
	}
	for _, tc := range cases {
		if tc.t.IsValid() != tc.want {
			t.Fatalf("%q: IsValid() = %v", tc.t, !tc.want)
		}
	}
}

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{DataBackend: "memory", DocumentKey: "test"}
	res, err := Open(cfg, log.New(log.DefaultConfig()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer res.Cleanup()

	if _, ok := res.Store.(*docstore.Memory); !ok {
		t.Fatalf("store = %T, want *docstore.Memory", res.Store)
	}
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{
		DataBackend:  "sqlite",
		DocumentKey:  "test",
		SQLiteDBPath: filepath.Join(t.TempDir(), "hisab.db"),
		PollInterval: 50 * time.Millisecond,
	}
	res, err := Open(cfg, log.New(log.DefaultConfig()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := res.Store.(*docstore.SQLite); !ok {
		t.Fatalf("store = %T, want *docstore.SQLite", res.Store)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := &config.Config{DataBackend: "postgres"}
	if _, err := Open(cfg, log.New(log.DefaultConfig())); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
