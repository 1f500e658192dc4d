package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hisab/internal/core"
	"hisab/internal/docstore"
	"hisab/internal/ledger"
	applog "hisab/internal/log"
)

func newTestRouter(t *testing.T, store docstore.Store) (*ledger.Ledger, http.Handler) {
	t.Helper()
	l := ledger.New(store, ledger.WithClock(func() time.Time {
		return time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	}))
	l.Start(context.Background())
	t.Cleanup(l.Close)
	return l, NewRouter(l, applog.New(applog.DefaultConfig()))
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReady(t *testing.T) {
	_, h := newTestRouter(t, docstore.NewMemory())

	if rr := doJSON(t, h, http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rr.Code)
	}
	if rr := doJSON(t, h, http.MethodGet, "/readyz", ""); rr.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", rr.Code)
	}
}

func TestReadyReports503BeforeFirstSnapshot(t *testing.T) {
	// A ledger that never started has no snapshot yet.
	l := ledger.New(docstore.NewMemory())
	h := NewRouter(l, applog.New(applog.DefaultConfig()))

	rr := doJSON(t, h, http.MethodGet, "/readyz", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status=%d, want 503", rr.Code)
	}
}

func TestGetLedger(t *testing.T) {
	l, h := newTestRouter(t, docstore.NewMemory())
	if _, err := l.AddTransaction("Coffee", 150, core.Food); err != nil {
		t.Fatalf("add: %v", err)
	}

	rr := doJSON(t, h, http.MethodGet, "/api/v1/ledger", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var view ledger.View
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.ConnectionState != ledger.StateReady {
		t.Fatalf("state = %s", view.ConnectionState)
	}
	if view.TotalSpent.Cents != 15000 {
		t.Fatalf("total = %d", view.TotalSpent.Cents)
	}
	if len(view.Transactions) != 1 {
		t.Fatalf("transactions = %d", len(view.Transactions))
	}
	if view.Cursor.Label != "August 2026" {
		t.Fatalf("label = %q", view.Cursor.Label)
	}
}

func TestGetCategories(t *testing.T) {
	_, h := newTestRouter(t, docstore.NewMemory())

	rr := doJSON(t, h, http.MethodGet, "/api/v1/categories", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var cats []struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(cats))
	}
	if cats[0].Name != "Food" || cats[0].Color == "" {
		t.Fatalf("first category = %+v", cats[0])
	}
}

func TestAddTransactionEndpoint(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"success", `{"description":"Coffee","amount":150,"category":"Food"}`, http.StatusCreated},
		{"empty description", `{"description":"","amount":10,"category":"Food"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"description":"Coffee","amount":0,"category":"Food"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"description":"Coffee","amount":-5,"category":"Food"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"description":"Coffee","amount":10,"category":"Groceries"}`, http.StatusUnprocessableEntity},
		{"malformed body", `{not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, h := newTestRouter(t, docstore.NewMemory())
			rr := doJSON(t, h, http.MethodPost, "/api/v1/transactions", tc.body)
			if rr.Code != tc.want {
				t.Fatalf("status=%d, want %d (body=%s)", rr.Code, tc.want, rr.Body.String())
			}
		})
	}
}

func TestAddThenDeleteTransactionEndpoint(t *testing.T) {
	_, h := newTestRouter(t, docstore.NewMemory())

	rr := doJSON(t, h, http.MethodPost, "/api/v1/transactions",
		`{"description":"Coffee","amount":150,"category":"Food"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add status=%d", rr.Code)
	}
	var txn core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &txn); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rr = doJSON(t, h, http.MethodDelete, "/api/v1/transactions/"+txn.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}

	rr = doJSON(t, h, http.MethodGet, "/api/v1/ledger", "")
	var view ledger.View
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Transactions) != 0 {
		t.Fatalf("expected empty ledger, got %d transactions", len(view.Transactions))
	}
}

func TestUpdateBudgetEndpoint(t *testing.T) {
	l, h := newTestRouter(t, docstore.NewMemory())

	rr := doJSON(t, h, http.MethodPut, "/api/v1/budget", `{"budget":30000}`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if l.Budget().Cents != 3000000 {
		t.Fatalf("budget = %d", l.Budget().Cents)
	}

	for _, body := range []string{`{"budget":0}`, `{"budget":-100}`} {
		rr := doJSON(t, h, http.MethodPut, "/api/v1/budget", body)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status=%d for %s", rr.Code, body)
		}
	}
	if l.Budget().Cents != 3000000 {
		t.Fatal("rejected budget input must not change state")
	}
}

func TestMonthNavigationEndpoints(t *testing.T) {
	_, h := newTestRouter(t, docstore.NewMemory())

	rr := doJSON(t, h, http.MethodPost, "/api/v1/months/previous", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("previous status=%d", rr.Code)
	}
	var cursor ledger.CursorView
	if err := json.Unmarshal(rr.Body.Bytes(), &cursor); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cursor.Label != "July 2026" {
		t.Fatalf("label = %q", cursor.Label)
	}

	rr = doJSON(t, h, http.MethodPost, "/api/v1/months/next", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &cursor); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cursor.Label != "August 2026" {
		t.Fatalf("label = %q", cursor.Label)
	}

	// Next from the current month stays put.
	rr = doJSON(t, h, http.MethodPost, "/api/v1/months/next", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &cursor); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cursor.Label != "August 2026" {
		t.Fatalf("label = %q, must not move into the future", cursor.Label)
	}
}
