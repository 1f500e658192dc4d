package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hisab/internal/core"
	"hisab/internal/ledger"
)

type handlers struct {
	ledger *ledger.Ledger
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ready reports 503 until the first document snapshot has arrived. A ledger
// in the error state needs a restart to recover, so it is not ready either.
func (h *handlers) ready(w http.ResponseWriter, _ *http.Request) {
	state := h.ledger.State()
	if state != ledger.StateReady {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": string(state)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) getLedger(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.View())
}

// getCategories serves the closed category set for form population.
func (h *handlers) getCategories(w http.ResponseWriter, _ *http.Request) {
	type categoryInfo struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	out := make([]categoryInfo, 0, len(core.Categories()))
	for _, c := range core.Categories() {
		out = append(out, categoryInfo{Name: c.String(), Color: c.Color()})
	}
	writeJSON(w, http.StatusOK, out)
}

type addTransactionRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

func (h *handlers) addTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := core.ParseCategory(req.Category)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	txn, err := h.ledger.AddTransaction(req.Description, req.Amount, category)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, txn)
}

func (h *handlers) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}
	// An absent id deletes nothing; the outcome is the same either way.
	h.ledger.DeleteTransaction(id)
	w.WriteHeader(http.StatusNoContent)
}

type updateBudgetRequest struct {
	Budget float64 `json:"budget"`
}

func (h *handlers) updateBudget(w http.ResponseWriter, r *http.Request) {
	var req updateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ledger.UpdateBudget(req.Budget); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusUnprocessableEntity, "budget must be a positive number")
			return
		}
		writeError(w, http.StatusInternalServerError, "update budget failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) previousMonth(w http.ResponseWriter, _ *http.Request) {
	h.ledger.PreviousMonth()
	writeJSON(w, http.StatusOK, h.ledger.View().Cursor)
}

func (h *handlers) nextMonth(w http.ResponseWriter, _ *http.Request) {
	h.ledger.NextMonth()
	writeJSON(w, http.StatusOK, h.ledger.View().Cursor)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
