package ledger

import (
	"hisab/internal/core"
)

// View is the consumer-facing read surface, assembled in one pass so every
// field reflects the same instant of ledger state.
type View struct {
	ConnectionState ConnectionState    `json:"connection_state"`
	Cursor          CursorView         `json:"cursor"`
	IsCurrentMonth  bool               `json:"is_current_month"`
	Budget          core.Money         `json:"budget"`
	TotalSpent      core.Money         `json:"total_spent"`
	Remaining       core.Money         `json:"remaining"`
	CategoryTotals  []CategoryTotal    `json:"category_totals"`
	Transactions    []core.Transaction `json:"transactions"`
}

// CursorView is the month cursor with its display label.
type CursorView struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
}

// CategoryTotal is one slice of the monthly category breakdown.
type CategoryTotal struct {
	Category core.Category `json:"category"`
	Color    string        `json:"color"`
	Amount   core.Money    `json:"amount"`
}

// View assembles the full read surface for the presentation layer.
func (l *Ledger) View() View {
	l.mu.Lock()
	cursor := l.cursor
	budget := l.budget
	state := l.state
	txns := l.transactions
	now := l.now()
	l.mu.Unlock()

	visible := []core.Transaction{}
	var spent int64
	byCat := map[core.Category]int64{}
	for _, t := range txns {
		if t.InMonth(cursor.Year, cursor.Month) {
			visible = append(visible, t)
			spent += t.Amount.Cents
			byCat[t.Category] += t.Amount.Cents
		}
	}

	totals := []CategoryTotal{}
	for _, c := range core.Categories() {
		if cents, ok := byCat[c]; ok {
			totals = append(totals, CategoryTotal{
				Category: c,
				Color:    c.Color(),
				Amount:   core.Money{Cents: cents},
			})
		}
	}

	return View{
		ConnectionState: state,
		Cursor: CursorView{
			Year:  cursor.Year,
			Month: int(cursor.Month),
			Label: cursor.Label(),
		},
		IsCurrentMonth: cursor == CursorFor(now),
		Budget:         budget,
		TotalSpent:     core.Money{Cents: spent},
		Remaining:      budget.Sub(core.Money{Cents: spent}),
		CategoryTotals: totals,
		Transactions:   visible,
	}
}
