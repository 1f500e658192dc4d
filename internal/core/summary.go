package core

import "time"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      time.Month
	Total      Money
	ByCategory []CategoryAmount
}

// Summarize aggregates the given transactions into a MonthOverview for the
// given calendar month. Only transactions in that month contribute; only
// categories with at least one transaction appear, in display order.
func Summarize(txns []Transaction, year int, month time.Month) MonthOverview {
	byCat := map[Category]int64{}
	var total int64
	for _, t := range txns {
		if !t.InMonth(year, month) {
			continue
		}
		byCat[t.Category] += t.Amount.Cents
		total += t.Amount.Cents
	}
	overview := MonthOverview{Year: year, Month: month, Total: Money{Cents: total}}
	for _, c := range Categories() {
		if cents, ok := byCat[c]; ok {
			overview.ByCategory = append(overview.ByCategory, CategoryAmount{
				Category: c,
				Amount:   Money{Cents: cents},
			})
		}
	}
	return overview
}
