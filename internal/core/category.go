package core

import (
	"fmt"
	"strings"
)

// Category classifies a transaction. The set is closed: documents written by
// this program only ever contain the constants below, and incoming values are
// checked against them.
type Category string

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Entertainment Category = "Entertainment"
	Shopping      Category = "Shopping"
	Bills         Category = "Bills"
	Health        Category = "Health"
	Other         Category = "Other"
)

var categories = []Category{
	Food,
	Transport,
	Entertainment,
	Shopping,
	Bills,
	Health,
	Other,
}

var categoryColors = map[Category]string{
	Food:          "#10b981",
	Transport:     "#3b82f6",
	Entertainment: "#8b5cf6",
	Shopping:      "#f59e0b",
	Bills:         "#ef4444",
	Health:        "#ec4899",
	Other:         "#6b7280",
}

// Categories returns every known category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryColors[c]
	return ok
}

// Color returns the display color associated with the category, or empty for
// unknown values.
func (c Category) Color() string {
	return categoryColors[c]
}

// ParseCategory matches s against the known categories, ignoring surrounding
// whitespace. The match is case sensitive.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
