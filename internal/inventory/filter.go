package inventory

import (
	"strings"

	"stockroom/internal/models"
)

// StockFilter narrows the list to items at or below their reorder point.
type StockFilter string

const (
	StockAll     StockFilter = "all"
	StockLowOnly StockFilter = "low"
)

// LocationAll disables the location predicate.
const LocationAll = "all"

// FilterState is the serializable view state a UI (or the list endpoint)
// feeds into Filter. The zero value matches everything.
type FilterState struct {
	Search   string
	Stock    StockFilter
	Location string
}

// Match reports whether a single ingredient passes all three predicates:
// case-insensitive substring on name, stock toggle, exact location.
func (f FilterState) Match(ing models.Ingredient) bool {
	if f.Search != "" &&
		!strings.Contains(strings.ToLower(ing.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Stock == StockLowOnly && !ing.LowStock() {
		return false
	}
	if f.Location != "" && f.Location != LocationAll && ing.Location != f.Location {
		return false
	}
	return true
}

// Filter returns the subset of items passing the state, preserving input
// order. Pure and synchronous; callers re-run it on every state change.
func Filter(items []models.Ingredient, f FilterState) []models.Ingredient {
	out := make([]models.Ingredient, 0, len(items))
	for _, ing := range items {
		if f.Match(ing) {
			out = append(out, ing)
		}
	}
	return out
}
