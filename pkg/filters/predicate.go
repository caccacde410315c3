package filters

import (
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
)

// Matches combines all dimensions with AND. Within categories, brands and
// features any selected value is enough.
func Matches(item *types.Product, state types.FilterState) bool {
	if !state.PriceRange.Contains(item.PriceOrZero()) {
		return false
	}
	if len(state.Categories) > 0 && !matchesCategory(item, state.Categories) {
		return false
	}
	if len(state.Brands) > 0 && !matchesBrand(item, state.Brands) {
		return false
	}
	if state.MinRating > 0 && item.Rating < float64(state.MinRating) {
		return false
	}
	if len(state.Features) > 0 && !matchesAnyFeature(item, state.Features) {
		return false
	}
	return true
}

// Filter returns the items matching state, keeping their order.
func Filter(items []types.Product, state types.FilterState) []types.Product {
	out := make([]types.Product, 0, len(items))
	for i := range items {
		if Matches(&items[i], state) {
			out = append(out, items[i])
		}
	}
	return out
}

func matchesCategory(item *types.Product, categories []string) bool {
	category := strings.ToLower(item.Category)
	title := strings.ToLower(item.Title)
	for _, c := range categories {
		c = strings.ToLower(c)
		if strings.Contains(category, c) || strings.Contains(title, c) {
			return true
		}
	}
	return false
}

func matchesBrand(item *types.Product, brands []string) bool {
	title := strings.ToLower(item.Title)
	for _, b := range brands {
		if strings.Contains(title, strings.ToLower(b)) {
			return true
		}
	}
	return false
}

func matchesAnyFeature(item *types.Product, features []string) bool {
	for _, f := range features {
		if MatchFeature(item, f) {
			return true
		}
	}
	return false
}
