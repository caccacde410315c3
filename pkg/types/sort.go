package types

import "slices"

type SortKey string

const (
	SortFeatured   SortKey = "featured"
	SortRelevance  SortKey = "relevance"
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortRating     SortKey = "rating"
	SortNewest     SortKey = "newest"
	SortBestseller SortKey = "bestseller"
	SortTrending   SortKey = "trending"
)

var knownSortKeys = []SortKey{
	SortFeatured,
	SortRelevance,
	SortPriceLow,
	SortPriceHigh,
	SortRating,
	SortNewest,
	SortBestseller,
	SortTrending,
}

func SortKeys() []SortKey {
	return slices.Clone(knownSortKeys)
}

func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(s)
	if !slices.Contains(knownSortKeys, key) {
		return "", InvalidArgument("unknown sort key %q", s)
	}
	return key, nil
}

// IsIdentity reports whether the key keeps accumulation order.
func (k SortKey) IsIdentity() bool {
	return k == SortFeatured || k == SortRelevance
}

// Lookup pairs a position in the source slice with its sort score.
type Lookup struct {
	Index int
	Value float64
}

type ByValue []Lookup
