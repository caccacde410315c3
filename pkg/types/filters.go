package types

import (
	"math"
	"slices"
)

const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 50000
	MaxRating       = 5
)

type PriceRange struct {
	Min float64 `json:"min" schema:"min"`
	Max float64 `json:"max" schema:"max"`
}

func DefaultPriceRange() PriceRange {
	return PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice}
}

func (r PriceRange) IsDefault() bool {
	return r == DefaultPriceRange()
}

func (r PriceRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r PriceRange) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return InvalidArgument("price range must be numeric")
	}
	if r.Min < 0 || r.Max < 0 {
		return InvalidArgument("price range bounds must be non-negative, got [%v, %v]", r.Min, r.Max)
	}
	if r.Min > r.Max {
		return InvalidArgument("price range min %v is greater than max %v", r.Min, r.Max)
	}
	return nil
}

// FilterState is the user's filter selection. Set fields keep insertion order
// for display only; comparison treats them as sets.
type FilterState struct {
	PriceRange PriceRange `json:"priceRange"`
	Categories []string   `json:"categories"`
	Brands     []string   `json:"brands"`
	Features   []string   `json:"features"`
	MinRating  int        `json:"minRating"`
}

func DefaultFilterState() FilterState {
	return FilterState{
		PriceRange: DefaultPriceRange(),
		Categories: []string{},
		Brands:     []string{},
		Features:   []string{},
	}
}

// Clone returns a copy that shares no backing arrays with f.
func (f FilterState) Clone() FilterState {
	return FilterState{
		PriceRange: f.PriceRange,
		Categories: cloneSet(f.Categories),
		Brands:     cloneSet(f.Brands),
		Features:   cloneSet(f.Features),
		MinRating:  f.MinRating,
	}
}

func (f FilterState) Equal(o FilterState) bool {
	return f.PriceRange == o.PriceRange &&
		f.MinRating == o.MinRating &&
		sameSet(f.Categories, o.Categories) &&
		sameSet(f.Brands, o.Brands) &&
		sameSet(f.Features, o.Features)
}

func (f FilterState) IsDefault() bool {
	return f.Equal(DefaultFilterState())
}

func (f FilterState) Validate() error {
	if err := f.PriceRange.Validate(); err != nil {
		return err
	}
	return ValidateRating(f.MinRating)
}

func ValidateRating(v int) error {
	if v < 0 || v > MaxRating {
		return InvalidArgument("minimum rating must be between 0 and %d, got %d", MaxRating, v)
	}
	return nil
}

func cloneSet(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

func toSet(s []string) map[string]struct{} {
	set := make(map[string]struct{}, len(s))
	for _, v := range s {
		set[v] = struct{}{}
	}
	return set
}

func sameSet(a, b []string) bool {
	sa, sb := toSet(a), toSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for v := range sa {
		if _, ok := sb[v]; !ok {
			return false
		}
	}
	return true
}
