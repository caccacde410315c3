package sorting

import (
	"math"
	"slices"

	"github.com/matst80/slask-storefront/pkg/types"
)

const (
	bestsellerRatingWeight  = 0.4
	bestsellerReviewsWeight = 0.6

	trendingNewBoost    = 5
	trendingChangeBoost = 3
	trendingRatingScale = 0.2
)

func BestsellerScore(item *types.Product) float64 {
	return item.Rating*bestsellerRatingWeight + math.Log(float64(item.Reviews)+1)*bestsellerReviewsWeight
}

func TrendingScore(item *types.Product) float64 {
	score := item.Rating * trendingRatingScale
	if item.IsNew {
		score += trendingNewBoost
	}
	if item.HasPriceChange() {
		score += trendingChangeBoost
	}
	return score
}

func NewPriceLowSorter() Sorter {
	return NewBaseSorter(types.SortPriceLow, func(item *types.Product) float64 {
		return item.PriceOrZero()
	}, true)
}

func NewPriceHighSorter() Sorter {
	return NewBaseSorter(types.SortPriceHigh, func(item *types.Product) float64 {
		return item.PriceOrZero()
	}, false)
}

func NewRatingSorter() Sorter {
	return NewBaseSorter(types.SortRating, func(item *types.Product) float64 {
		return item.Rating
	}, false)
}

func NewBestsellerSorter() Sorter {
	return NewBaseSorter(types.SortBestseller, BestsellerScore, false)
}

func NewTrendingSorter() Sorter {
	return NewBaseSorter(types.SortTrending, TrendingScore, false)
}

// Engine maps sort keys to sorters. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	sorters map[types.SortKey]Sorter
}

func NewEngine() *Engine {
	e := &Engine{sorters: make(map[types.SortKey]Sorter)}
	for _, s := range []Sorter{
		NewIdentitySorter(types.SortFeatured),
		NewIdentitySorter(types.SortRelevance),
		NewPriceLowSorter(),
		NewPriceHighSorter(),
		NewRatingSorter(),
		NewNewestSorter(),
		NewBestsellerSorter(),
		NewTrendingSorter(),
	} {
		e.sorters[s.Name()] = s
	}
	return e
}

// Sort returns a newly ordered copy of items.
func (e *Engine) Sort(items []types.Product, key types.SortKey) ([]types.Product, error) {
	s, ok := e.sorters[key]
	if !ok {
		return nil, types.InvalidArgument("unknown sort key %q", key)
	}
	return s.Sort(items), nil
}

func (e *Engine) Supports(key types.SortKey) bool {
	_, ok := e.sorters[key]
	return ok
}

func (e *Engine) Keys() []types.SortKey {
	keys := make([]types.SortKey, 0, len(e.sorters))
	for _, k := range types.SortKeys() {
		if e.Supports(k) {
			keys = append(keys, k)
		}
	}
	return slices.Clip(keys)
}
