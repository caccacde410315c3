package sorting

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
)

// Sorter produces a new ordering of items without touching the input.
type Sorter interface {
	Sort(items []types.Product) []types.Product
	Name() types.SortKey
}

type BaseSorter struct {
	name       types.SortKey
	isReversed bool
	fn         func(item *types.Product) float64
}

// NewBaseSorter orders by fn descending, or ascending when isReversed is set.
// Items with equal scores keep their relative order.
func NewBaseSorter(name types.SortKey, fn func(item *types.Product) float64, isReversed bool) Sorter {
	return &BaseSorter{
		name:       name,
		isReversed: isReversed,
		fn:         fn,
	}
}

func (s *BaseSorter) Name() types.SortKey {
	return s.name
}

func (s *BaseSorter) Sort(items []types.Product) []types.Product {
	sortMap := make(types.ByValue, len(items))
	for i := range items {
		sortMap[i] = types.Lookup{Index: i, Value: s.fn(&items[i])}
	}

	if !s.isReversed {
		slices.SortStableFunc(sortMap, func(a, b types.Lookup) int {
			return cmp.Compare(b.Value, a.Value)
		})
	} else {
		slices.SortStableFunc(sortMap, func(a, b types.Lookup) int {
			return cmp.Compare(a.Value, b.Value)
		})
	}
	return pick(items, sortMap)
}

func pick(items []types.Product, order types.ByValue) []types.Product {
	out := make([]types.Product, len(order))
	for i, l := range order {
		out[i] = items[l.Index]
	}
	return out
}

type identitySorter struct {
	name types.SortKey
}

// NewIdentitySorter keeps accumulation order.
func NewIdentitySorter(name types.SortKey) Sorter {
	return &identitySorter{name: name}
}

func (s *identitySorter) Name() types.SortKey {
	return s.name
}

func (s *identitySorter) Sort(items []types.Product) []types.Product {
	return slices.Clone(items)
}

type newestSorter struct{}

// NewNewestSorter puts new items first, then orders by id descending.
func NewNewestSorter() Sorter {
	return &newestSorter{}
}

func (s *newestSorter) Name() types.SortKey {
	return types.SortNewest
}

func (s *newestSorter) Sort(items []types.Product) []types.Product {
	order := make(types.ByValue, len(items))
	for i := range items {
		order[i] = types.Lookup{Index: i}
		if items[i].IsNew {
			order[i].Value = 1
		}
	}
	slices.SortStableFunc(order, func(a, b types.Lookup) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(items[b.Index].Id, items[a.Index].Id)
	})
	return pick(items, order)
}
