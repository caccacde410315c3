package browse

import (
	"fmt"
	"slices"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/results"
	"github.com/matst80/slask-storefront/pkg/types"
)

// Profile parameterizes the shared browse core for one page flow.
type Profile struct {
	Kind           types.PageKind
	Route          catalog.RouteKind
	ResetItemCount int
	LoadItemCount  int
	SortKeys       []types.SortKey
	DefaultSort    types.SortKey
	// ServerSort sends the sort key to the remote, so changing it refetches.
	ServerSort bool
	// ClientFilter narrows the accumulated set with the applied filters.
	ClientFilter    bool
	FallbackOnEmpty bool
	// AssumeMore keeps pagination open until MaxPages regardless of the
	// remote flag.
	AssumeMore bool
	MaxPages   int
	// EstimatePages and EstimatePageSize open pagination while
	// page < EstimatePages and page*EstimatePageSize < total.
	EstimatePages    int
	EstimatePageSize int

	FailureMessage  string
	LoadMoreMessage string
	EmptyMessage    string
}

var clientSortKeys = []types.SortKey{
	types.SortFeatured,
	types.SortPriceLow,
	types.SortPriceHigh,
	types.SortRating,
	types.SortNewest,
}

func GridProfile() Profile {
	return Profile{
		Kind:            types.PageGrid,
		Route:           catalog.RouteSample,
		SortKeys:        clientSortKeys,
		DefaultSort:     types.SortFeatured,
		FallbackOnEmpty: true,
		AssumeMore:      true,
		MaxPages:        3,
		FailureMessage:  "Failed to load products from Amazon API",
		LoadMoreMessage: results.DefaultLoadMoreMessage,
	}
}

func CategoryProfile() Profile {
	return Profile{
		Kind:            types.PageCategory,
		Route:           catalog.RouteCategory,
		ResetItemCount:  8,
		LoadItemCount:   8,
		SortKeys:        clientSortKeys,
		DefaultSort:     types.SortFeatured,
		ServerSort:      true,
		FailureMessage:  "Failed to load products from Amazon API. Please check if the backend server is running.",
		LoadMoreMessage: results.DefaultLoadMoreMessage,
		EmptyMessage:    "No products found in this category",
	}
}

func SearchProfile() Profile {
	return Profile{
		Kind:           types.PageSearch,
		Route:          catalog.RouteSearch,
		ResetItemCount: 20,
		LoadItemCount:  8,
		SortKeys: []types.SortKey{
			types.SortTrending,
			types.SortBestseller,
			types.SortRelevance,
			types.SortRating,
			types.SortPriceLow,
			types.SortPriceHigh,
			types.SortNewest,
		},
		DefaultSort:      types.SortTrending,
		ServerSort:       true,
		ClientFilter:     true,
		EstimatePages:    10,
		EstimatePageSize: 20,
		FailureMessage:   "Failed to search products. Please check if the backend server is running.",
		LoadMoreMessage:  "Failed to load more search results",
	}
}

func ProfileFor(kind types.PageKind) (Profile, error) {
	switch kind {
	case types.PageGrid, "":
		return GridProfile(), nil
	case types.PageCategory:
		return CategoryProfile(), nil
	case types.PageSearch:
		return SearchProfile(), nil
	}
	return Profile{}, types.InvalidArgument("unknown page %q", kind)
}

func (p Profile) Supports(key types.SortKey) bool {
	return slices.Contains(p.SortKeys, key)
}

// HasMore decides whether page is followed by another one.
func (p Profile) HasMore(page int, remote bool, total int) bool {
	more := remote || p.AssumeMore
	if p.EstimatePages > 0 && page < p.EstimatePages && page*p.EstimatePageSize < total {
		more = true
	}
	if p.MaxPages > 0 && page >= p.MaxPages {
		more = false
	}
	return more
}

func (p Profile) emptyMessage(t Target) string {
	if p.Kind == types.PageSearch {
		return fmt.Sprintf("No products found for \"%s\"", t.Query)
	}
	return p.EmptyMessage
}
