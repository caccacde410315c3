package browse

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/results"
	"github.com/matst80/slask-storefront/pkg/types"
)

// Target is what a page browses: nothing for the grid, a category slug, or a
// search query optionally narrowed to a category or search index.
type Target struct {
	Kind        types.PageKind `json:"page"`
	Category    string         `json:"category,omitempty"`
	Query       string         `json:"query,omitempty"`
	SearchIndex string         `json:"searchIndex,omitempty"`
}

func TargetFromRequest(req *types.BrowseRequest) Target {
	return Target{
		Kind:        req.Page,
		Category:    req.Category,
		Query:       req.Query,
		SearchIndex: req.SearchIndex,
	}
}

// Title is the heading shown above the results.
func (t Target) Title() string {
	switch t.Kind {
	case types.PageCategory:
		c, _ := catalog.LookupCategory(t.Category)
		return c.Name
	case types.PageSearch:
		switch {
		case t.Category != "":
			return fmt.Sprintf("Search results for \"%s\" in %s", t.Query, t.Category)
		case t.SearchIndex != "":
			return fmt.Sprintf("Search results for \"%s\" in %s", t.Query, t.SearchIndex)
		}
		return fmt.Sprintf("Search results for \"%s\"", t.Query)
	}
	return "Featured Products"
}

// sourceFetcher turns page requests into catalog searches for one target.
type sourceFetcher struct {
	source  catalog.Source
	profile Profile
	target  Target
}

func (f *sourceFetcher) Fetch(ctx context.Context, req results.PageRequest) (types.ResultPage, error) {
	params := f.params(req)
	resp, err := f.source.Search(ctx, params)
	if err != nil {
		var status *catalog.StatusError
		if errors.As(err, &status) && status.StatusCode == http.StatusNotFound && params.Route == catalog.RouteCategory {
			return types.ResultPage{}, types.NetworkFailure(fmt.Sprintf("Category '%s' not found", params.Category), err)
		}
		msg := f.profile.FailureMessage
		if req.LoadMore {
			msg = f.profile.LoadMoreMessage
		}
		return types.ResultPage{}, types.NetworkFailure(msg, err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = f.profile.FailureMessage
		}
		return types.ResultPage{}, types.NetworkFailure(msg, types.ErrRemoteUnsuccessful)
	}

	page := req.Page
	if resp.CurrentPage > 0 {
		page = resp.CurrentPage
	}
	total := resp.TotalResults
	if total == 0 {
		total = len(resp.Products)
	}
	items := catalog.Normalize(resp.Products, f.idPrefix(), f.categoryOverride(), "")
	return types.ResultPage{
		Items:      items,
		PageNumber: page,
		HasMore:    len(items) > 0 && f.profile.HasMore(page, resp.HasMoreResults, total),
		TotalCount: total,
		Message:    resp.Message,
	}, nil
}

func (f *sourceFetcher) params(req results.PageRequest) catalog.SearchParams {
	params := catalog.SearchParams{
		Route:     f.profile.Route,
		Page:      req.Page,
		ItemCount: f.profile.ResetItemCount,
	}
	if req.LoadMore {
		params.ItemCount = f.profile.LoadItemCount
	}

	switch f.target.Kind {
	case types.PageCategory:
		c, _ := catalog.LookupCategory(f.target.Category)
		params.Category = c.Slug
		params.Keywords = c.Keywords
	case types.PageSearch:
		params.Keywords = f.target.Query
		if f.target.Category != "" {
			params.Route = catalog.RouteCategory
			params.Category = f.target.Category
		} else if f.target.SearchIndex != "" {
			params.SearchIndex = f.target.SearchIndex
		}
	}

	if f.profile.Route == catalog.RouteSample {
		return params
	}
	filters := req.Query.Filters
	if filters.PriceRange.Min > types.DefaultMinPrice {
		params.MinPrice = types.Float(filters.PriceRange.Min)
	}
	if filters.PriceRange.Max < types.DefaultMaxPrice {
		params.MaxPrice = types.Float(filters.PriceRange.Max)
	}
	if len(filters.Brands) > 0 {
		params.Brand = filters.Brands[0]
	}
	params.MinRating = filters.MinRating
	if f.profile.ServerSort && req.Query.Sort != "" && req.Query.Sort != types.SortFeatured {
		params.SortBy = string(req.Query.Sort)
	}
	return params
}

func (f *sourceFetcher) idPrefix() string {
	switch f.target.Kind {
	case types.PageCategory:
		return f.target.Category
	case types.PageSearch:
		return "search"
	}
	return "sample"
}

func (f *sourceFetcher) categoryOverride() string {
	if f.target.Kind == types.PageCategory {
		return f.target.Category
	}
	return ""
}
