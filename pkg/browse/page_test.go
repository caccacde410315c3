package browse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	mu     sync.Mutex
	calls  []catalog.SearchParams
	search func(params catalog.SearchParams) (*catalog.SearchResponse, error)
}

func (s *fakeSource) Search(ctx context.Context, params catalog.SearchParams) (*catalog.SearchResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, params)
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.search(params)
}

func (s *fakeSource) last() catalog.SearchParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func (s *fakeSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type recordingTracker struct {
	mu     sync.Mutex
	events []types.SearchEvent
}

func (t *recordingTracker) TrackSession(string, *http.Request) {}

func (t *recordingTracker) TrackSearch(e types.SearchEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

func (t *recordingTracker) Close() error { return nil }

func remote(n int, more bool, total int) *catalog.SearchResponse {
	products := make([]catalog.RemoteProduct, n)
	for i := range products {
		products[i] = catalog.RemoteProduct{
			Id:    fmt.Sprintf("p%d", i),
			Title: fmt.Sprintf("Product %d", i),
			Price: types.Float(float64(100 * (n - i))),
		}
	}
	return &catalog.SearchResponse{Success: true, Products: products, HasMoreResults: more, TotalResults: total}
}

func respond(resp *catalog.SearchResponse) func(catalog.SearchParams) (*catalog.SearchResponse, error) {
	return func(catalog.SearchParams) (*catalog.SearchResponse, error) { return resp, nil }
}

func openPage(t *testing.T, src catalog.Source, req *types.BrowseRequest, opts ...Option) (*Page, View) {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	p, err := New(src, req, opts...)
	require.NoError(t, err)
	v, err := p.Load(context.Background())
	require.NoError(t, err)
	return p, v
}

func TestGridPaginatesUpToMaxPages(t *testing.T) {
	src := &fakeSource{search: respond(remote(6, false, 0))}
	p, v := openPage(t, src, &types.BrowseRequest{Page: types.PageGrid})

	assert.Equal(t, catalog.RouteSample, src.last().Route)
	assert.Len(t, v.Products, 6)
	assert.True(t, v.HasMore)
	assert.Equal(t, types.SortFeatured, v.SortKey)

	ctx := context.Background()
	v, err := p.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, v.HasMore)
	v, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, v.HasMore)
	assert.Len(t, v.Products, 18)
	assert.Equal(t, "p0-page3-0", v.Products[12].Id)

	_, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, src.count())
}

func TestGridFailureShowsFallback(t *testing.T) {
	src := &fakeSource{search: func(catalog.SearchParams) (*catalog.SearchResponse, error) {
		return nil, errors.New("connection refused")
	}}
	tracker := &recordingTracker{}
	_, v := openPage(t, src, &types.BrowseRequest{Page: types.PageGrid}, WithTracking(tracker), WithSessionId("s1"))

	assert.Equal(t, "Failed to load products from Amazon API", v.Error)
	assert.True(t, v.Fallback)
	assert.False(t, v.HasMore)
	assert.Len(t, v.Products, 6)
	require.Len(t, tracker.events, 1)
	assert.True(t, tracker.events[0].Fallback)
	assert.Equal(t, "s1", tracker.events[0].SessionId)
}

func TestGridSortIsLocal(t *testing.T) {
	src := &fakeSource{search: respond(remote(3, false, 0))}
	p, _ := openPage(t, src, &types.BrowseRequest{Page: types.PageGrid})

	v, err := p.ChangeSort(context.Background(), "price-low")
	require.NoError(t, err)
	assert.Equal(t, 1, src.count())
	assert.Equal(t, []string{"p2", "p1", "p0"}, ids(v.Products))

	v, err = p.ChangeSort(context.Background(), "featured")
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p1", "p2"}, ids(v.Products))

	_, err = p.ChangeSort(context.Background(), "trending")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = p.ChangeSort(context.Background(), "cheapest")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestCategorySendsAppliedFilters(t *testing.T) {
	src := &fakeSource{search: respond(remote(8, true, 40))}
	p, v := openPage(t, src, &types.BrowseRequest{Page: types.PageCategory, Category: "home-garden"})
	assert.Equal(t, "Home & Garden", v.Title)

	first := src.last()
	assert.Equal(t, catalog.RouteCategory, first.Route)
	assert.Equal(t, "home-garden", first.Category)
	assert.Equal(t, "home kitchen garden", first.Keywords)
	assert.Equal(t, 8, first.ItemCount)
	assert.Empty(t, first.SortBy)
	assert.Nil(t, first.MinPrice)

	require.NoError(t, p.SetPriceRange(types.PriceRange{Min: 1000, Max: 5000}))
	p.ToggleBrand("Sony")
	p.ToggleBrand("Apple")
	require.NoError(t, p.SetMinRating(4))
	v, err := p.Apply(context.Background())
	require.NoError(t, err)
	assert.False(t, v.HasChanges)
	assert.Equal(t, []string{"₹1,000-₹5,000", "Sony", "Apple", "4+ Stars"}, v.ActiveFilters)

	params := src.last()
	assert.Equal(t, 1000.0, *params.MinPrice)
	assert.Equal(t, 5000.0, *params.MaxPrice)
	assert.Equal(t, "Sony", params.Brand)
	assert.Equal(t, 4, params.MinRating)

	_, err = p.ChangeSort(context.Background(), "rating")
	require.NoError(t, err)
	assert.Equal(t, "rating", src.last().SortBy)
	assert.Equal(t, 3, src.count())
}

func TestCategoryNotFound(t *testing.T) {
	src := &fakeSource{search: func(p catalog.SearchParams) (*catalog.SearchResponse, error) {
		return nil, &catalog.StatusError{StatusCode: http.StatusNotFound, Route: p.Route}
	}}
	_, v := openPage(t, src, &types.BrowseRequest{Page: types.PageCategory, Category: "toys"})
	assert.Equal(t, "Category 'toys' not found", v.Error)
	assert.True(t, v.Fallback)
}

func TestApplyWithoutChangesDoesNotFetch(t *testing.T) {
	src := &fakeSource{search: respond(remote(8, true, 40))}
	p, _ := openPage(t, src, &types.BrowseRequest{Page: types.PageCategory, Category: "books"})

	_, err := p.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.count())

	p.ToggleCategory("Books")
	p.ToggleCategory("Books")
	_, err = p.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.count())
}

func TestResetPendingDiscardsEdits(t *testing.T) {
	src := &fakeSource{search: respond(remote(8, true, 40))}
	p, _ := openPage(t, src, &types.BrowseRequest{Page: types.PageCategory, Category: "books"})

	p.ToggleBrand("Sony")
	require.NoError(t, p.SetMinRating(3))
	assert.True(t, p.HasChanges())

	v := p.ResetPending()
	assert.False(t, v.HasChanges)
	assert.True(t, v.Pending.Equal(v.Applied))
	assert.Equal(t, 1, src.count())
}

func TestRemoveChipRefetches(t *testing.T) {
	src := &fakeSource{search: respond(remote(8, true, 40))}
	p, _ := openPage(t, src, &types.BrowseRequest{Page: types.PageCategory, Category: "books"})
	ctx := context.Background()

	p.ToggleBrand("Sony")
	p.ToggleFeature("On Sale")
	_, err := p.Apply(ctx)
	require.NoError(t, err)

	v, err := p.RemoveChip(ctx, "Sony")
	require.NoError(t, err)
	assert.Equal(t, []string{"On Sale"}, v.ActiveFilters)
	assert.Empty(t, src.last().Brand)
	assert.Equal(t, 3, src.count())

	_, err = p.RemoveChip(ctx, "Nope")
	require.NoError(t, err)
	assert.Equal(t, 3, src.count())

	v, err = p.ClearAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.ActiveFilters)
	assert.True(t, v.Applied.IsDefault())
}

func TestSetAppliedDropsPending(t *testing.T) {
	src := &fakeSource{search: respond(remote(8, true, 40))}
	p, _ := openPage(t, src, &types.BrowseRequest{Page: types.PageCategory, Category: "books"})
	p.ToggleBrand("Sony")

	applied := types.DefaultFilterState()
	applied.MinRating = 2
	v, err := p.SetApplied(context.Background(), applied)
	require.NoError(t, err)
	assert.False(t, v.HasChanges)
	assert.Empty(t, v.Pending.Brands)
	assert.Equal(t, 2, src.last().MinRating)

	bad := types.DefaultFilterState()
	bad.MinRating = 9
	_, err = p.SetApplied(context.Background(), bad)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestSearchFiltersAndSortsClientSide(t *testing.T) {
	src := &fakeSource{search: func(catalog.SearchParams) (*catalog.SearchResponse, error) {
		return &catalog.SearchResponse{
			Success:      true,
			TotalResults: 100,
			Products: []catalog.RemoteProduct{
				{Id: "a", Title: "Plain", Price: types.Float(500), Rating: 4},
				{Id: "b", Title: "Deal", Price: types.Float(300), OriginalPrice: types.Float(400), Rating: 3, IsNew: true},
				{Id: "c", Title: "Other deal", Price: types.Float(200), OriginalPrice: types.Float(250), Rating: 5, PriceChange: "down"},
			},
		}, nil
	}}
	p, v := openPage(t, src, &types.BrowseRequest{Page: types.PageSearch, Query: "usb", SearchIndex: "Electronics"})

	assert.Equal(t, `Search results for "usb" in Electronics`, v.Title)
	params := src.last()
	assert.Equal(t, catalog.RouteSearch, params.Route)
	assert.Equal(t, "Electronics", params.SearchIndex)
	assert.Equal(t, 20, params.ItemCount)
	assert.Equal(t, "trending", params.SortBy)
	assert.True(t, v.HasMore, "20 of 100 results leaves more pages")
	// trending: b = 5 + 0.6, c = 3 + 1.0, a = 0.8
	assert.Equal(t, []string{"b", "c", "a"}, ids(v.Products))

	p.ToggleFeature("On Sale")
	v, err := p.Apply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(v.Products))
	assert.Equal(t, 3, v.Accumulated)
}

func TestSearchEmptyNotice(t *testing.T) {
	src := &fakeSource{search: respond(&catalog.SearchResponse{Success: true})}
	_, v := openPage(t, src, &types.BrowseRequest{Page: types.PageSearch, Query: "zzz"})
	assert.True(t, v.Empty)
	assert.Equal(t, `No products found for "zzz"`, v.Notice)
	assert.Empty(t, v.Error)
	assert.False(t, v.Fallback)
}

func TestSearchLoadMoreUsesSmallerPages(t *testing.T) {
	src := &fakeSource{search: respond(remote(8, true, 0))}
	p, _ := openPage(t, src, &types.BrowseRequest{Page: types.PageSearch, Query: "tv", Category: "electronics"})
	assert.Equal(t, catalog.RouteCategory, src.last().Route)
	assert.Equal(t, "tv", src.last().Keywords)

	v, err := p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, src.last().ItemCount)
	assert.Equal(t, 2, src.last().Page)
	assert.Equal(t, 16, v.Accumulated)
}

func TestNewRejectsInvalidRequests(t *testing.T) {
	src := &fakeSource{search: respond(remote(1, false, 0))}
	cases := []*types.BrowseRequest{
		{Page: types.PageSearch},
		{Page: types.PageCategory},
		{Page: "cart"},
		{Page: types.PageGrid, Sort: "bestseller"},
	}
	for _, req := range cases {
		_, err := New(src, req)
		assert.ErrorIs(t, err, types.ErrInvalidArgument, "request %+v", req)
	}
}

func ids(items []types.Product) []string {
	ret := make([]string, len(items))
	for i, item := range items {
		ret[i] = item.Id
	}
	return ret
}

func TestCancelledRequestStillSettlesSession(t *testing.T) {
	src := &fakeSource{search: respond(remote(8, true, 40))}
	p, _ := openPage(t, src, &types.BrowseRequest{Page: types.PageCategory, Category: "books"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p.ToggleBrand("Sony")
	v, err := p.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.count())
	assert.Equal(t, "Sony", src.last().Brand)
	assert.False(t, v.Fallback)
	assert.Empty(t, v.Error)
	assert.True(t, v.HasMore)
	assert.Len(t, v.Products, 8)

	v, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, src.count())
	assert.Len(t, v.Products, 16)
	assert.Equal(t, 2, v.PageNumber)
}
