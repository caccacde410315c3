package browse

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/filters"
	"github.com/matst80/slask-storefront/pkg/logging"
	"github.com/matst80/slask-storefront/pkg/results"
	"github.com/matst80/slask-storefront/pkg/sorting"
	"github.com/matst80/slask-storefront/pkg/types"
	"go.uber.org/zap"
)

type Option func(*Page)

func WithLogger(l *zap.Logger) Option {
	return func(p *Page) { p.logger = logging.OrNop(l) }
}

func WithTracking(t types.Tracking) Option {
	return func(p *Page) { p.tracking = t }
}

func WithSessionId(id string) Option {
	return func(p *Page) { p.sessionId = id }
}

func WithProfile(profile Profile) Option {
	return func(p *Page) { p.profile = profile }
}

// Page is one browse session: a filter sidebar, a sort selector and the
// accumulated results they select.
type Page struct {
	mu        sync.Mutex
	profile   Profile
	target    Target
	sessionId string
	logger    *zap.Logger
	tracking  types.Tracking
	engine    *sorting.Engine
	filters   *filters.Controller
	acc       *results.Accumulator

	sortKey types.SortKey
	fetched *types.QuerySpec
	shown   []types.Product
}

// New validates req and builds a page for it. Nothing is fetched until Load.
func New(source catalog.Source, req *types.BrowseRequest, opts ...Option) (*Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	profile, err := ProfileFor(req.Page)
	if err != nil {
		return nil, err
	}
	p := &Page{
		profile: profile,
		target:  TargetFromRequest(req),
		logger:  zap.NewNop(),
		engine:  sorting.NewEngine(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.sortKey = p.profile.DefaultSort
	if req.Sort != "" {
		key := types.SortKey(req.Sort)
		if !p.profile.Supports(key) {
			return nil, types.InvalidArgument("sort %q is not offered on the %s page", key, p.profile.Kind)
		}
		p.sortKey = key
	}

	applied := types.DefaultFilterState()
	if req.Filters != nil {
		applied = req.Filters.Clone()
	}
	p.filters = filters.NewController(applied, nil, p.logger)
	p.acc = results.New(&sourceFetcher{source: source, profile: p.profile, target: p.target},
		results.WithLogger(p.logger),
		results.WithName(string(p.profile.Kind)),
		results.WithFallbackOnEmpty(p.profile.FallbackOnEmpty),
		results.WithMessages(p.profile.FailureMessage, p.profile.LoadMoreMessage, p.profile.emptyMessage(p.target)),
	)
	return p, nil
}

func (p *Page) Target() Target {
	return p.target
}

func (p *Page) Profile() Profile {
	return p.profile
}

// Load fetches the first page for the current applied filters and sort.
func (p *Page) Load(ctx context.Context) (View, error) {
	return p.refresh(ctx, true)
}

// Reload refetches page 1 even when nothing changed.
func (p *Page) Reload(ctx context.Context) (View, error) {
	return p.refresh(ctx, true)
}

func (p *Page) Pending() types.FilterState {
	return p.filters.Pending()
}

func (p *Page) Applied() types.FilterState {
	return p.filters.Applied()
}

func (p *Page) HasChanges() bool {
	return p.filters.HasChanges()
}

func (p *Page) SetPriceRange(r types.PriceRange) error {
	return p.filters.SetPriceRange(r)
}

func (p *Page) ToggleCategory(category string) {
	p.filters.ToggleCategory(category)
}

func (p *Page) ToggleBrand(brand string) {
	p.filters.ToggleBrand(brand)
}

func (p *Page) ToggleFeature(feature string) {
	p.filters.ToggleFeature(feature)
}

func (p *Page) SetMinRating(rating int) error {
	return p.filters.SetMinRating(rating)
}

// Apply publishes the pending filters and refetches when the applied value
// changed.
func (p *Page) Apply(ctx context.Context) (View, error) {
	if !p.filters.Apply() {
		return p.State(), nil
	}
	return p.refresh(ctx, false)
}

// ResetPending discards unapplied edits.
func (p *Page) ResetPending() View {
	p.filters.Reset()
	return p.State()
}

func (p *Page) ClearAll(ctx context.Context) (View, error) {
	p.filters.ClearAll()
	return p.refresh(ctx, false)
}

func (p *Page) RemoveChip(ctx context.Context, label string) (View, error) {
	if !p.filters.RemoveActiveFilterChip(label) {
		return p.State(), nil
	}
	return p.refresh(ctx, false)
}

// SetApplied replaces the applied filters from outside the sidebar. Pending
// edits are dropped when the value changes.
func (p *Page) SetApplied(ctx context.Context, applied types.FilterState) (View, error) {
	if err := applied.Validate(); err != nil {
		return p.State(), err
	}
	if !p.filters.Sync(applied) {
		return p.State(), nil
	}
	return p.refresh(ctx, false)
}

// ChangeSort selects a sort key. Profiles that sort on the server refetch,
// the others only reorder what is already accumulated.
func (p *Page) ChangeSort(ctx context.Context, key string) (View, error) {
	sortKey, err := types.ParseSortKey(key)
	if err != nil {
		return p.State(), err
	}
	if !p.profile.Supports(sortKey) {
		return p.State(), types.InvalidArgument("sort %q is not offered on the %s page", sortKey, p.profile.Kind)
	}
	p.mu.Lock()
	p.sortKey = sortKey
	p.shown = nil
	p.mu.Unlock()
	if !p.profile.ServerSort {
		return p.State(), nil
	}
	return p.refresh(ctx, false)
}

// LoadMore appends the next page of the query the current set was fetched
// with.
func (p *Page) LoadMore(ctx context.Context) (View, error) {
	p.mu.Lock()
	fetched := p.fetched
	p.mu.Unlock()
	if fetched == nil {
		return p.State(), nil
	}
	q := *fetched
	snap, err := p.acc.LoadMore(context.WithoutCancel(ctx), q)
	switch {
	case errors.Is(err, results.ErrSuperseded):
		return p.State(), nil
	case errors.Is(err, types.ErrNetworkFailure):
		return p.view(snap), nil
	case err != nil:
		return p.view(snap), err
	}
	p.track(q, snap, true)
	return p.view(snap), nil
}

// State is the current view without fetching anything.
func (p *Page) State() View {
	return p.view(p.acc.Snapshot())
}

// refresh starts a reset when the query differs from the last one fetched.
// Network failures are reported through the view, not the error. Fetches
// outlive the request that started them and are bounded by the catalog
// client timeout, so a dropped connection never leaves the session on the
// fallback list.
func (p *Page) refresh(ctx context.Context, force bool) (View, error) {
	q := p.query()
	p.mu.Lock()
	if !force && p.fetched != nil && p.fetched.Sort == q.Sort && p.fetched.Filters.Equal(q.Filters) {
		p.mu.Unlock()
		return p.State(), nil
	}
	p.fetched = &q
	p.shown = nil
	p.mu.Unlock()

	snap, err := p.acc.ResetFetch(context.WithoutCancel(ctx), q)
	switch {
	case errors.Is(err, results.ErrSuperseded):
		return p.State(), nil
	case errors.Is(err, types.ErrNetworkFailure):
		p.logger.Warn("browse reset failed", zap.String("page", string(p.profile.Kind)),
			zap.String("session", p.sessionId), zap.Error(err))
	case err != nil:
		return p.view(snap), err
	}
	p.track(q, snap, false)
	return p.view(snap), nil
}

func (p *Page) query() types.QuerySpec {
	p.mu.Lock()
	sortKey := p.sortKey
	p.mu.Unlock()
	q := types.QuerySpec{Filters: p.filters.Applied()}
	if p.profile.ServerSort {
		q.Sort = sortKey
	}
	return q
}

func (p *Page) track(q types.QuerySpec, snap results.Snapshot, loadMore bool) {
	if p.tracking == nil {
		return
	}
	p.tracking.TrackSearch(types.SearchEvent{
		SessionId:       p.sessionId,
		Page:            p.profile.Kind,
		Query:           p.target.Query,
		Category:        p.target.Category,
		Sort:            q.Sort,
		Filters:         q.Filters,
		NumberOfResults: len(snap.Items),
		PageNumber:      snap.Page,
		LoadMore:        loadMore,
		Fallback:        snap.Fallback,
	})
}

// products returns the displayed list for snap. While a load more is in
// flight the last computed list is kept.
func (p *Page) products(snap results.Snapshot, applied types.FilterState) []types.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	if snap.LoadingMore && p.shown != nil {
		return slices.Clone(p.shown)
	}
	items := snap.Items
	if p.profile.ClientFilter {
		items = filters.Filter(items, applied)
	}
	sorted, err := p.engine.Sort(items, p.sortKey)
	if err != nil {
		p.logger.Error("sorting results", zap.String("sort", string(p.sortKey)), zap.Error(err))
		sorted = slices.Clone(items)
	}
	p.shown = sorted
	return slices.Clone(sorted)
}
