package results

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/matst80/slask-storefront/pkg/logging"
	"github.com/matst80/slask-storefront/pkg/types"
	"go.uber.org/zap"
)

// ErrSuperseded is returned when a response arrived after a newer reset
// started. The accumulated set is left as the newer reset made it.
var ErrSuperseded = errors.New("results: response superseded by a newer reset")

const (
	DefaultFailureMessage  = "Failed to load products"
	DefaultLoadMoreMessage = "Failed to load more products"
	DefaultEmptyMessage    = "No products found"
)

type PageRequest struct {
	Query    types.QuerySpec
	Page     int
	Epoch    uint64
	LoadMore bool
}

type Fetcher interface {
	Fetch(ctx context.Context, req PageRequest) (types.ResultPage, error)
}

type FetcherFunc func(ctx context.Context, req PageRequest) (types.ResultPage, error)

func (f FetcherFunc) Fetch(ctx context.Context, req PageRequest) (types.ResultPage, error) {
	return f(ctx, req)
}

// Snapshot is a copy of the accumulator state at one point in time.
type Snapshot struct {
	Items       []types.Product `json:"items"`
	Page        int             `json:"page"`
	HasMore     bool            `json:"hasMore"`
	TotalCount  int             `json:"totalCount,omitempty"`
	Loading     bool            `json:"loading"`
	LoadingMore bool            `json:"loadingMore"`
	Error       string          `json:"error,omitempty"`
	Notice      string          `json:"notice,omitempty"`
	Empty       bool            `json:"empty"`
	Fallback    bool            `json:"fallback"`
	Epoch       uint64          `json:"epoch"`
}

type Option func(*Accumulator)

func WithLogger(l *zap.Logger) Option {
	return func(a *Accumulator) { a.logger = logging.OrNop(l) }
}

func WithName(name string) Option {
	return func(a *Accumulator) { a.name = name }
}

func WithFallback(items []types.Product) Option {
	return func(a *Accumulator) { a.fallback = slices.Clone(items) }
}

// WithFallbackOnEmpty shows the fallback list instead of an empty state
// when the first page comes back empty.
func WithFallbackOnEmpty(enabled bool) Option {
	return func(a *Accumulator) { a.fallbackOnEmpty = enabled }
}

func WithMessages(failure, loadMore, empty string) Option {
	return func(a *Accumulator) {
		if failure != "" {
			a.failureMessage = failure
		}
		if loadMore != "" {
			a.loadMoreMessage = loadMore
		}
		if empty != "" {
			a.emptyMessage = empty
		}
	}
}

// Accumulator owns the accumulated result set of one page. Every fetch is
// stamped with the epoch current when it started; a reset bumps the epoch
// so anything that resolves later for an older epoch is dropped.
type Accumulator struct {
	mu              sync.Mutex
	fetcher         Fetcher
	logger          *zap.Logger
	name            string
	fallback        []types.Product
	fallbackOnEmpty bool
	failureMessage  string
	loadMoreMessage string
	emptyMessage    string

	epoch         uint64
	loadSeq       uint64
	items         []types.Product
	page          int
	hasMore       bool
	total         int
	loading       bool
	loadingMore   bool
	errMsg        string
	notice        string
	empty         bool
	fallbackShown bool
}

func New(fetcher Fetcher, opts ...Option) *Accumulator {
	a := &Accumulator{
		fetcher:         fetcher,
		logger:          zap.NewNop(),
		name:            "default",
		fallback:        FallbackProducts(),
		failureMessage:  DefaultFailureMessage,
		loadMoreMessage: DefaultLoadMoreMessage,
		emptyMessage:    DefaultEmptyMessage,
		items:           []types.Product{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Accumulator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot()
}

// ResetFetch replaces the accumulated set with page 1 of q. On failure the
// fallback list is shown, pagination stops and a NetworkFailure error is
// returned alongside the usable snapshot.
func (a *Accumulator) ResetFetch(ctx context.Context, q types.QuerySpec) (Snapshot, error) {
	a.mu.Lock()
	a.epoch++
	epoch := a.epoch
	a.loadSeq++
	a.loading = true
	a.loadingMore = false
	a.errMsg = ""
	a.notice = ""
	a.mu.Unlock()

	page, err := a.fetcher.Fetch(ctx, PageRequest{Query: q, Page: 1, Epoch: epoch})

	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.epoch {
		a.discard("reset", epoch)
		return a.snapshot(), ErrSuperseded
	}
	a.loading = false

	if err != nil {
		msg := a.failureMessage
		if types.CodeOf(err) == types.ErrCodeNetworkFailure {
			msg = types.MessageOf(err)
		} else {
			err = types.NetworkFailure(msg, err)
		}
		a.useFallback()
		a.errMsg = msg
		fetchesTotal.WithLabelValues(a.name, "reset", "failed").Inc()
		a.logger.Warn("reset fetch failed, showing fallback products",
			zap.String("accumulator", a.name), zap.Uint64("epoch", epoch), zap.Error(err))
		return a.snapshot(), err
	}

	if len(page.Items) == 0 {
		fetchesTotal.WithLabelValues(a.name, "reset", "empty").Inc()
		if a.fallbackOnEmpty {
			a.useFallback()
			a.logger.Warn("no products returned, showing fallback products", zap.String("accumulator", a.name))
			return a.snapshot(), nil
		}
		a.items = []types.Product{}
		a.page = 1
		a.hasMore = false
		a.total = 0
		a.empty = true
		a.fallbackShown = false
		a.notice = page.Message
		if a.notice == "" {
			a.notice = a.emptyMessage
		}
		return a.snapshot(), nil
	}

	a.items = slices.Clone(page.Items)
	a.page = max(page.PageNumber, 1)
	a.hasMore = page.HasMore
	a.total = page.TotalCount
	a.empty = false
	a.fallbackShown = false
	fetchesTotal.WithLabelValues(a.name, "reset", "ok").Inc()
	a.logger.Debug("reset fetch settled",
		zap.String("accumulator", a.name), zap.Uint64("epoch", epoch),
		zap.Int("items", len(a.items)), zap.Bool("hasMore", a.hasMore))
	return a.snapshot(), nil
}

// LoadMore appends the next page. It does nothing while another load more
// is in flight or when the last response said there is nothing more. A load
// more started while a reset is unresolved is sent but ignored when it
// resolves.
func (a *Accumulator) LoadMore(ctx context.Context, q types.QuerySpec) (Snapshot, error) {
	a.mu.Lock()
	if a.loadingMore || !a.hasMore {
		reason := "exhausted"
		if a.loadingMore {
			reason = "in_flight"
		}
		ignoredLoadMore.WithLabelValues(a.name, reason).Inc()
		a.logger.Debug("load more ignored", zap.String("accumulator", a.name), zap.String("reason", reason))
		s := a.snapshot()
		a.mu.Unlock()
		return s, nil
	}
	a.loadSeq++
	seq := a.loadSeq
	epoch := a.epoch
	duringReset := a.loading
	next := a.page + 1
	a.loadingMore = true
	a.mu.Unlock()

	page, err := a.fetcher.Fetch(ctx, PageRequest{Query: q, Page: next, Epoch: epoch, LoadMore: true})

	a.mu.Lock()
	defer a.mu.Unlock()
	if seq == a.loadSeq {
		a.loadingMore = false
	}
	if epoch != a.epoch || duringReset {
		a.discard("load_more", epoch)
		return a.snapshot(), ErrSuperseded
	}

	if err != nil {
		if errors.Is(err, types.ErrRemoteUnsuccessful) {
			a.hasMore = false
			fetchesTotal.WithLabelValues(a.name, "load_more", "empty").Inc()
			return a.snapshot(), nil
		}
		a.errMsg = a.loadMoreMessage
		fetchesTotal.WithLabelValues(a.name, "load_more", "failed").Inc()
		a.logger.Warn("load more failed", zap.String("accumulator", a.name), zap.Int("page", next), zap.Error(err))
		if types.CodeOf(err) != types.ErrCodeNetworkFailure {
			err = types.NetworkFailure(a.loadMoreMessage, err)
		}
		return a.snapshot(), err
	}

	if len(page.Items) == 0 {
		a.hasMore = false
		fetchesTotal.WithLabelValues(a.name, "load_more", "empty").Inc()
		return a.snapshot(), nil
	}

	items := slices.Grow(slices.Clone(a.items), len(page.Items))
	for i, item := range page.Items {
		item.Id = fmt.Sprintf("%s-page%d-%d", item.Id, next, i)
		items = append(items, item)
	}
	a.items = items
	a.page = next
	if page.PageNumber > 0 {
		a.page = page.PageNumber
	}
	a.hasMore = page.HasMore
	if page.TotalCount > 0 {
		a.total = page.TotalCount
	}
	fetchesTotal.WithLabelValues(a.name, "load_more", "ok").Inc()
	a.logger.Debug("load more settled",
		zap.String("accumulator", a.name), zap.Int("page", next),
		zap.Int("items", len(a.items)), zap.Bool("hasMore", a.hasMore))
	return a.snapshot(), nil
}

func (a *Accumulator) useFallback() {
	a.items = slices.Clone(a.fallback)
	a.page = 1
	a.hasMore = false
	a.total = len(a.fallback)
	a.empty = false
	a.fallbackShown = true
	fallbacksTotal.WithLabelValues(a.name).Inc()
}

func (a *Accumulator) discard(kind string, epoch uint64) {
	staleResponses.WithLabelValues(a.name, kind).Inc()
	a.logger.Debug("discarding stale response",
		zap.String("accumulator", a.name), zap.String("kind", kind),
		zap.Uint64("epoch", epoch), zap.Uint64("current", a.epoch))
}

func (a *Accumulator) snapshot() Snapshot {
	return Snapshot{
		Items:       slices.Clone(a.items),
		Page:        a.page,
		HasMore:     a.hasMore,
		TotalCount:  a.total,
		Loading:     a.loading,
		LoadingMore: a.loadingMore,
		Error:       a.errMsg,
		Notice:      a.notice,
		Empty:       a.empty,
		Fallback:    a.fallbackShown,
		Epoch:       a.epoch,
	}
}
