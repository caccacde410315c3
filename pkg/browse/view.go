package browse

import (
	"slices"

	"github.com/matst80/slask-storefront/pkg/filters"
	"github.com/matst80/slask-storefront/pkg/results"
	"github.com/matst80/slask-storefront/pkg/types"
)

// View is everything a page renders.
type View struct {
	SessionId     string            `json:"sessionId,omitempty"`
	Page          types.PageKind    `json:"page"`
	Title         string            `json:"title"`
	Products      []types.Product   `json:"products"`
	Loading       bool              `json:"loading"`
	LoadingMore   bool              `json:"loadingMore"`
	Error         string            `json:"error,omitempty"`
	Notice        string            `json:"notice,omitempty"`
	Empty         bool              `json:"empty"`
	Fallback      bool              `json:"fallback"`
	HasMore       bool              `json:"hasMore"`
	PageNumber    int               `json:"pageNumber"`
	TotalCount    int               `json:"totalCount"`
	Accumulated   int               `json:"accumulated"`
	SortKey       types.SortKey     `json:"sortKey"`
	SortKeys      []types.SortKey   `json:"sortKeys"`
	Pending       types.FilterState `json:"pending"`
	Applied       types.FilterState `json:"applied"`
	HasChanges    bool              `json:"hasChanges"`
	ActiveFilters []string          `json:"activeFilters"`
}

func (p *Page) view(snap results.Snapshot) View {
	staged := p.filters.State()
	products := p.products(snap, staged.Applied)

	p.mu.Lock()
	sortKey := p.sortKey
	p.mu.Unlock()

	return View{
		SessionId:     p.sessionId,
		Page:          p.profile.Kind,
		Title:         p.target.Title(),
		Products:      products,
		Loading:       snap.Loading,
		LoadingMore:   snap.LoadingMore,
		Error:         snap.Error,
		Notice:        snap.Notice,
		Empty:         snap.Empty,
		Fallback:      snap.Fallback,
		HasMore:       snap.HasMore,
		PageNumber:    snap.Page,
		TotalCount:    snap.TotalCount,
		Accumulated:   len(snap.Items),
		SortKey:       sortKey,
		SortKeys:      slices.Clone(p.profile.SortKeys),
		Pending:       staged.Pending,
		Applied:       staged.Applied,
		HasChanges:    staged.HasChanges(),
		ActiveFilters: filters.ActiveFilters(staged.Applied),
	}
}
