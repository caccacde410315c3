package types

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
)

type PageKind string

const (
	PageGrid     PageKind = "grid"
	PageCategory PageKind = "category"
	PageSearch   PageKind = "search"
)

// BrowseRequest opens a browse session for one of the page flows.
type BrowseRequest struct {
	Page        PageKind     `json:"page" schema:"page,default:grid"`
	Category    string       `json:"category" schema:"category"`
	Query       string       `json:"query" schema:"q"`
	SearchIndex string       `json:"searchIndex" schema:"searchIndex"`
	Sort        string       `json:"sort" schema:"sort"`
	Filters     *FilterState `json:"filters,omitempty" schema:"-"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (b *BrowseRequest) Sanitize() {
	b.Category = strings.TrimSpace(strings.ToLower(b.Category))
	b.Query = strings.TrimSpace(b.Query)
	b.SearchIndex = strings.TrimSpace(b.SearchIndex)
	if b.Page == "" {
		b.Page = PageGrid
	}
	if b.Filters != nil {
		b.Filters.MinRating = clamp(b.Filters.MinRating, 0, MaxRating)
	}
}

func (b *BrowseRequest) Validate() error {
	switch b.Page {
	case PageGrid:
	case PageCategory:
		if b.Category == "" {
			return InvalidArgument("category page needs a category")
		}
	case PageSearch:
		if b.Query == "" {
			return InvalidArgument("search page needs a query")
		}
	default:
		return InvalidArgument("unknown page %q", b.Page)
	}
	if b.Sort != "" {
		if _, err := ParseSortKey(b.Sort); err != nil {
			return err
		}
	}
	if b.Filters != nil {
		return b.Filters.Validate()
	}
	return nil
}

// GetBrowseRequest reads a BrowseRequest from the query string on GET and from
// a JSON body otherwise. Filters in the query string use the cat, brand,
// feature, min, max and rating keys.
func GetBrowseRequest(r *http.Request) (*BrowseRequest, error) {
	br := &BrowseRequest{Page: PageGrid}
	var err error
	if r.Method == http.MethodGet {
		err = browseRequestFromQuery(r.URL.Query(), br)
	} else {
		var body []byte
		body, err = io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err == nil && len(body) > 0 {
			err = jsoncompat.Unmarshal(body, br)
		}
	}
	if err != nil {
		return nil, InvalidArgument("malformed browse request: %v", err)
	}
	br.Sanitize()
	return br, nil
}

func browseRequestFromQuery(query url.Values, result *BrowseRequest) error {
	if err := decoder.Decode(result, query); err != nil {
		return err
	}
	filters, err := FiltersFromQuery(query)
	if err != nil {
		return err
	}
	if !filters.IsDefault() {
		result.Filters = &filters
	}
	return nil
}

type filterQuery struct {
	Categories []string `schema:"cat"`
	Brands     []string `schema:"brand"`
	Features   []string `schema:"feature"`
	Min        *float64 `schema:"min"`
	Max        *float64 `schema:"max"`
	Rating     int      `schema:"rating"`
}

// FiltersFromQuery decodes a FilterState from url values, keeping defaults
// for anything not present.
func FiltersFromQuery(query url.Values) (FilterState, error) {
	var q filterQuery
	if err := decoder.Decode(&q, query); err != nil {
		return FilterState{}, err
	}
	f := DefaultFilterState()
	if q.Min != nil {
		f.PriceRange.Min = *q.Min
	}
	if q.Max != nil {
		f.PriceRange.Max = *q.Max
	}
	f.Categories = appendUnique(f.Categories, q.Categories)
	f.Brands = appendUnique(f.Brands, q.Brands)
	f.Features = appendUnique(f.Features, q.Features)
	f.MinRating = q.Rating
	return f, f.Validate()
}

func appendUnique(dst []string, values []string) []string {
	seen := toSet(dst)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
