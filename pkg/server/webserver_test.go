package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matst80/slask-storefront/pkg/browse"
	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubSource struct {
	calls atomic.Int32
	last  atomic.Pointer[catalog.SearchParams]
}

func (s *stubSource) Search(ctx context.Context, params catalog.SearchParams) (*catalog.SearchResponse, error) {
	s.calls.Add(1)
	s.last.Store(&params)
	products := make([]catalog.RemoteProduct, 4)
	for i := range products {
		products[i] = catalog.RemoteProduct{Id: fmt.Sprintf("p%d", i), Title: fmt.Sprintf("Sony item %d", i), Price: types.Float(float64(100 + i))}
	}
	return &catalog.SearchResponse{Success: true, Products: products, HasMoreResults: true, TotalResults: 12}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *stubSource, *SessionStore) {
	t.Helper()
	src := &stubSource{}
	sessions := NewSessionStore(time.Hour)
	ws := NewWebServer(src, sessions, nil, zaptest.NewLogger(t))
	srv := httptest.NewServer(ws.Handler([]string{"*"}))
	t.Cleanup(srv.Close)
	return srv, src, sessions
}

func do(t *testing.T, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

func decodeView(t *testing.T, data []byte) browse.View {
	t.Helper()
	var v browse.View
	require.NoError(t, jsoncompat.Unmarshal(data, &v), string(data))
	return v
}

func createSession(t *testing.T, base, body string) browse.View {
	t.Helper()
	res, data := do(t, http.MethodPost, base+"/api/sessions", body)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	return decodeView(t, data)
}

func TestCreateSessionLoadsFirstPage(t *testing.T) {
	srv, src, sessions := newTestServer(t)
	v := createSession(t, srv.URL, `{"page":"category","category":"electronics"}`)

	assert.NotEmpty(t, v.SessionId)
	assert.Equal(t, "Electronics", v.Title)
	assert.Len(t, v.Products, 4)
	assert.True(t, v.HasMore)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, 1, sessions.Len())

	res, data := do(t, http.MethodGet, srv.URL+"/api/sessions/"+v.SessionId, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, v.SessionId, decodeView(t, data).SessionId)
}

func TestCreateSessionRejectsBadRequest(t *testing.T) {
	srv, _, _ := newTestServer(t)
	res, _ := do(t, http.MethodPost, srv.URL+"/api/sessions", `{"page":"search"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res, _ = do(t, http.MethodPost, srv.URL+"/api/sessions", `{"page":`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestStagedEditsOverHTTP(t *testing.T) {
	srv, src, _ := newTestServer(t)
	v := createSession(t, srv.URL, `{"page":"category","category":"electronics"}`)
	base := srv.URL + "/api/sessions/" + v.SessionId

	res, data := do(t, http.MethodPost, base+"/brand/Sony", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, decodeView(t, data).HasChanges)

	res, data = do(t, http.MethodPost, base+"/price", `{"min":100,"max":2000}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	res, _ = do(t, http.MethodPost, base+"/rating/4", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, data = do(t, http.MethodPost, base+"/apply", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	v = decodeView(t, data)
	assert.False(t, v.HasChanges)
	assert.Equal(t, []string{"₹100-₹2,000", "Sony", "4+ Stars"}, v.ActiveFilters)
	assert.Equal(t, "Sony", src.last.Load().Brand)

	res, data = do(t, http.MethodDelete, base+"/chips/"+url.PathEscape("4+ Stars"), "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"₹100-₹2,000", "Sony"}, decodeView(t, data).ActiveFilters)

	res, data = do(t, http.MethodPost, base+"/clear", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, decodeView(t, data).ActiveFilters)
	assert.Equal(t, int32(4), src.calls.Load())
}

func TestInvalidInputs(t *testing.T) {
	srv, _, _ := newTestServer(t)
	v := createSession(t, srv.URL, `{"page":"grid"}`)
	base := srv.URL + "/api/sessions/" + v.SessionId

	cases := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/rating/many", ""},
		{http.MethodPost, "/rating/7", ""},
		{http.MethodPost, "/price", `{"min":-5,"max":10}`},
		{http.MethodPost, "/price", `{"min":500,"max":10}`},
		{http.MethodPut, "/filters", `{"minRating":9}`},
		{http.MethodPut, "/filters", `{"colour":"red"}`},
		{http.MethodPost, "/sort?key=cheapest", ""},
		{http.MethodPost, "/sort?key=trending", ""},
	}
	for _, c := range cases {
		res, data := do(t, c.method, base+c.path, c.body)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, "%s %s: %s", c.method, c.path, data)
	}
}

func TestSetFiltersReplacesApplied(t *testing.T) {
	srv, src, _ := newTestServer(t)
	v := createSession(t, srv.URL, `{"page":"search","query":"tv"}`)
	base := srv.URL + "/api/sessions/" + v.SessionId

	do(t, http.MethodPost, base+"/feature/Prime%20Eligible", "")
	res, data := do(t, http.MethodPut, base+"/filters", `{"priceRange":{"min":0,"max":50000},"brands":["Sony"],"minRating":3}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	v = decodeView(t, data)
	assert.False(t, v.HasChanges)
	assert.Equal(t, []string{"Sony"}, v.Applied.Brands)
	assert.Equal(t, 3, src.last.Load().MinRating)
}

func TestSortAndLoadMore(t *testing.T) {
	srv, src, _ := newTestServer(t)
	v := createSession(t, srv.URL, `{"page":"search","query":"tv"}`)
	base := srv.URL + "/api/sessions/" + v.SessionId

	res, data := do(t, http.MethodPost, base+"/sort?key=price-high", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	v = decodeView(t, data)
	assert.Equal(t, types.SortPriceHigh, v.SortKey)
	assert.Equal(t, "price-high", src.last.Load().SortBy)

	res, data = do(t, http.MethodPost, base+"/more", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	v = decodeView(t, data)
	assert.Equal(t, 8, v.Accumulated)
	assert.Equal(t, 2, v.PageNumber)
}

func TestUnknownAndDeletedSessions(t *testing.T) {
	srv, _, sessions := newTestServer(t)
	res, _ := do(t, http.MethodGet, srv.URL+"/api/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	v := createSession(t, srv.URL, `{}`)
	res, _ = do(t, http.MethodDelete, srv.URL+"/api/sessions/"+v.SessionId, "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, 0, sessions.Len())
	res, _ = do(t, http.MethodPost, srv.URL+"/api/sessions/"+v.SessionId+"/apply", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestFiltersAndHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	res, data := do(t, http.MethodGet, srv.URL+"/api/filters", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var vocab Vocabulary
	require.NoError(t, jsoncompat.Unmarshal(data, &vocab))
	assert.Equal(t, []int{4, 3, 2, 1}, vocab.Ratings)
	assert.Len(t, vocab.Pages, 6)

	res, data = do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", string(data))
}

func TestCurrentSessionFromCookie(t *testing.T) {
	srv, _, _ := newTestServer(t)

	res, data := do(t, http.MethodPost, srv.URL+"/api/sessions", `{"page":"grid"}`)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	created := decodeView(t, data)

	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == common.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, created.SessionId, cookie.Value)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/sessions/current", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	current, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer current.Body.Close()
	body, err := io.ReadAll(current.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, current.StatusCode, string(body))
	assert.Equal(t, created.SessionId, decodeView(t, body).SessionId)

	res, _ = do(t, http.MethodGet, srv.URL+"/api/sessions/current", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
