package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/matst80/slask-storefront/pkg/browse"
	"github.com/matst80/slask-storefront/pkg/catalog"
	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/filters"
	"github.com/matst80/slask-storefront/pkg/logging"
	"github.com/matst80/slask-storefront/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

// WebServer exposes browse sessions over HTTP.
type WebServer struct {
	Source       catalog.Source
	Sessions     *SessionStore
	Tracking     types.Tracking
	Logger       *zap.Logger
	CookieMaxAge int
}

func NewWebServer(source catalog.Source, sessions *SessionStore, tracking types.Tracking, logger *zap.Logger) *WebServer {
	return &WebServer{
		Source:       source,
		Sessions:     sessions,
		Tracking:     tracking,
		Logger:       logging.OrNop(logger),
		CookieMaxAge: 3600,
	}
}

type Vocabulary struct {
	filters.Vocabulary
	Pages []catalog.Category `json:"pages"`
}

func (ws *WebServer) CreateSession(w http.ResponseWriter, r *http.Request) (any, error) {
	req, err := types.GetBrowseRequest(r)
	if err != nil {
		return nil, err
	}
	id := common.NewSessionId()
	opts := []browse.Option{
		browse.WithLogger(ws.Logger.With(zap.String("session", id))),
		browse.WithSessionId(id),
	}
	if ws.Tracking != nil {
		opts = append(opts, browse.WithTracking(ws.Tracking))
		ws.Tracking.TrackSession(id, r)
	}
	page, err := browse.New(ws.Source, req, opts...)
	if err != nil {
		return nil, err
	}
	ws.Sessions.Add(id, page)
	common.SetSessionCookie(w, r, id, ws.CookieMaxAge)
	operationsTotal.WithLabelValues("create").Inc()
	return page.Load(r.Context())
}

func (ws *WebServer) GetSession(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	return page.State(), nil
}

// CurrentSession resolves the session from the cookie set when it was created.
func (ws *WebServer) CurrentSession(w http.ResponseWriter, r *http.Request) (any, error) {
	id, ok := common.SessionIdFromCookie(r)
	if !ok {
		return nil, common.ErrNotFound
	}
	page, err := ws.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return page.State(), nil
}

func (ws *WebServer) DeleteSession(w http.ResponseWriter, r *http.Request) (any, error) {
	id := r.PathValue("id")
	if !ws.Sessions.Remove(id) {
		return nil, common.ErrNotFound
	}
	operationsTotal.WithLabelValues("delete").Inc()
	return nil, nil
}

func (ws *WebServer) SetPriceRange(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	var pr types.PriceRange
	if err := readValidated(r, priceRangeValidator, &pr); err != nil {
		return nil, err
	}
	if err := page.SetPriceRange(pr); err != nil {
		return nil, err
	}
	return page.State(), nil
}

func (ws *WebServer) ToggleCategory(w http.ResponseWriter, r *http.Request) (any, error) {
	return ws.toggle(r, (*browse.Page).ToggleCategory)
}

func (ws *WebServer) ToggleBrand(w http.ResponseWriter, r *http.Request) (any, error) {
	return ws.toggle(r, (*browse.Page).ToggleBrand)
}

func (ws *WebServer) ToggleFeature(w http.ResponseWriter, r *http.Request) (any, error) {
	return ws.toggle(r, (*browse.Page).ToggleFeature)
}

func (ws *WebServer) SetMinRating(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	rating, err := strconv.Atoi(r.PathValue("value"))
	if err != nil {
		return nil, types.InvalidArgument("rating must be a whole number, got %q", r.PathValue("value"))
	}
	if err := page.SetMinRating(rating); err != nil {
		return nil, err
	}
	return page.State(), nil
}

func (ws *WebServer) Apply(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	operationsTotal.WithLabelValues("apply").Inc()
	return page.Apply(r.Context())
}

func (ws *WebServer) ResetPending(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	return page.ResetPending(), nil
}

func (ws *WebServer) ClearAll(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	operationsTotal.WithLabelValues("clear").Inc()
	return page.ClearAll(r.Context())
}

func (ws *WebServer) RemoveChip(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	operationsTotal.WithLabelValues("remove_chip").Inc()
	return page.RemoveChip(r.Context(), r.PathValue("label"))
}

func (ws *WebServer) SetFilters(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	applied := types.DefaultFilterState()
	if err := readValidated(r, filterStateValidator, &applied); err != nil {
		return nil, err
	}
	operationsTotal.WithLabelValues("set_filters").Inc()
	return page.SetApplied(r.Context(), applied)
}

func (ws *WebServer) ChangeSort(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	operationsTotal.WithLabelValues("sort").Inc()
	return page.ChangeSort(r.Context(), r.URL.Query().Get("key"))
}

func (ws *WebServer) LoadMore(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	operationsTotal.WithLabelValues("load_more").Inc()
	return page.LoadMore(r.Context())
}

func (ws *WebServer) Reload(w http.ResponseWriter, r *http.Request) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	operationsTotal.WithLabelValues("reload").Inc()
	return page.Reload(r.Context())
}

func (ws *WebServer) Filters(w http.ResponseWriter, r *http.Request) (any, error) {
	return Vocabulary{
		Vocabulary: filters.DefaultVocabulary(),
		Pages:      catalog.Categories(),
	}, nil
}

func (ws *WebServer) page(r *http.Request) (*browse.Page, error) {
	return ws.Sessions.Get(r.PathValue("id"))
}

func (ws *WebServer) toggle(r *http.Request, fn func(*browse.Page, string)) (any, error) {
	page, err := ws.page(r)
	if err != nil {
		return nil, err
	}
	name := r.PathValue("name")
	if name == "" {
		return nil, types.InvalidArgument("missing filter value")
	}
	fn(page, name)
	return page.State(), nil
}

// readValidated checks the body against schema before decoding it into v.
func readValidated(r *http.Request, schema *gojsonschema.Schema, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return types.InvalidArgument("reading body: %v", err)
	}
	if err := validateBody(schema, body); err != nil {
		return types.InvalidArgument("invalid body: %v", err)
	}
	if err := jsoncompat.Unmarshal(body, v); err != nil {
		return types.InvalidArgument("malformed body: %v", err)
	}
	return nil
}

func (ws *WebServer) Handler(allowedOrigins []string) http.Handler {
	srv := http.NewServeMux()
	h := func(fn common.HandlerFunc) http.HandlerFunc {
		return common.JsonHandler(ws.Logger, fn)
	}

	srv.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.Handle("GET /metrics", promhttp.Handler())
	srv.HandleFunc("GET /api/filters", h(ws.Filters))

	srv.HandleFunc("POST /api/sessions", h(ws.CreateSession))
	srv.HandleFunc("GET /api/sessions/current", h(ws.CurrentSession))
	srv.HandleFunc("GET /api/sessions/{id}", h(ws.GetSession))
	srv.HandleFunc("DELETE /api/sessions/{id}", h(ws.DeleteSession))
	srv.HandleFunc("POST /api/sessions/{id}/price", h(ws.SetPriceRange))
	srv.HandleFunc("POST /api/sessions/{id}/category/{name}", h(ws.ToggleCategory))
	srv.HandleFunc("POST /api/sessions/{id}/brand/{name}", h(ws.ToggleBrand))
	srv.HandleFunc("POST /api/sessions/{id}/feature/{name}", h(ws.ToggleFeature))
	srv.HandleFunc("POST /api/sessions/{id}/rating/{value}", h(ws.SetMinRating))
	srv.HandleFunc("POST /api/sessions/{id}/apply", h(ws.Apply))
	srv.HandleFunc("POST /api/sessions/{id}/reset", h(ws.ResetPending))
	srv.HandleFunc("POST /api/sessions/{id}/clear", h(ws.ClearAll))
	srv.HandleFunc("DELETE /api/sessions/{id}/chips/{label}", h(ws.RemoveChip))
	srv.HandleFunc("PUT /api/sessions/{id}/filters", h(ws.SetFilters))
	srv.HandleFunc("POST /api/sessions/{id}/sort", h(ws.ChangeSort))
	srv.HandleFunc("POST /api/sessions/{id}/more", h(ws.LoadMore))
	srv.HandleFunc("POST /api/sessions/{id}/reload", h(ws.Reload))

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: true,
	})
	return c.Handler(srv)
}
