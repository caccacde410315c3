package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/logging"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 8 << 20

var encoder = schema.NewEncoder()

func init() {
	encoder.RegisterEncoder(float64(0), func(v reflect.Value) string {
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	})
}

// StatusError is returned for non 2xx answers from the search API.
type StatusError struct {
	StatusCode int
	Route      RouteKind
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s: unexpected status %d", e.Route, e.StatusCode)
}

type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the product search API over HTTP. Requests are paced by a
// shared rate limiter.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("catalog base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("catalog base url %q must be absolute", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, max(cfg.Burst, 1)),
		logger:  logging.OrNop(logger),
	}, nil
}

// URL builds the request url for params.
func (c *Client) URL(params SearchParams) (string, error) {
	values := url.Values{}
	if err := encoder.Encode(params, values); err != nil {
		return "", err
	}
	u := c.baseURL.JoinPath(routePath(params)...)
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// routePath returns escaped path segments for the route.
func routePath(params SearchParams) []string {
	switch params.Route {
	case RouteSample:
		return []string{"api", "products", "sample"}
	case RouteCategory:
		return []string{"api", "search", "category", url.PathEscape(params.Category)}
	default:
		return []string{"api", "search"}
	}
}

func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog %s: waiting for rate limiter: %w", params.Route, err)
	}
	target, err := c.URL(params)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: encode params: %w", params.Route, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	requestDuration.WithLabelValues(string(params.Route)).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(string(params.Route), "error").Inc()
		return nil, fmt.Errorf("catalog %s: %w", params.Route, err)
	}
	defer resp.Body.Close()
	requestsTotal.WithLabelValues(string(params.Route), strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, Route: params.Route}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("catalog %s: read body: %w", params.Route, err)
	}
	var out SearchResponse
	if err := jsoncompat.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("catalog %s: decode body: %w", params.Route, err)
	}
	c.logger.Debug("catalog search",
		zap.String("url", target),
		zap.Bool("success", out.Success),
		zap.Int("products", len(out.Products)),
		zap.Duration("took", time.Since(start)))
	return &out, nil
}
