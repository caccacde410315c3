package catalog

import (
	"context"
)

type RouteKind string

const (
	RouteSample   RouteKind = "sample"
	RouteCategory RouteKind = "category"
	RouteSearch   RouteKind = "search"
)

// SearchParams is one request to the product search API. Route and
// Category select the path, the rest is sent as query parameters.
type SearchParams struct {
	Route       RouteKind `schema:"-"`
	Category    string    `schema:"-"`
	Keywords    string    `schema:"keywords,omitempty"`
	ItemCount   int       `schema:"itemCount,omitempty"`
	Page        int       `schema:"page,omitempty"`
	SortBy      string    `schema:"sortBy,omitempty"`
	MinPrice    *float64  `schema:"minPrice,omitempty"`
	MaxPrice    *float64  `schema:"maxPrice,omitempty"`
	Brand       string    `schema:"brand,omitempty"`
	MinRating   int       `schema:"minRating,omitempty"`
	SearchIndex string    `schema:"searchIndex,omitempty"`
}

type SearchResponse struct {
	Success        bool            `json:"success"`
	Products       []RemoteProduct `json:"products"`
	CurrentPage    int             `json:"currentPage,omitempty"`
	HasMoreResults bool            `json:"hasMoreResults"`
	TotalResults   int             `json:"totalResults,omitempty"`
	Message        string          `json:"message,omitempty"`
}

// RemoteProduct is a product as the search API returns it. Every field may
// be missing.
type RemoteProduct struct {
	Id                string   `json:"id,omitempty"`
	Asin              string   `json:"asin,omitempty"`
	Title             string   `json:"title,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	OriginalPrice     *float64 `json:"originalPrice,omitempty"`
	Currency          string   `json:"currency,omitempty"`
	Rating            float64  `json:"rating,omitempty"`
	Reviews           int      `json:"reviews,omitempty"`
	Image             string   `json:"image,omitempty"`
	IsNew             bool     `json:"isNew,omitempty"`
	PriceChange       string   `json:"priceChange,omitempty"`
	PriceChangeAmount *float64 `json:"priceChangeAmount,omitempty"`
	Features          []string `json:"features,omitempty"`
	DetailPageURL     string   `json:"detailPageURL,omitempty"`
	Category          string   `json:"category,omitempty"`
}

type Source interface {
	Search(ctx context.Context, params SearchParams) (*SearchResponse, error)
}
