package catalog

import (
	"fmt"
	"math"

	"github.com/matst80/slask-storefront/pkg/types"
)

const (
	defaultTitle    = "Unknown Product"
	defaultCurrency = "INR"
	defaultFeature  = "Amazon Product"
	defaultImage    = "📦"
)

// Normalize fills in what the remote left out. idPrefix builds ids for
// products that have neither id nor asin, category overrides the product's
// own category when set.
func Normalize(raw []RemoteProduct, idPrefix, category, image string) []types.Product {
	if image == "" {
		image = defaultImage
	}
	items := make([]types.Product, 0, len(raw))
	for i, r := range raw {
		p := types.Product{
			Id:            r.Id,
			Asin:          r.Asin,
			Title:         r.Title,
			Price:         r.Price,
			OriginalPrice: r.OriginalPrice,
			Currency:      r.Currency,
			Rating:        clampRating(r.Rating),
			Reviews:       max(r.Reviews, 0),
			Image:         r.Image,
			IsNew:         r.IsNew,
			PriceChange:   parsePriceChange(r.PriceChange),
			Features:      r.Features,
			DetailPageURL: r.DetailPageURL,
			Category:      r.Category,
		}
		if p.Id == "" {
			p.Id = r.Asin
		}
		if p.Id == "" {
			p.Id = fmt.Sprintf("%s-%d", idPrefix, i)
		}
		if p.Title == "" {
			p.Title = defaultTitle
		}
		if p.Currency == "" {
			p.Currency = defaultCurrency
		}
		if p.Image == "" {
			p.Image = image
		}
		if len(p.Features) == 0 {
			p.Features = []string{defaultFeature}
		}
		if p.HasPriceChange() {
			p.PriceChangeAmount = r.PriceChangeAmount
		}
		if category != "" {
			p.Category = category
		}
		items = append(items, p)
	}
	return items
}

func parsePriceChange(v string) types.PriceChange {
	switch types.PriceChange(v) {
	case types.PriceChangeDown:
		return types.PriceChangeDown
	case types.PriceChangeUp:
		return types.PriceChangeUp
	}
	return types.PriceChangeNone
}

func clampRating(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, types.MaxRating)
}
