package types

type PriceChange string

const (
	PriceChangeNone PriceChange = ""
	PriceChangeDown PriceChange = "down"
	PriceChangeUp   PriceChange = "up"
)

type Product struct {
	Id                string      `json:"id"`
	Asin              string      `json:"asin,omitempty"`
	Title             string      `json:"title"`
	Price             *float64    `json:"price,omitempty"`
	OriginalPrice     *float64    `json:"originalPrice,omitempty"`
	Currency          string      `json:"currency,omitempty"`
	Rating            float64     `json:"rating"`
	Reviews           int         `json:"reviews"`
	Image             string      `json:"image,omitempty"`
	IsNew             bool        `json:"isNew"`
	PriceChange       PriceChange `json:"priceChange,omitempty"`
	PriceChangeAmount *float64    `json:"priceChangeAmount,omitempty"`
	Features          []string    `json:"features"`
	DetailPageURL     string      `json:"detailPageURL,omitempty"`
	Category          string      `json:"category,omitempty"`
}

// PriceOrZero treats a missing price as 0 for ordering and range checks.
func (p *Product) PriceOrZero() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

func (p *Product) HasPriceChange() bool {
	return p.PriceChange != PriceChangeNone
}

func (p *Product) IsOnSale() bool {
	return p.Price != nil && p.OriginalPrice != nil && *p.OriginalPrice > *p.Price
}

func Float(v float64) *float64 {
	return &v
}
