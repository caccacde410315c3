package filters

import "github.com/matst80/slask-storefront/pkg/types"

type Option struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

// Vocabulary is what the filter sidebar offers.
type Vocabulary struct {
	Categories []Option         `json:"categories"`
	Brands     []Option         `json:"brands"`
	Features   []string         `json:"features"`
	Ratings    []int            `json:"ratings"`
	PriceRange types.PriceRange `json:"priceRange"`
	SortKeys   []types.SortKey  `json:"sortKeys"`
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Categories: []Option{
			{Name: "Electronics", Count: 1247},
			{Name: "Fashion", Count: 892},
			{Name: "Home & Garden", Count: 645},
			{Name: "Sports", Count: 433},
			{Name: "Books", Count: 298},
		},
		Brands: []Option{
			{Name: "Apple", Count: 156},
			{Name: "Samsung", Count: 134},
			{Name: "Nike", Count: 98},
			{Name: "Adidas", Count: 87},
			{Name: "Sony", Count: 76},
		},
		Features: []string{
			FeatureFreeShipping,
			FeatureSameDayDelivery,
			FeaturePrimeEligible,
			FeatureOnSale,
			FeatureNewArrivals,
		},
		Ratings:    []int{4, 3, 2, 1},
		PriceRange: types.DefaultPriceRange(),
		SortKeys:   types.SortKeys(),
	}
}
