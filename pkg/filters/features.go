package filters

import (
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
)

const (
	FeatureFreeShipping    = "Free Shipping"
	FeatureSameDayDelivery = "Same Day Delivery"
	FeaturePrimeEligible   = "Prime Eligible"
	FeatureOnSale          = "On Sale"
	FeatureNewArrivals     = "New Arrivals"
)

type FeatureMatcher func(item *types.Product) bool

func anyFeatureContains(needles ...string) FeatureMatcher {
	return func(item *types.Product) bool {
		for _, f := range item.Features {
			lower := strings.ToLower(f)
			for _, n := range needles {
				if strings.Contains(lower, n) {
					return true
				}
			}
		}
		return false
	}
}

var featureMatchers = map[string]FeatureMatcher{
	FeatureFreeShipping:    anyFeatureContains("free shipping", "free delivery"),
	FeatureSameDayDelivery: anyFeatureContains("same day", "fast delivery"),
	FeaturePrimeEligible:   anyFeatureContains("prime"),
	FeatureOnSale: func(item *types.Product) bool {
		return item.IsOnSale()
	},
	FeatureNewArrivals: func(item *types.Product) bool {
		return item.IsNew
	},
}

// MatchFeature reports whether item carries the feature tag. Known tags use
// their synonyms, anything else is a case-insensitive substring match against
// the item's feature strings.
func MatchFeature(item *types.Product, tag string) bool {
	if m, ok := featureMatchers[tag]; ok {
		return m(item)
	}
	return anyFeatureContains(strings.ToLower(tag))(item)
}
