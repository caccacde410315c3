package filters

import (
	"fmt"
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	rupee             = "₹"
	priceNotAvailable = "Price not available"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

var currencySymbols = map[string]string{
	"INR": rupee,
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatAmount groups digits the en-IN way, for example 1,50,000.
func FormatAmount(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatPrice renders a product price with its currency symbol. Unknown
// currencies fall back to the rupee sign.
func FormatPrice(price *float64, currency string) string {
	if price == nil || *price == 0 {
		return priceNotAvailable
	}
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = rupee
	}
	return symbol + FormatAmount(*price)
}

func PriceLabel(r types.PriceRange) string {
	return rupee + FormatAmount(r.Min) + "-" + rupee + FormatAmount(r.Max)
}

func RatingLabel(rating int) string {
	return fmt.Sprintf("%d+ Stars", rating)
}

// ActiveFilters lists one label per active criterion of applied, in the
// order price, categories, brands, rating, features.
func ActiveFilters(applied types.FilterState) []string {
	active := make([]string, 0, 2+len(applied.Categories)+len(applied.Brands)+len(applied.Features))
	if !applied.PriceRange.IsDefault() {
		active = append(active, PriceLabel(applied.PriceRange))
	}
	active = append(active, applied.Categories...)
	active = append(active, applied.Brands...)
	if applied.MinRating > 0 {
		active = append(active, RatingLabel(applied.MinRating))
	}
	active = append(active, applied.Features...)
	return active
}
