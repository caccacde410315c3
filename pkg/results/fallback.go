package results

import "github.com/matst80/slask-storefront/pkg/types"

// FallbackProducts is the offline list shown when a reset fails.
func FallbackProducts() []types.Product {
	return []types.Product{
		{
			Id: "1", Title: "Premium Wireless Headphones", Currency: "INR",
			Price: types.Float(199), OriginalPrice: types.Float(249),
			Rating: 4.8, Reviews: 1247, Image: "🎧", IsNew: true,
			PriceChange: types.PriceChangeDown, PriceChangeAmount: types.Float(20),
			Features: []string{"Free Shipping", "Prime"},
		},
		{
			Id: "2", Title: "Smart Fitness Watch", Currency: "INR",
			Price:  types.Float(299),
			Rating: 4.6, Reviews: 893, Image: "⌚",
			PriceChange: types.PriceChangeUp, PriceChangeAmount: types.Float(15),
			Features: []string{"Same Day Delivery"},
		},
		{
			Id: "3", Title: "Laptop Stand Adjustable", Currency: "INR",
			Price: types.Float(45), OriginalPrice: types.Float(69),
			Rating: 4.9, Reviews: 567, Image: "💻",
			PriceChange: types.PriceChangeDown, PriceChangeAmount: types.Float(5),
			Features: []string{"Free Shipping"},
		},
		{
			Id: "4", Title: "Wireless Gaming Mouse", Currency: "INR",
			Price:  types.Float(79),
			Rating: 4.7, Reviews: 423, Image: "🖱️", IsNew: true,
			Features: []string{"Prime", "New Arrival"},
		},
		{
			Id: "5", Title: "USB-C Hub 7-in-1", Currency: "INR",
			Price: types.Float(39), OriginalPrice: types.Float(59),
			Rating: 4.5, Reviews: 234, Image: "🔌",
			PriceChange: types.PriceChangeDown, PriceChangeAmount: types.Float(8),
			Features: []string{"Free Shipping"},
		},
		{
			Id: "6", Title: "Bluetooth Speaker Portable", Currency: "INR",
			Price:  types.Float(89),
			Rating: 4.4, Reviews: 356, Image: "🔊",
			PriceChange: types.PriceChangeUp, PriceChangeAmount: types.Float(10),
			Features: []string{"Same Day Delivery", "Prime"},
		},
	}
}
