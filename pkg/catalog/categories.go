package catalog

type Category struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Keywords string `json:"keywords"`
	Emoji    string `json:"emoji,omitempty"`
}

var categories = []Category{
	{Slug: "electronics", Name: "Electronics", Keywords: "electronics", Emoji: "📱"},
	{Slug: "fashion", Name: "Fashion", Keywords: "fashion clothing", Emoji: "👕"},
	{Slug: "home-garden", Name: "Home & Garden", Keywords: "home kitchen garden", Emoji: "🏠"},
	{Slug: "sports", Name: "Sports", Keywords: "sports fitness", Emoji: "⚽"},
	{Slug: "books", Name: "Books", Keywords: "books", Emoji: "📚"},
	{Slug: "todays-deals", Name: "Today's Deals", Keywords: "deals", Emoji: "🔥"},
}

var categoriesBySlug = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.Slug] = c
	}
	return m
}()

func Categories() []Category {
	ret := make([]Category, len(categories))
	copy(ret, categories)
	return ret
}

// LookupCategory returns the known category for slug. Unknown slugs get a
// category using the slug as name and keywords.
func LookupCategory(slug string) (Category, bool) {
	if c, ok := categoriesBySlug[slug]; ok {
		return c, true
	}
	return Category{Slug: slug, Name: slug, Keywords: slug, Emoji: defaultImage}, false
}
