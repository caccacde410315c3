package types

import (
	"errors"
	"net/url"
	"testing"
)

func TestFilterStateEqualIgnoresOrder(t *testing.T) {
	a := DefaultFilterState()
	a.Categories = []string{"Electronics", "Books"}
	b := DefaultFilterState()
	b.Categories = []string{"Books", "Electronics"}
	if !a.Equal(b) {
		t.Errorf("Expected %v to equal %v", a, b)
	}
	b.Brands = []string{"Apple"}
	if a.Equal(b) {
		t.Errorf("Expected %v to differ from %v", a, b)
	}
}

func TestFilterStateEqualDuplicates(t *testing.T) {
	a := DefaultFilterState()
	a.Brands = []string{"Apple", "Sony"}
	b := DefaultFilterState()
	b.Brands = []string{"Apple", "Apple"}
	if a.Equal(b) || b.Equal(a) {
		t.Errorf("Expected %v and %v to differ", a.Brands, b.Brands)
	}
}

func TestDefaultDetectedByValue(t *testing.T) {
	f := FilterState{PriceRange: PriceRange{Min: 0, Max: 50000}}
	if !f.IsDefault() {
		t.Errorf("Expected nil sets with default range to be the default state")
	}
	f.MinRating = 4
	if f.IsDefault() {
		t.Errorf("Expected rating filter to make state non default")
	}
}

func TestCloneDoesNotShare(t *testing.T) {
	a := DefaultFilterState()
	a.Features = append(a.Features, "On Sale")
	b := a.Clone()
	b.Features[0] = "Prime Eligible"
	if a.Features[0] != "On Sale" {
		t.Errorf("Expected clone to be independent, got %v", a.Features)
	}
}

func TestValidate(t *testing.T) {
	cases := []FilterState{
		{PriceRange: PriceRange{Min: -1, Max: 10}},
		{PriceRange: PriceRange{Min: 100, Max: 10}},
		{PriceRange: PriceRange{Min: 0, Max: 10}, MinRating: 6},
	}
	for _, c := range cases {
		err := c.Validate()
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected invalid argument for %v, got %v", c, err)
		}
	}
	if err := DefaultFilterState().Validate(); err != nil {
		t.Errorf("Expected default state to be valid, got %v", err)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	query := url.Values{
		"cat":     []string{"Electronics", "Books", "Electronics"},
		"brand":   []string{"Sony"},
		"feature": []string{"On Sale"},
		"max":     []string{"1000"},
		"rating":  []string{"4"},
	}
	f, err := FiltersFromQuery(query)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(f.Categories) != 2 {
		t.Errorf("Expected duplicate categories to collapse, got %v", f.Categories)
	}
	if f.PriceRange.Min != 0 || f.PriceRange.Max != 1000 {
		t.Errorf("Expected price range [0,1000], got %v", f.PriceRange)
	}
	if f.MinRating != 4 {
		t.Errorf("Expected rating 4, got %v", f.MinRating)
	}
}

func TestParseSortKey(t *testing.T) {
	if _, err := ParseSortKey("price-low"); err != nil {
		t.Errorf("Expected price-low to parse, got %v", err)
	}
	_, err := ParseSortKey("cheapest")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected invalid argument, got %v", err)
	}
	if CodeOf(err) != ErrCodeInvalidArgument {
		t.Errorf("Expected code %s, got %s", ErrCodeInvalidArgument, CodeOf(err))
	}
}

func TestNetworkFailureUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NetworkFailure("Failed to load products", cause)
	if !errors.Is(err, ErrNetworkFailure) {
		t.Errorf("Expected network failure code")
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected cause to be reachable")
	}
	if MessageOf(err) != "Failed to load products" {
		t.Errorf("Expected user message, got %q", MessageOf(err))
	}
}
