package filters

import (
	"slices"

	"github.com/matst80/slask-storefront/pkg/types"
)

// Staged is the pending/applied pair behind the filter sidebar. Every
// transition returns a new value and leaves the receiver untouched.
type Staged struct {
	Pending types.FilterState `json:"pending"`
	Applied types.FilterState `json:"applied"`
}

func NewStaged(applied types.FilterState) Staged {
	return Staged{Pending: applied.Clone(), Applied: applied.Clone()}
}

func (s Staged) HasChanges() bool {
	return !s.Pending.Equal(s.Applied)
}

func (s Staged) SetPriceRange(r types.PriceRange) (Staged, error) {
	if err := r.Validate(); err != nil {
		return s, err
	}
	next := s.clone()
	next.Pending.PriceRange = r
	return next, nil
}

func (s Staged) ToggleCategory(category string) Staged {
	next := s.clone()
	next.Pending.Categories = toggle(next.Pending.Categories, category)
	return next
}

func (s Staged) ToggleBrand(brand string) Staged {
	next := s.clone()
	next.Pending.Brands = toggle(next.Pending.Brands, brand)
	return next
}

func (s Staged) ToggleFeature(feature string) Staged {
	next := s.clone()
	next.Pending.Features = toggle(next.Pending.Features, feature)
	return next
}

// SetMinRating selects a rating, selecting the current one again clears it.
func (s Staged) SetMinRating(rating int) (Staged, error) {
	if err := types.ValidateRating(rating); err != nil {
		return s, err
	}
	next := s.clone()
	if next.Pending.MinRating == rating {
		next.Pending.MinRating = 0
	} else {
		next.Pending.MinRating = rating
	}
	return next, nil
}

func (s Staged) Apply() Staged {
	return Staged{Pending: s.Pending.Clone(), Applied: s.Pending.Clone()}
}

// Reset discards pending edits.
func (s Staged) Reset() Staged {
	return Staged{Pending: s.Applied.Clone(), Applied: s.Applied.Clone()}
}

func (s Staged) Clear() Staged {
	return NewStaged(types.DefaultFilterState())
}

// RemoveChip drops the criterion rendered as label from pending and then
// applies pending, like Clear. The label is classified once against the
// applied state in the order price, rating, category, brand, feature, so a
// value shown by two chips loses only the first. False is returned when
// nothing renders as label.
func (s Staged) RemoveChip(label string) (Staged, bool) {
	next := s.clone()
	switch {
	case !s.Applied.PriceRange.IsDefault() && label == PriceLabel(s.Applied.PriceRange):
		next.Pending.PriceRange = types.DefaultPriceRange()
	case s.Applied.MinRating > 0 && label == RatingLabel(s.Applied.MinRating):
		next.Pending.MinRating = 0
	case slices.Contains(s.Applied.Categories, label):
		next.Pending.Categories = without(next.Pending.Categories, label)
	case slices.Contains(s.Applied.Brands, label):
		next.Pending.Brands = without(next.Pending.Brands, label)
	case slices.Contains(s.Applied.Features, label):
		next.Pending.Features = without(next.Pending.Features, label)
	default:
		return s, false
	}
	return next.Apply(), true
}

// Sync replaces both sides with an applied value owned elsewhere. Unapplied
// edits are lost.
func (s Staged) Sync(applied types.FilterState) Staged {
	return NewStaged(applied)
}

func (s Staged) clone() Staged {
	return Staged{Pending: s.Pending.Clone(), Applied: s.Applied.Clone()}
}

// toggle returns the symmetric difference of set and {v}.
func toggle(set []string, v string) []string {
	if slices.Contains(set, v) {
		return without(set, v)
	}
	return append(slices.Clone(set), v)
}

func without(set []string, v string) []string {
	return slices.DeleteFunc(slices.Clone(set), func(s string) bool {
		return s == v
	})
}
