package filters

import (
	"sync"

	"github.com/matst80/slask-storefront/pkg/logging"
	"github.com/matst80/slask-storefront/pkg/types"
	"go.uber.org/zap"
)

// ApplyFunc receives every new applied state. It is called without the
// controller lock held.
type ApplyFunc func(applied types.FilterState)

// Controller owns the staged pair of one filter sidebar. The applied value
// itself belongs to the caller, which is told about changes through onApply
// and pushes outside changes back with Sync.
type Controller struct {
	mu       sync.Mutex
	staged   Staged
	external types.FilterState
	onApply  ApplyFunc
	logger   *zap.Logger
}

func NewController(applied types.FilterState, onApply ApplyFunc, logger *zap.Logger) *Controller {
	if onApply == nil {
		onApply = func(types.FilterState) {}
	}
	return &Controller{
		staged:   NewStaged(applied),
		external: applied.Clone(),
		onApply:  onApply,
		logger:   logging.OrNop(logger),
	}
}

func (c *Controller) State() Staged {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staged.clone()
}

func (c *Controller) Pending() types.FilterState {
	return c.State().Pending
}

func (c *Controller) Applied() types.FilterState {
	return c.State().Applied
}

func (c *Controller) HasChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staged.HasChanges()
}

func (c *Controller) ActiveFilters() []string {
	return ActiveFilters(c.Applied())
}

func (c *Controller) SetPriceRange(r types.PriceRange) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.staged.SetPriceRange(r)
	if err != nil {
		return err
	}
	c.staged = next
	return nil
}

func (c *Controller) ToggleCategory(category string) {
	c.update(func(s Staged) Staged { return s.ToggleCategory(category) })
}

func (c *Controller) ToggleBrand(brand string) {
	c.update(func(s Staged) Staged { return s.ToggleBrand(brand) })
}

func (c *Controller) ToggleFeature(feature string) {
	c.update(func(s Staged) Staged { return s.ToggleFeature(feature) })
}

func (c *Controller) SetMinRating(rating int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := c.staged.SetMinRating(rating)
	if err != nil {
		return err
	}
	c.staged = next
	return nil
}

// Apply publishes the pending state. It returns false and does nothing when
// there are no pending changes.
func (c *Controller) Apply() bool {
	c.mu.Lock()
	if !c.staged.HasChanges() {
		c.mu.Unlock()
		return false
	}
	c.staged = c.staged.Apply()
	applied := c.commit()
	c.mu.Unlock()

	c.onApply(applied)
	return true
}

// Reset discards pending edits without notifying anyone.
func (c *Controller) Reset() {
	c.update(Staged.Reset)
}

// ClearAll resets both sides to the default state and publishes it.
func (c *Controller) ClearAll() {
	c.mu.Lock()
	c.staged = c.staged.Clear()
	applied := c.commit()
	c.mu.Unlock()

	c.onApply(applied)
}

// RemoveActiveFilterChip removes the criterion shown as label and publishes
// the result. Unknown labels are ignored.
func (c *Controller) RemoveActiveFilterChip(label string) bool {
	c.mu.Lock()
	next, ok := c.staged.RemoveChip(label)
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("no active filter for chip", zap.String("label", label))
		return false
	}
	c.staged = next
	applied := c.commit()
	c.mu.Unlock()

	c.onApply(applied)
	return true
}

// Sync adopts an applied value changed by the owner. When it differs from
// the last one seen, pending is overwritten even if it holds unapplied
// edits.
func (c *Controller) Sync(applied types.FilterState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if applied.Equal(c.external) {
		return false
	}
	if c.staged.HasChanges() {
		c.logger.Warn("applied filters changed elsewhere, dropping pending edits",
			zap.Strings("pending", ActiveFilters(c.staged.Pending)),
			zap.Strings("applied", ActiveFilters(applied)))
	}
	c.staged = c.staged.Sync(applied)
	c.external = applied.Clone()
	return true
}

func (c *Controller) update(fn func(Staged) Staged) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staged = fn(c.staged)
}

// commit records the applied side as the last value seen. Callers hold mu.
func (c *Controller) commit() types.FilterState {
	c.external = c.staged.Applied.Clone()
	return c.staged.Applied.Clone()
}
