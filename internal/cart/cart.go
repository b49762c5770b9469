// Package cart owns the in-memory shopping cart: the line items, the
// running total, and the visibility of the cart panel.
//
// The cart holds at most one line item per product ID, in insertion order.
// The total is recomputed from scratch after every mutation rather than
// patched incrementally, so it can never drift from the items. All
// operations are synchronous and infallible; the mutex extends over the
// mutation and the recompute, so a concurrent reader never sees one without
// the other.
package cart

import (
	"sync"

	"go.uber.org/zap"

	"shopfront/internal/catalog"
)

// Item is one cart line: a product and a positive quantity.
type Item struct {
	Product  catalog.Product
	Quantity int
}

// Subtotal is the line total, price times quantity.
func (i Item) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Cart is the cart aggregate. Construct one per application via New; state
// lives for the session only and vanishes on exit.
type Cart struct {
	logger *zap.Logger

	mu    sync.RWMutex
	items []Item
	total float64
	open  bool
}

// New creates an empty, closed cart. A nil logger is replaced with a no-op
// logger.
func New(logger *zap.Logger) *Cart {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cart{logger: logger}
}

// Add puts one unit of p in the cart: an existing line item for p's ID has
// its quantity incremented, otherwise a new line item with quantity 1 is
// appended. Safe to call repeatedly.
func (c *Cart) Add(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity++
			c.recompute()
			return
		}
	}
	c.items = append(c.items, Item{Product: p, Quantity: 1})
	c.recompute()
	c.logger.Debug("item added", zap.Int("product_id", p.ID))
}

// Remove deletes the line item for the given product ID. Removing an absent
// ID is a no-op, not an error.
func (c *Cart) Remove(productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

// SetQuantity sets the quantity of the line item for productID to exactly
// quantity (not a delta). Absent IDs are a no-op. A quantity of zero or
// less is treated as an implicit Remove: the cart never stores a
// non-positive quantity, which keeps the total non-negative by
// construction.
func (c *Cart) SetQuantity(productID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if quantity <= 0 {
		c.removeLocked(productID)
		return
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			c.recompute()
			return
		}
	}
}

// Clear empties the cart. The panel visibility is untouched.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.recompute()
}

// ToggleOpen flips the cart panel visibility and returns the new value.
func (c *Cart) ToggleOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
	return c.open
}

// IsOpen reports whether the cart panel is visible.
func (c *Cart) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Total returns the current cart total.
func (c *Cart) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Count returns the total number of units across all line items; the header
// badge shows this rather than Len.
func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) removeLocked(productID int) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.recompute()
			return
		}
	}
}

// recompute rebuilds the total from the items. Callers hold the write lock.
func (c *Cart) recompute() {
	total := 0.0
	for _, it := range c.items {
		total += it.Subtotal()
	}
	c.total = total
}
