// Package cart holds the per-session shopping cart. A cart is an
// ordered list of (item, quantity) lines that lives only in memory:
// it is created when a user first touches it and disappears when the
// process exits. Nothing here talks to the database; callers pass in
// the item's current stock so the cart can enforce its ceilings.
package cart

import (
	"errors"
)

var (
	// ErrOutOfStock is returned when adding an item whose stock is zero.
	ErrOutOfStock = errors.New("item is out of stock")
	// ErrLimitReached is returned when the cart quantity already equals
	// the available stock.
	ErrLimitReached = errors.New("cart quantity is at the stock limit")
)

// Line is one (item, quantity) pair in a cart.
type Line struct {
	ItemID   int64
	Quantity int
}

// Cart is the mutable cart for a single session. It keeps lines in
// insertion order. Cart is not safe for concurrent use; the Store
// serializes access per user.
type Cart struct {
	lines []Line
}

// Add puts one unit of an item into the cart. stock is the item's
// current stock count. Adding an item with zero stock fails with
// ErrOutOfStock. If the item is already in the cart its quantity is
// incremented, unless it already equals stock (ErrLimitReached).
func (c *Cart) Add(itemID int64, stock int) error {
	if stock == 0 {
		return ErrOutOfStock
	}
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			if c.lines[i].Quantity >= stock {
				return ErrLimitReached
			}
			c.lines[i].Quantity++
			return nil
		}
	}
	c.lines = append(c.lines, Line{ItemID: itemID, Quantity: 1})
	return nil
}

// ChangeQuantity adjusts the quantity of an item already in the cart.
// Increases clamp at the stock ceiling and fail with ErrLimitReached
// when the line is already at it. A result below 1 removes the line.
// Items not in the cart are ignored.
func (c *Cart) ChangeQuantity(itemID int64, delta int, stock int) error {
	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		next := c.lines[i].Quantity + delta
		if delta > 0 {
			if c.lines[i].Quantity >= stock {
				return ErrLimitReached
			}
			if next > stock {
				next = stock
			}
		}
		if next < 1 {
			c.removeAt(i)
			return nil
		}
		c.lines[i].Quantity = next
		return nil
	}
	return nil
}

// Remove drops an item from the cart regardless of quantity.
func (c *Cart) Remove(itemID int64) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.removeAt(i)
			return
		}
	}
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Quantity returns the cart quantity for an item, 0 if absent.
func (c *Cart) Quantity(itemID int64) int {
	for _, l := range c.lines {
		if l.ItemID == itemID {
			return l.Quantity
		}
	}
	return 0
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}
