package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartItem is a read-only view of one cart line. Product is a copy of the
// catalog row as it was when the view was taken.
type CartItem struct {
	Product  Product
	Quantity int
}

// Subtotal is price times quantity.
func (i CartItem) Subtotal() float64 {
	return lineTotal(i.Product.Price, i.Quantity).InexactFloat64()
}

type cartLine struct {
	product  *Product
	quantity int
}

// Cart holds at most one line per product id. Lines keep a reference to the
// catalog row, so Total reflects price edits made after the item was added.
type Cart struct {
	lines []cartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem appends a line for p. Quantities are never merged: a second add
// for the same product is rejected whatever its quantity.
func (c *Cart) AddItem(p *Product, qty int) error {
	if p == nil {
		return ErrProductNotFound
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > p.Stock {
		return fmt.Errorf("add %s x%d: %w (available %d)", p.ID, qty, ErrInsufficientStock, p.Stock)
	}
	if c.indexOf(p.ID) >= 0 {
		return fmt.Errorf("add %s: %w", p.ID, ErrAlreadyInCart)
	}
	c.lines = append(c.lines, cartLine{product: p, quantity: qty})
	return nil
}

// RemoveItem drops every line for productID and reports whether any existed.
func (c *Cart) RemoveItem(productID string) bool {
	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.product.ID != productID {
			kept = append(kept, l)
		}
	}
	removed := len(kept) != len(c.lines)
	clear(c.lines[len(kept):])
	c.lines = kept
	return removed
}

// Rebind points each line at the row lookup returns for its product id.
// Lines whose id lookup does not know keep their current row.
func (c *Cart) Rebind(lookup func(id string) *Product) {
	for i, l := range c.lines {
		if p := lookup(l.product.ID); p != nil {
			c.lines[i].product = p
		}
	}
}

// Total sums price*quantity over all lines using decimal arithmetic.
func (c *Cart) Total() float64 {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(lineTotal(l.product.Price, l.quantity))
	}
	return sum.InexactFloat64()
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Items returns a snapshot of the cart.
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, CartItem{Product: *l.product, Quantity: l.quantity})
	}
	return items
}

func (c *Cart) indexOf(productID string) int {
	for i, l := range c.lines {
		if l.product.ID == productID {
			return i
		}
	}
	return -1
}

func lineTotal(price float64, qty int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
}
