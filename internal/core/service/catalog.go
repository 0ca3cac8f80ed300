package service

import (
	"fmt"

	"github.com/sirpyerre/storefront/internal/core/domain"
)

// Catalog owns the product rows. Rows are held by pointer so cart lines can
// share them; everything handed out to callers is a copy.
type Catalog struct {
	products []*domain.Product
}

// NewCatalog builds a catalog from loaded rows. Rows whose id is already
// present are skipped and returned so the caller can report them.
func NewCatalog(products []domain.Product) (*Catalog, []domain.Product) {
	c := &Catalog{}
	var skipped []domain.Product
	for _, p := range products {
		if err := c.Add(p); err != nil {
			skipped = append(skipped, p)
		}
	}
	return c, skipped
}

// Find looks a product up by id. Absence is not an error.
func (c *Catalog) Find(id string) (domain.Product, bool) {
	if p := c.row(id); p != nil {
		return *p, true
	}
	return domain.Product{}, false
}

// Add inserts p unless its id is taken.
func (c *Catalog) Add(p domain.Product) error {
	if !domain.ValidPrice(p.Price) {
		return domain.ErrInvalidPrice
	}
	if p.Stock < 0 {
		return domain.ErrInvalidStock
	}
	if c.row(p.ID) != nil {
		return fmt.Errorf("add %s: %w", p.ID, domain.ErrDuplicateProduct)
	}
	row := p
	c.products = append(c.products, &row)
	return nil
}

// Remove deletes the first row with the given id. Carts still referencing
// the row keep their pointer.
func (c *Catalog) Remove(id string) bool {
	for i, p := range c.products {
		if p.ID == id {
			c.products = append(c.products[:i], c.products[i+1:]...)
			return true
		}
	}
	return false
}

// ReduceStock is a no-op when qty exceeds the current stock.
func (c *Catalog) ReduceStock(id string, qty int) bool {
	p := c.row(id)
	if p == nil {
		return false
	}
	return p.ReduceStock(qty)
}

// AddStock refuses quantities that are not positive or would overflow the
// stock counter.
func (c *Catalog) AddStock(id string, qty int) error {
	p := c.row(id)
	if p == nil {
		return fmt.Errorf("restock %s: %w", id, domain.ErrProductNotFound)
	}
	if !p.AddStock(qty) {
		return fmt.Errorf("restock %s by %d: %w", id, qty, domain.ErrInvalidQuantity)
	}
	return nil
}

func (c *Catalog) SetPrice(id string, price float64) error {
	if !domain.ValidPrice(price) {
		return domain.ErrInvalidPrice
	}
	p := c.row(id)
	if p == nil {
		return fmt.Errorf("set price %s: %w", id, domain.ErrProductNotFound)
	}
	p.Price = price
	return nil
}

// List returns a snapshot in insertion order.
func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, *p)
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) row(id string) *domain.Product {
	for _, p := range c.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}
