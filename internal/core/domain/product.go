package domain

import "math"

// Product is a catalog row. Price and Stock are never negative.
type Product struct {
	ID    string
	Name  string
	Price float64
	Stock int
}

// ReduceStock deducts qty from the stock. It is a no-op, reporting false,
// when qty is negative or exceeds the available stock.
func (p *Product) ReduceStock(qty int) bool {
	if qty < 0 || qty > p.Stock {
		return false
	}
	p.Stock -= qty
	return true
}

// AddStock returns qty units to the stock. It is a no-op, reporting false,
// when qty is not positive or the new stock would not fit in an int.
func (p *Product) AddStock(qty int) bool {
	if qty <= 0 || qty > math.MaxInt-p.Stock {
		return false
	}
	p.Stock += qty
	return true
}

// ValidPrice reports whether price is a finite, non-negative amount.
func ValidPrice(price float64) bool {
	return price >= 0 && !math.IsInf(price, 1)
}

// SampleProducts is the catalog seeded when no products could be loaded.
func SampleProducts() []Product {
	return []Product{
		{ID: "P1", Name: "Laptop", Price: 999, Stock: 5},
		{ID: "P2", Name: "Mouse", Price: 25, Stock: 10},
	}
}
