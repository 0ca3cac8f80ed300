package service

import (
	"errors"
	"math"
	"testing"

	"github.com/sirpyerre/storefront/internal/core/domain"
)

func TestNewCatalog_SkipsDuplicatesAndInvalidRows(t *testing.T) {
	c, skipped := NewCatalog([]domain.Product{
		{ID: "P1", Name: "Laptop", Price: 999, Stock: 5},
		{ID: "P1", Name: "Laptop again", Price: 1, Stock: 1},
		{ID: "P2", Name: "Broken", Price: -1, Stock: 1},
		{ID: "P3", Name: "Cable", Price: 0, Stock: 0},
	})

	if c.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", c.Len())
	}
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped rows, got %+v", skipped)
	}
	if p, _ := c.Find("P1"); p.Name != "Laptop" {
		t.Fatalf("first row should win, got %+v", p)
	}
}

func TestCatalog_ReduceStock(t *testing.T) {
	c, _ := NewCatalog(domain.SampleProducts())

	if !c.ReduceStock("P1", 5) {
		t.Fatalf("reducing exactly the available stock should succeed")
	}
	if p, _ := c.Find("P1"); p.Stock != 0 {
		t.Fatalf("expected 0, got %d", p.Stock)
	}
	if c.ReduceStock("P1", 1) {
		t.Fatalf("reducing below zero must be refused")
	}
	if p, _ := c.Find("P1"); p.Stock != 0 {
		t.Fatalf("a refused reduction must not change stock, got %d", p.Stock)
	}
	if c.ReduceStock("NOPE", 1) {
		t.Fatalf("unknown product must report false")
	}
}

func TestCatalog_RemoveKeepsOrder(t *testing.T) {
	c, _ := NewCatalog([]domain.Product{
		{ID: "A", Name: "a", Price: 1, Stock: 1},
		{ID: "B", Name: "b", Price: 1, Stock: 1},
		{ID: "C", Name: "c", Price: 1, Stock: 1},
	})

	if !c.Remove("B") {
		t.Fatalf("remove B failed")
	}
	if c.Remove("B") {
		t.Fatalf("second remove should report false")
	}
	got := c.List()
	if len(got) != 2 || got[0].ID != "A" || got[1].ID != "C" {
		t.Fatalf("unexpected order after removal: %+v", got)
	}
}

func TestCatalog_SetPrice(t *testing.T) {
	c, _ := NewCatalog(domain.SampleProducts())

	if err := c.SetPrice("P2", 19.99); err != nil {
		t.Fatalf("set price: %v", err)
	}
	if p, _ := c.Find("P2"); p.Price != 19.99 {
		t.Fatalf("expected 19.99, got %v", p.Price)
	}
	if err := c.SetPrice("P2", -1); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if err := c.SetPrice("NOPE", 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCatalog_RowIsSharedWithCart(t *testing.T) {
	c, _ := NewCatalog(domain.SampleProducts())
	cart := domain.NewCart()

	if err := cart.AddItem(c.row("P2"), 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := c.SetPrice("P2", 30); err != nil {
		t.Fatalf("set price: %v", err)
	}
	if got := cart.Total(); got != 60 {
		t.Fatalf("cart should see the live price, got %v", got)
	}
}

func TestCatalog_RejectsNonFinitePrices(t *testing.T) {
	c, skipped := NewCatalog([]domain.Product{
		{ID: "P1", Name: "Laptop", Price: math.Inf(1), Stock: 1},
		{ID: "P2", Name: "Mouse", Price: math.NaN(), Stock: 1},
		{ID: "P3", Name: "Cable", Price: 2, Stock: 1},
	})
	if c.Len() != 1 || len(skipped) != 2 {
		t.Fatalf("expected only P3 to load, got len=%d skipped=%d", c.Len(), len(skipped))
	}

	for _, price := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if err := c.SetPrice("P3", price); !errors.Is(err, domain.ErrInvalidPrice) {
			t.Fatalf("SetPrice(%v): expected ErrInvalidPrice, got %v", price, err)
		}
	}
	if p, _ := c.Find("P3"); p.Price != 2 {
		t.Fatalf("price changed to %v", p.Price)
	}
}

func TestCatalog_AddStock(t *testing.T) {
	c, _ := NewCatalog(domain.SampleProducts())

	if err := c.AddStock("P1", 3); err != nil {
		t.Fatalf("add stock: %v", err)
	}
	if err := c.AddStock("NOPE", 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := c.AddStock("P1", 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for zero, got %v", err)
	}
	if err := c.AddStock("P1", math.MaxInt); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity on overflow, got %v", err)
	}
	if p, _ := c.Find("P1"); p.Stock != 8 {
		t.Fatalf("expected 8, got %d", p.Stock)
	}
}
