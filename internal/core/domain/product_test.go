package domain

import (
	"math"
	"testing"
)

func TestProduct_AddStock(t *testing.T) {
	cases := []struct {
		name  string
		stock int
		qty   int
		ok    bool
		want  int
	}{
		{"positive", 5, 3, true, 8},
		{"zero", 5, 0, false, 5},
		{"negative", 5, -2, false, 5},
		{"up to the limit", 5, math.MaxInt - 5, true, math.MaxInt},
		{"overflow", 5, math.MaxInt, false, 5},
		{"overflow by one", math.MaxInt, 1, false, math.MaxInt},
	}
	for _, tc := range cases {
		p := Product{ID: "P1", Stock: tc.stock}
		if got := p.AddStock(tc.qty); got != tc.ok {
			t.Fatalf("%s: AddStock(%d) = %v, want %v", tc.name, tc.qty, got, tc.ok)
		}
		if p.Stock != tc.want || p.Stock < 0 {
			t.Fatalf("%s: stock = %d, want %d", tc.name, p.Stock, tc.want)
		}
	}
}

func TestProduct_ReduceStock(t *testing.T) {
	p := Product{ID: "P1", Stock: 5}
	if p.ReduceStock(6) || p.ReduceStock(-1) || p.Stock != 5 {
		t.Fatalf("invalid reductions must be no-ops, stock=%d", p.Stock)
	}
	if !p.ReduceStock(5) || p.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", p.Stock)
	}
}

func TestValidPrice(t *testing.T) {
	cases := map[float64]bool{
		0:               true,
		999.5:           true,
		-0.01:           false,
		math.Inf(1):     false,
		math.Inf(-1):    false,
		math.MaxFloat64: true,
	}
	for price, want := range cases {
		if got := ValidPrice(price); got != want {
			t.Fatalf("ValidPrice(%v) = %v, want %v", price, got, want)
		}
	}
	if ValidPrice(math.NaN()) {
		t.Fatalf("NaN must not be a valid price")
	}
}
