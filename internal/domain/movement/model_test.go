package movement

import (
	"testing"

	"github.com/shopspring/decimal"

	"almox/internal/core/id"
)

func TestTotals(t *testing.T) {
	m := entryMovement(
		LineItem{ProductID: id.New(), Quantity: 3, UnitCost: dec("2.50")},
		LineItem{ProductID: id.New(), Quantity: 2, UnitCost: dec("10.00")},
	)

	if got := m.TotalQuantity(); got != 5 {
		t.Errorf("TotalQuantity() = %d, want 5", got)
	}
	if want := decimal.RequireFromString("27.50"); !m.TotalCost().Equal(want) {
		t.Errorf("TotalCost() = %s, want %s", m.TotalCost(), want)
	}
}

func TestTotalPriceIgnoresCostOnlyLines(t *testing.T) {
	m := exitMovement(
		LineItem{ProductID: id.New(), Quantity: 4, UnitPrice: dec("5.00")},
	)
	m.LineItems = append(m.LineItems, LineItem{ProductID: id.New(), Quantity: 1, UnitCost: dec("9.99")})

	if want := decimal.RequireFromString("20.00"); !m.TotalPrice().Equal(want) {
		t.Errorf("TotalPrice() = %s, want %s", m.TotalPrice(), want)
	}
}

func TestTypeValid(t *testing.T) {
	tests := []struct {
		t    Type
		want bool
	}{
		{TypeEntry, true},
		{TypeExit, true},
		{"transfer", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.t.Valid(); got != tt.want {
			t.Errorf("Type(%q).Valid() = %v, want %v", tt.t, got, tt.want)
		}
	}
}
