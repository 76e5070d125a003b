package product

import (
	"testing"

	"stockpilot/internal/core/types"
)

func TestThresholds(t *testing.T) {
	tests := []struct {
		name     string
		stock    int64
		minStock int64
		low      bool
		critical bool
	}{
		{"above threshold", 10, 5, false, false},
		{"at threshold", 5, 5, true, false},
		{"below threshold", 3, 5, true, false},
		{"out of stock", 0, 5, true, true},
		{"zero threshold in stock", 4, 0, false, false},
		{"zero threshold out of stock", 0, 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Stock: tt.stock, MinStock: tt.minStock}
			if got := p.IsLow(); got != tt.low {
				t.Errorf("IsLow() = %v, want %v", got, tt.low)
			}
			if got := p.IsCritical(); got != tt.critical {
				t.Errorf("IsCritical() = %v, want %v", got, tt.critical)
			}
		})
	}
}

func TestInventoryValue(t *testing.T) {
	p := Product{Stock: 7, Cost: types.MustMoney("2.25")}
	if !p.InventoryValue().Equal(types.MustMoney("15.75")) {
		t.Errorf("InventoryValue() = %s, want 15.75", p.InventoryValue())
	}
}
