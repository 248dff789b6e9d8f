package model_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rr-restro/pos/internal/model"
	"github.com/shopspring/decimal"
)

func TestTimestampDecodeFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"millis", `1760000000123`, 1760000000123},
		{"float millis", `1760000000123.0`, 1760000000123},
		{"quoted millis", `"1760000000123"`, 1760000000123},
		{"rfc3339", `"2025-10-09T08:53:20.123Z"`, 1760000000123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts model.Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := ts.UnixMilli(); got != tt.want {
				t.Errorf("millis: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTimestampEncodesMillis(t *testing.T) {
	ts := model.At(time.UnixMilli(1760000000123))
	b, err := json.Marshal(struct {
		At model.Timestamp `json:"at"`
	}{ts})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"at":1760000000123}` {
		t.Errorf("json: got %s", b)
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts model.Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatal("expected error for unparseable timestamp")
	}
}

func TestPointsFloorFractions(t *testing.T) {
	var p model.Points
	if err := json.Unmarshal([]byte(`12.7`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p != 12 {
		t.Errorf("points: got %d, want 12", p)
	}
	if err := json.Unmarshal([]byte(`null`), &p); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if p != 0 {
		t.Errorf("points after null: got %d, want 0", p)
	}
}

func TestMoneyEncodesAsNumber(t *testing.T) {
	b, err := json.Marshal(model.Variant{ID: "v", Name: "x", Price: decimal.RequireFromString("150.5")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"price":150.5`) {
		t.Errorf("json: got %s", b)
	}
}

func TestShortRef(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ORD-1700000000000", "1700000000000"},
		{"ORD-3f2a9c1e-1111-2222-3333-444455556666", "3f2a9c1e"},
		{"legacy", "legacy"},
	}
	for _, tt := range tests {
		if got := model.ShortRef(tt.in); got != tt.want {
			t.Errorf("ShortRef(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMenuItemBranchPricing(t *testing.T) {
	item := model.MenuItem{
		Price:            decimal.NewFromInt(350),
		AllowedBranchIDs: []string{"b1"},
		BranchPrices:     []model.BranchPrice{{BranchID: "b2", Price: decimal.NewFromInt(380)}},
	}

	if got := item.PriceAt("b1"); !got.Equal(decimal.NewFromInt(350)) {
		t.Errorf("b1 price: got %s, want 350", got)
	}
	if got := item.PriceAt("b2"); !got.Equal(decimal.NewFromInt(380)) {
		t.Errorf("b2 price: got %s, want 380", got)
	}
	if !item.SoldAt("b1") || item.SoldAt("b2") {
		t.Error("SoldAt should follow allowedBranchIds")
	}
}

func TestStockItemLow(t *testing.T) {
	s := model.StockItem{Stock: decimal.NewFromInt(5), Min: decimal.NewFromInt(5)}
	if !s.Low() {
		t.Error("stock equal to min should be low")
	}
	s.Stock = decimal.NewFromInt(6)
	if s.Low() {
		t.Error("stock above min should not be low")
	}
}

func TestUserPermissions(t *testing.T) {
	admin := model.User{Role: "SUPER_ADMIN"}
	if !admin.HasPermission("reports") {
		t.Error("super admin should pass every permission")
	}
	cashier := model.User{Role: "CASHIER", Permissions: []string{"pos"}}
	if !cashier.HasPermission("pos") || cashier.HasPermission("reports") {
		t.Error("cashier permissions should follow the list")
	}
}
