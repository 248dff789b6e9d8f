package pricing_test

import (
	"errors"
	"testing"

	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/pricing"
)

func testCatalog() pricing.Catalog {
	items := model.DefaultMenuItems()
	items[0].BranchPrices = []model.BranchPrice{{BranchID: "b2", Price: d("380")}}
	addOns := model.DefaultAddOns()
	addOns[0].BranchPrices = []model.BranchPrice{{BranchID: "b2", Price: d("60")}}
	return pricing.Catalog{Items: items, AddOns: addOns}
}

func TestCatalogLineAppliesBranchPricing(t *testing.T) {
	cat := testCatalog()

	line, err := cat.Line("b2", pricing.LineRequest{MenuItemID: "m1", VariantID: "v2", Quantity: 2, AddOnIDs: []string{"a1", "a2"}})
	if err != nil {
		t.Fatalf("line: %v", err)
	}
	assertDecimal(t, "unit price", line.UnitPrice, "530")
	if line.Variant == nil || line.Variant.ID != "v2" {
		t.Errorf("variant: got %+v", line.Variant)
	}
	if len(line.AddOns) != 2 {
		t.Fatalf("add-ons: got %d, want 2", len(line.AddOns))
	}
	assertDecimal(t, "cheese at b2", line.AddOns[0].Price, "60")
	assertDecimal(t, "line total", pricing.LineTotal(line), "1240")

	base, err := cat.Line("b1", pricing.LineRequest{MenuItemID: "m1", Quantity: 1})
	if err != nil {
		t.Fatalf("base line: %v", err)
	}
	assertDecimal(t, "base price", base.UnitPrice, "350")
}

func TestCatalogLineErrors(t *testing.T) {
	cat := testCatalog()
	tests := []struct {
		name   string
		branch string
		req    pricing.LineRequest
		want   error
	}{
		{"unknown item", "b1", pricing.LineRequest{MenuItemID: "zz", Quantity: 1}, pricing.ErrItemNotFound},
		{"not sold at branch", "b2", pricing.LineRequest{MenuItemID: "m2", Quantity: 1}, pricing.ErrItemNotSold},
		{"bad variant", "b1", pricing.LineRequest{MenuItemID: "m1", VariantID: "v9", Quantity: 1}, pricing.ErrVariantNotFound},
		{"add-on not offered", "b1", pricing.LineRequest{MenuItemID: "m1", Quantity: 1, AddOnIDs: []string{"a3"}}, pricing.ErrAddOnNotOffered},
		{"duplicate add-on", "b1", pricing.LineRequest{MenuItemID: "m1", Quantity: 1, AddOnIDs: []string{"a1", "a1"}}, pricing.ErrDuplicateAddOn},
		{"zero quantity", "b1", pricing.LineRequest{MenuItemID: "m1"}, pricing.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cat.Line(tt.branch, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCatalogLineMissingAddOnRecord(t *testing.T) {
	cat := testCatalog()
	cat.AddOns = cat.AddOns[1:]
	_, err := cat.Line("b1", pricing.LineRequest{MenuItemID: "m1", Quantity: 1, AddOnIDs: []string{"a1"}})
	if !errors.Is(err, pricing.ErrAddOnNotFound) {
		t.Errorf("got %v, want ErrAddOnNotFound", err)
	}
}

func TestCatalogMenu(t *testing.T) {
	cat := testCatalog()

	if got := cat.Menu("b2", "", ""); len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("b2 menu: got %+v", got)
	}
	if got := cat.Menu("b2", "", ""); !got[0].Price.Equal(d("380")) {
		t.Errorf("b2 price: got %s, want 380", got[0].Price)
	}
	if got := cat.Menu("b1", "Pizza", ""); len(got) != 1 || got[0].ID != "m2" {
		t.Errorf("category filter: got %+v", got)
	}
	if got := cat.Menu("b1", "All", "BEEF"); len(got) != 1 || got[0].ID != "m1" {
		t.Errorf("search: got %+v", got)
	}
}
