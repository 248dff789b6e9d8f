package receipt_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/receipt"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sample() receipt.Receipt {
	settings := model.DefaultSettings()
	branch := model.DefaultBranches()[0]
	order := model.Order{
		ID:       "ORD-1a2b3c-rest",
		BranchID: branch.ID,
		Items: []model.OrderItem{
			{
				ID: "LN-1", MenuItemID: "m1", Name: "Classic Beef Burger", Quantity: 2, UnitPrice: d("500"),
				Variant: &model.Variant{ID: "v2", Name: "Double Patty", Price: d("150")},
				AddOns:  []model.AddOn{{ID: "a1", Name: "Extra Cheese", Price: d("50")}},
			},
		},
		Subtotal:      d("1100"),
		VAT:           d("55"),
		Discount:      decimal.Zero,
		PromoDiscount: d("110"),
		PromoCodeUsed: "FIRST10",
		Total:         d("1045"),
		CreatedAt:     model.At(time.Date(2026, 10, 16, 13, 5, 0, 0, time.UTC)),
	}
	return receipt.New(settings, &branch, "Super Admin", order, time.UTC)
}

func TestText(t *testing.T) {
	out := receipt.Text(sample(), 40)

	for _, want := range []string{
		"RR Restro POS",
		"Main Branch - Dhaka",
		"#1a2b3c",
		"16/10/2026 13:05",
		"CASH",
		"2x Classic Beef Burger (Double Patty)",
		"৳1100.00",
		"  + Extra Cheese",
		"Promo FIRST10",
		"৳-110.00",
		"৳1045.00",
		"Thank you!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text receipt missing %q:\n%s", want, out)
		}
	}
	if strings.ContainsRune(out, 0x1B) {
		t.Error("plain text must not carry ESC/POS commands")
	}
}

func TestFallbackBranchName(t *testing.T) {
	r := receipt.New(model.DefaultSettings(), nil, "", model.Order{ID: "ORD-x"}, nil)
	if r.BranchName != receipt.FallbackBranchName {
		t.Errorf("branch name: got %q", r.BranchName)
	}
}

func TestESCPOS(t *testing.T) {
	out := receipt.ESCPOS(sample(), 32)

	if !bytes.HasPrefix(out, []byte{0x1B, '@'}) {
		t.Error("expected printer init")
	}
	if !bytes.HasSuffix(out, []byte{0x1D, 'V', 0x01}) {
		t.Error("expected paper cut at the end")
	}
	if !bytes.Contains(out, []byte("TK 1045.00")) {
		t.Error("expected total with currency code")
	}
}

func TestHTML(t *testing.T) {
	r := sample()
	r.Order.CustomerName = "<script>"
	out, err := receipt.HTML(r)
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	html := string(out)
	for _, want := range []string{"<h2 class=\"bold\">RR Restro POS</h2>", "#1a2b3c", "৳1045.00", "Thank you!"} {
		if !strings.Contains(html, want) {
			t.Errorf("html receipt missing %q", want)
		}
	}
	if strings.Contains(html, "<script>") {
		t.Error("customer input must be escaped")
	}
}
