// Package receipt renders an order as a customer receipt: plain text, an
// HTML page for the browser print dialog, or ESC/POS bytes for thermal
// printers.
package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/pricing"
	"github.com/shopspring/decimal"
)

// FallbackBranchName is printed when the order's branch no longer exists.
const FallbackBranchName = "Main Branch"

const dateLayout = "02/01/2006 15:04"

// Receipt is everything printed for one order.
type Receipt struct {
	AppName        string
	CurrencySymbol string
	CurrencyCode   string
	BranchName     string
	Cashier        string
	Order          model.Order
	Location       *time.Location
}

// New assembles a receipt. branch may be nil for a deleted branch.
func New(settings model.Settings, branch *model.Branch, cashier string, order model.Order, loc *time.Location) Receipt {
	name := FallbackBranchName
	if branch != nil {
		name = branch.Name
	}
	if loc == nil {
		loc = time.Local
	}
	return Receipt{
		AppName:        settings.AppName,
		CurrencySymbol: settings.CurrencySymbol,
		CurrencyCode:   settings.CurrencyCode,
		BranchName:     name,
		Cashier:        cashier,
		Order:          order,
		Location:       loc,
	}
}

// Line is one priced row of the receipt body.
type Line struct {
	Quantity int
	Name     string
	AddOns   []string
	Total    decimal.Decimal
}

// Lines lists the order items with add-ons priced in.
func (r Receipt) Lines() []Line {
	out := make([]Line, 0, len(r.Order.Items))
	for _, it := range r.Order.Items {
		name := it.Name
		if it.Variant != nil && it.Variant.Name != "" {
			name += " (" + it.Variant.Name + ")"
		}
		l := Line{Quantity: it.Quantity, Name: name, Total: pricing.LineTotal(it)}
		for _, a := range it.AddOns {
			l.AddOns = append(l.AddOns, a.Name)
		}
		out = append(out, l)
	}
	return out
}

func (r Receipt) Ref() string { return model.ShortRef(r.Order.ID) }

func (r Receipt) Date() string {
	return r.Order.CreatedAt.In(r.Location).Format(dateLayout)
}

func (r Receipt) Payment() string {
	if r.Order.PaymentMethod == "" {
		return enum.PaymentMethodCash
	}
	return r.Order.PaymentMethod
}

// Adjustments are the non-zero rows between the items and the total.
func (r Receipt) Adjustments() []Adjustment {
	o := r.Order
	rows := []Adjustment{{Label: "Subtotal", Amount: o.Subtotal}}
	if o.VAT.IsPositive() {
		rows = append(rows, Adjustment{Label: "VAT", Amount: o.VAT})
	}
	if o.Discount.IsPositive() {
		rows = append(rows, Adjustment{Label: "Discount", Amount: o.Discount.Neg()})
	}
	if o.PromoDiscount.IsPositive() {
		rows = append(rows, Adjustment{Label: "Promo " + o.PromoCodeUsed, Amount: o.PromoDiscount.Neg()})
	}
	if o.LoyaltyPointsRedeemed > 0 {
		rows = append(rows, Adjustment{Label: "Points redeemed", Amount: decimal.NewFromInt(int64(o.LoyaltyPointsRedeemed)).Neg()})
	}
	return rows
}

type Adjustment struct {
	Label  string
	Amount decimal.Decimal
}

// Text renders the receipt as fixed-width plain text.
func Text(r Receipt, width int) string {
	return string(layout(r, newDocument(width, true), r.CurrencySymbol))
}

// ESCPOS renders the receipt for a thermal printer. Thermal code pages rarely
// carry local currency glyphs, so amounts use the currency code.
func ESCPOS(r Receipt, width int) []byte {
	prefix := r.CurrencyCode
	if prefix != "" {
		prefix += " "
	}
	return layout(r, newDocument(width, false), prefix)
}

func layout(r Receipt, d *document, currency string) []byte {
	money := func(v decimal.Decimal) string { return currency + v.StringFixed(2) }

	d.align(alignCenter).bold(true).fontSize(fontDouble)
	d.center(r.AppName)
	d.fontSize(fontNormal).bold(false)
	d.center(r.BranchName)
	d.align(alignLeft)
	d.separator('-')

	d.keyValue("ID:", "#"+r.Ref())
	d.keyValue("Date:", r.Date())
	d.keyValue("Payment:", r.Payment())
	if r.Cashier != "" {
		d.keyValue("Cashier:", r.Cashier)
	}
	if r.Order.TableNumber != "" {
		d.keyValue("Table:", r.Order.TableNumber)
	}
	if r.Order.CustomerName != "" {
		d.keyValue("Customer:", r.Order.CustomerName)
	}
	d.separator('-')

	for _, l := range r.Lines() {
		d.itemLine(l.Quantity, l.Name, money(l.Total))
		for _, a := range l.AddOns {
			d.text("  + " + a)
		}
	}
	d.separator('-')

	for _, a := range r.Adjustments() {
		d.keyValue(a.Label, money(a.Amount))
	}
	d.bold(true)
	d.keyValue("TOTAL", money(r.Order.Total))
	d.bold(false)
	if r.Order.LoyaltyPointsEarned > 0 {
		d.keyValue("Points earned", fmt.Sprintf("%d", r.Order.LoyaltyPointsEarned))
	}
	d.separator('-')

	d.align(alignCenter)
	d.center("Thank you!")
	d.feed(3).cut()
	return d.bytes()
}

var htmlTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(symbol string, v decimal.Decimal) string { return symbol + v.StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice - {{.Order.ID}}</title>
<style>
body { font-family: 'Courier New', Courier, monospace; padding: 10px; font-size: 13px; max-width: 280px; margin: auto; color: #000; }
.text-center { text-align: center; display: block; width: 100%; }
.separator { border-top: 1px dashed #000; margin: 10px 0; }
.flex { display: flex; justify-content: space-between; align-items: flex-start; }
.bold { font-weight: bold; }
.mt-1 { margin-top: 4px; }
h2 { margin: 5px 0; font-size: 18px; }
</style>
</head>
<body>
<div class="text-center">
<h2 class="bold">{{.AppName}}</h2>
<p>{{.BranchName}}</p>
</div>
<div class="separator"></div>
<p class="flex"><span>ID:</span> <span>#{{.Ref}}</span></p>
<p class="flex"><span>Date:</span> <span>{{.Date}}</span></p>
<p class="flex"><span>Payment:</span> <span>{{.Payment}}</span></p>
{{- if .Cashier}}
<p class="flex"><span>Cashier:</span> <span>{{.Cashier}}</span></p>
{{- end}}
{{- if .Order.CustomerName}}
<p class="flex"><span>Customer:</span> <span>{{.Order.CustomerName}}</span></p>
{{- end}}
<div class="separator"></div>
{{- range .Lines}}
<div class="flex mt-1"><span>{{.Quantity}}x {{.Name}}</span> <span>{{money $.CurrencySymbol .Total}}</span></div>
{{- range .AddOns}}
<div class="mt-1">&nbsp;&nbsp;+ {{.}}</div>
{{- end}}
{{- end}}
<div class="separator"></div>
{{- range .Adjustments}}
<div class="flex"><span>{{.Label}}</span> <span>{{money $.CurrencySymbol .Amount}}</span></div>
{{- end}}
<div class="flex bold" style="font-size: 16px"><span>TOTAL</span> <span>{{money .CurrencySymbol .Order.Total}}</span></div>
<div class="separator"></div>
<p class="text-center mt-1">Thank you!</p>
</body>
</html>
`))

// HTML renders a printable page.
func HTML(r Receipt) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
