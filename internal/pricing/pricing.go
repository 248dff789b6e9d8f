// Package pricing computes checkout totals for a cart: subtotal, VAT, manual
// discount, promo discount, loyalty redemption and the final payable amount.
package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Errors returned while building a cart.
var (
	ErrInvalidPromoCode    = errors.New("invalid promo code")
	ErrPromoMinimum        = errors.New("promo minimum order not met")
	ErrInvalidDiscountType = errors.New("invalid discount type")
	ErrNegativeDiscount    = errors.New("discount must be >= 0")
	ErrNegativeVAT         = errors.New("vat percentage must be >= 0")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
)

// MinimumOrderError is returned when a promo code's minimum order amount is
// not met. It matches ErrPromoMinimum.
type MinimumOrderError struct {
	Code    string
	Minimum decimal.Decimal
}

func (e *MinimumOrderError) Error() string {
	return fmt.Sprintf("minimum order for %s is %s", e.Code, e.Minimum.StringFixed(2))
}

func (e *MinimumOrderError) Is(target error) bool { return target == ErrPromoMinimum }

// Discount is an operator-entered discount, either a fixed amount or a
// percentage of the subtotal.
type Discount struct {
	Type  string
	Value decimal.Decimal
}

// Validate checks the discount type and sign. An empty type means FIXED.
func (d Discount) Validate() error {
	if d.Type != "" && !enum.IsDiscountType(d.Type) {
		return ErrInvalidDiscountType
	}
	if d.Value.IsNegative() {
		return ErrNegativeDiscount
	}
	return nil
}

// Amount returns the discount amount for the given subtotal.
func (d Discount) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if d.Type == enum.DiscountTypePercent {
		return subtotal.Mul(d.Value).Div(hundred)
	}
	return d.Value
}

// Quote is the price breakdown of a cart.
type Quote struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	VAT             decimal.Decimal `json:"vat"`
	ManualDiscount  decimal.Decimal `json:"manualDiscount"`
	PromoCode       string          `json:"promoCode,omitempty"`
	PromoDiscount   decimal.Decimal `json:"promoDiscount"`
	PointsAvailable model.Points    `json:"pointsAvailable"`
	PointsRedeemed  model.Points    `json:"pointsRedeemed"`
	LoyaltyDiscount decimal.Decimal `json:"loyaltyDiscount"`
	Total           decimal.Decimal `json:"total"`
}

// Cart is the in-progress sale at one branch.
type Cart struct {
	Items        []model.OrderItem
	VATPercent   decimal.Decimal
	Discount     Discount
	Promo        *model.PromoCode
	RedeemPoints bool
}

// Add puts a line in the cart. A line for the same menu item with the same
// variant and the same set of add-ons merges into the existing line.
func (c *Cart) Add(item model.OrderItem) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	key := lineKey(item)
	for i := range c.Items {
		if lineKey(c.Items[i]) == key {
			c.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// ApplyPromo looks the code up case-insensitively and applies it if the
// current subtotal meets the minimum. A successful call replaces any promo
// already applied; a failed call leaves the cart unchanged.
func (c *Cart) ApplyPromo(code string, promos []model.PromoCode) error {
	p, err := FindPromo(promos, code)
	if err != nil {
		return err
	}
	if Subtotal(c.Items).LessThan(p.MinOrderAmount) {
		return &MinimumOrderError{Code: p.Code, Minimum: p.MinOrderAmount}
	}
	c.Promo = &p
	return nil
}

// Quote prices the cart. points is the customer's available balance and is
// only consulted when RedeemPoints is set.
func (c *Cart) Quote(points model.Points) Quote {
	q := Quote{PointsAvailable: points}
	q.Subtotal = Subtotal(c.Items)
	q.VAT = q.Subtotal.Mul(c.VATPercent).Div(hundred)
	q.ManualDiscount = c.Discount.Amount(q.Subtotal)

	q.PromoDiscount = decimal.Zero
	if c.Promo != nil {
		q.PromoCode = c.Promo.Code
		q.PromoDiscount = Discount{Type: c.Promo.Type, Value: c.Promo.Value}.Amount(q.Subtotal)
	}

	remaining := q.Subtotal.Add(q.VAT).Sub(q.ManualDiscount).Sub(q.PromoDiscount)

	q.LoyaltyDiscount = decimal.Zero
	if c.RedeemPoints && points > 0 && remaining.IsPositive() {
		redeem := decimal.NewFromInt(int64(points))
		if remaining.LessThan(redeem) {
			redeem = remaining.Floor()
		}
		q.PointsRedeemed = model.Points(redeem.IntPart())
		q.LoyaltyDiscount = redeem
	}

	q.Total = decimal.Max(decimal.Zero, remaining.Sub(q.LoyaltyDiscount))
	return q
}

// LineTotal is (unit price + add-on prices) x quantity.
func LineTotal(item model.OrderItem) decimal.Decimal {
	unit := item.UnitPrice
	for _, a := range item.AddOns {
		unit = unit.Add(a.Price)
	}
	return unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Subtotal sums the line totals.
func Subtotal(items []model.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineTotal(it))
	}
	return total
}

// FindPromo returns the promo whose code matches case-insensitively.
func FindPromo(promos []model.PromoCode, code string) (model.PromoCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.PromoCode{}, ErrInvalidPromoCode
	}
	for _, p := range promos {
		if strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}
	return model.PromoCode{}, ErrInvalidPromoCode
}

// PointsEarned is one point per full 100 of the total, plus a 10 point
// welcome bonus on a customer's first order.
func PointsEarned(total decimal.Decimal, firstOrder bool) model.Points {
	earned := model.Points(total.Div(hundred).Floor().IntPart())
	if earned < 0 {
		earned = 0
	}
	if firstOrder {
		earned += 10
	}
	return earned
}

func lineKey(item model.OrderItem) string {
	ids := make([]string, len(item.AddOns))
	for i, a := range item.AddOns {
		ids[i] = a.ID
	}
	sort.Strings(ids)

	variant := ""
	if item.Variant != nil {
		variant = item.Variant.ID
	}
	return item.MenuItemID + "|" + variant + "|" + strings.Join(ids, ",")
}
