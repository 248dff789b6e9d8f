package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rr-restro/pos/internal/accounting"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/events"
	"github.com/rr-restro/pos/internal/loyalty"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/pricing"
	"github.com/rr-restro/pos/internal/store"
)

// CheckoutRequest is a cart as submitted by a POS terminal. Prices are
// resolved server-side from the menu.
type CheckoutRequest struct {
	BranchID      string
	UserID        string
	Lines         []pricing.LineRequest
	TableNumber   string
	CounterNumber string
	PaymentMethod string
	CustomerPhone string
	CustomerName  string
	Discount      pricing.Discount
	PromoCode     string
	RedeemPoints  bool
}

// Quote prices a cart without placing it.
func (s *Service) Quote(ctx context.Context, req CheckoutRequest) (pricing.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.buildCart(req)
	if err != nil {
		return pricing.Quote{}, err
	}
	return cart.Quote(s.pointsFor(req.CustomerPhone)), nil
}

// Checkout places the order: status PENDING, one INCOME ledger entry, and
// loyalty points earned on the total.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(req.Lines) == 0 {
		return model.Order{}, ErrEmptyCart
	}

	method := req.PaymentMethod
	if method == "" {
		method = enum.PaymentMethodCash
	}
	if !enum.IsPaymentMethod(method) {
		return model.Order{}, fmt.Errorf("%w: %s", ErrInvalidPayment, method)
	}

	cart, err := s.buildCart(req)
	if err != nil {
		return model.Order{}, err
	}

	phone := strings.TrimSpace(req.CustomerPhone)
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = s.knownName(phone)
	}

	q := cart.Quote(s.pointsFor(phone))
	first := loyalty.IsFirstOrder(s.state.Orders, phone)

	order := model.Order{
		ID:                    model.NewID(model.PrefixOrder),
		BranchID:              req.BranchID,
		TableNumber:           req.TableNumber,
		CounterNumber:         req.CounterNumber,
		Items:                 cart.Items,
		Subtotal:              q.Subtotal,
		VAT:                   q.VAT,
		Discount:              q.ManualDiscount,
		Total:                 q.Total,
		Status:                enum.OrderStatusPending,
		PaymentMethod:         method,
		CustomerPhone:         phone,
		CustomerName:          name,
		CreatedAt:             model.At(s.now()),
		UserID:                req.UserID,
		LoyaltyPointsEarned:   pricing.PointsEarned(q.Total, first),
		LoyaltyPointsRedeemed: q.PointsRedeemed,
		PromoCodeUsed:         q.PromoCode,
		PromoDiscount:         q.PromoDiscount,
	}

	s.state.Orders = append([]model.Order{order}, s.state.Orders...)
	s.version++
	s.ledger.Record(order, s.version)

	entry := accounting.SaleEntry(order, s.now())
	s.state.Entries = append([]model.AccountingEntry{entry}, s.state.Entries...)

	keys := []string{store.KeyOrders, store.KeyEntries}
	var milestone *model.Notification
	if first {
		who := name
		if who == "" {
			who = phone
		}
		n := s.notify("Loyalty Milestone", fmt.Sprintf("New patron %s awarded 10 welcome points.", who), enum.NotificationSuccess)
		milestone = &n
		keys = append(keys, store.KeyNotifications)
	}

	s.persist(ctx, keys...)
	s.publish(ctx, events.OrderCreated, order.BranchID, order)
	if milestone != nil {
		s.publish(ctx, events.NotificationCreated, "", *milestone)
	}
	return order, nil
}

// buildCart resolves every line against the menu at the branch and applies
// the discount and promo. Caller holds s.mu.
func (s *Service) buildCart(req CheckoutRequest) (pricing.Cart, error) {
	if _, i := find(s.state.Branches, req.BranchID, branchKey); i < 0 {
		return pricing.Cart{}, fmt.Errorf("%w: %s", ErrUnknownBranch, req.BranchID)
	}
	if err := req.Discount.Validate(); err != nil {
		return pricing.Cart{}, err
	}

	cart := pricing.Cart{
		VATPercent:   s.state.Settings.VATPercentage,
		Discount:     req.Discount,
		RedeemPoints: req.RedeemPoints,
	}
	catalog := pricing.Catalog{Items: s.state.MenuItems, AddOns: s.state.AddOns}
	for _, lr := range req.Lines {
		line, err := catalog.Line(req.BranchID, lr)
		if err != nil {
			return pricing.Cart{}, err
		}
		if err := cart.Add(line); err != nil {
			return pricing.Cart{}, err
		}
	}

	if strings.TrimSpace(req.PromoCode) != "" {
		if err := cart.ApplyPromo(req.PromoCode, s.state.Settings.PromoCodes); err != nil {
			return pricing.Cart{}, err
		}
	}
	return cart, nil
}

// pointsFor is the phone's current balance. Caller holds s.mu.
func (s *Service) pointsFor(phone string) model.Points {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return 0
	}
	return s.ledger.Balance(s.state.Orders, s.version, phone)
}

// knownName is the most recent non-empty name used with phone. Caller holds
// s.mu.
func (s *Service) knownName(phone string) string {
	if phone == "" {
		return ""
	}
	for _, o := range s.state.Orders {
		if o.CustomerPhone == phone && o.CustomerName != "" {
			return o.CustomerName
		}
	}
	return ""
}
