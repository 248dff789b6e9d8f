// Package model holds the POS domain records and their JSON wire format.
//
// The JSON shape matches the persisted snapshot and backup documents:
// camelCase keys, money as plain numbers, timestamps as epoch milliseconds.
package model

import (
	"github.com/rr-restro/pos/internal/enum"
	"github.com/shopspring/decimal"
)

func init() {
	// Snapshots and backups carry money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Branch struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Address      string          `json:"address"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`
}

// BranchPrice overrides a base price at one branch.
type BranchPrice struct {
	BranchID string          `json:"branchId"`
	Price    decimal.Decimal `json:"price"`
}

type Variant struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type AddOn struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	BranchPrices []BranchPrice   `json:"branchPrices,omitempty"`
}

// PriceAt returns the add-on price at the given branch.
func (a AddOn) PriceAt(branchID string) decimal.Decimal {
	return priceAt(a.Price, a.BranchPrices, branchID)
}

type MenuItem struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Price            decimal.Decimal `json:"price"`
	Description      string          `json:"description"`
	Image            string          `json:"image"`
	Variants         []Variant       `json:"variants,omitempty"`
	AddOns           []string        `json:"addOns,omitempty"`
	AllowedBranchIDs []string        `json:"allowedBranchIds"`
	BranchPrices     []BranchPrice   `json:"branchPrices,omitempty"`
}

// PriceAt returns the base price of the item at the given branch.
func (m MenuItem) PriceAt(branchID string) decimal.Decimal {
	return priceAt(m.Price, m.BranchPrices, branchID)
}

// SoldAt reports whether the item may be sold at the given branch.
func (m MenuItem) SoldAt(branchID string) bool {
	return contains(m.AllowedBranchIDs, branchID)
}

// OffersAddOn reports whether the add-on id is listed for this item.
func (m MenuItem) OffersAddOn(addOnID string) bool {
	return contains(m.AddOns, addOnID)
}

// FindVariant returns the variant with the given id.
func (m MenuItem) FindVariant(id string) (Variant, bool) {
	for _, v := range m.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// OrderItem is one cart or order line. UnitPrice excludes add-ons; add-on
// prices are captured on the line at the time of sale.
type OrderItem struct {
	ID         string          `json:"id"`
	MenuItemID string          `json:"menuItemId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Variant    *Variant        `json:"variant,omitempty"`
	AddOns     []AddOn         `json:"addOns"`
}

type Order struct {
	ID                    string          `json:"id"`
	BranchID              string          `json:"branchId"`
	TableNumber           string          `json:"tableNumber,omitempty"`
	CounterNumber         string          `json:"counterNumber,omitempty"`
	Items                 []OrderItem     `json:"items"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	VAT                   decimal.Decimal `json:"vat"`
	Discount              decimal.Decimal `json:"discount"`
	Total                 decimal.Decimal `json:"total"`
	Status                string          `json:"status"`
	PaymentMethod         string          `json:"paymentMethod,omitempty"`
	CustomerPhone         string          `json:"customerPhone,omitempty"`
	CustomerName          string          `json:"customerName,omitempty"`
	CreatedAt             Timestamp       `json:"createdAt"`
	UserID                string          `json:"userId"`
	LoyaltyPointsEarned   Points          `json:"loyaltyPointsEarned"`
	LoyaltyPointsRedeemed Points          `json:"loyaltyPointsRedeemed"`
	PromoCodeUsed         string          `json:"promoCodeUsed,omitempty"`
	PromoDiscount         decimal.Decimal `json:"promoDiscount"`
}

// Branch and Time let orders pass through the record filter.
func (o Order) Branch() string { return o.BranchID }

func (o Order) Time() Timestamp { return o.CreatedAt }

func (o Order) IsCancelled() bool { return o.Status == enum.OrderStatusCancelled }

type AccountingEntry struct {
	ID          string          `json:"id"`
	Date        Timestamp       `json:"date"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	BranchID    string          `json:"branchId"`
	OrderID     string          `json:"orderId,omitempty"`
}

func (e AccountingEntry) Branch() string { return e.BranchID }

func (e AccountingEntry) Time() Timestamp { return e.Date }

type WithdrawalRequest struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	UserName  string          `json:"userName"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	Status    string          `json:"status"`
	CreatedAt Timestamp       `json:"createdAt"`
}

type User struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Role              string          `json:"role"`
	AssignedBranchIDs []string        `json:"assignedBranchIds"`
	Username          string          `json:"username"`
	Password          string          `json:"password,omitempty"`
	Salary            decimal.Decimal `json:"salary"`
	AdvanceLimit      decimal.Decimal `json:"advanceLimit"`
	WalletBalance     decimal.Decimal `json:"walletBalance"`
	Permissions       []string        `json:"permissions,omitempty"`
}

// Public returns a copy of the user without the password hash.
func (u User) Public() User {
	u.Password = ""
	return u
}

// HasPermission reports whether the user may open the given navigation area.
// Super admins may open every area.
func (u User) HasPermission(perm string) bool {
	if u.Role == enum.UserRoleSuperAdmin {
		return true
	}
	return contains(u.Permissions, perm)
}

type StockItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Unit  string          `json:"unit"`
	Stock decimal.Decimal `json:"stock"`
	Min   decimal.Decimal `json:"min"`
}

// Low reports whether the stock level is at or below its minimum.
func (s StockItem) Low() bool {
	return s.Stock.LessThanOrEqual(s.Min)
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt Timestamp `json:"createdAt"`
	Read      bool      `json:"read"`
}

type PromoCode struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Type           string          `json:"type"`
	Value          decimal.Decimal `json:"value"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount"`
}

type Settings struct {
	AppName         string          `json:"appName"`
	CurrencySymbol  string          `json:"currencySymbol"`
	CurrencyCode    string          `json:"currencyCode"`
	LogoURL         string          `json:"logoUrl,omitempty"`
	VATPercentage   decimal.Decimal `json:"vatPercentage"`
	DefaultDiscount decimal.Decimal `json:"defaultDiscount"`
	PromoCodes      []PromoCode     `json:"promoCodes"`
}

func priceAt(base decimal.Decimal, overrides []BranchPrice, branchID string) decimal.Decimal {
	for _, o := range overrides {
		if o.BranchID == branchID {
			return o.Price
		}
	}
	return base
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
