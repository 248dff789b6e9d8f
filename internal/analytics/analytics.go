// Package analytics aggregates filtered orders and ledger entries into the
// figures shown on the reports and dashboard screens.
package analytics

import (
	"sort"

	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
	"github.com/shopspring/decimal"
)

// TopProductsLimit caps the product leaderboard.
const TopProductsLimit = 5

var hundred = decimal.NewFromInt(100)

type PaymentShare struct {
	Method string          `json:"method"`
	Value  decimal.Decimal `json:"value"`
}

type ProductStat struct {
	MenuItemID string          `json:"menuItemId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"qty"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type BranchStat struct {
	BranchID string          `json:"branchId"`
	Name     string          `json:"name"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expense  decimal.Decimal `json:"expense"`
	Profit   decimal.Decimal `json:"profit"`
}

// Report is the full analytics view over one filter selection.
type Report struct {
	Revenue             decimal.Decimal `json:"revenue"`
	Expenses            decimal.Decimal `json:"expenses"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	ProfitMargin        decimal.Decimal `json:"profitMargin"`
	OrderCount          int             `json:"orderCount"`
	PaymentDistribution []PaymentShare  `json:"paymentDistribution"`
	TopProducts         []ProductStat   `json:"topProducts"`
	BranchComparison    []BranchStat    `json:"branchComparison"`
}

// Build computes the report. orders and entries are expected to be filtered
// already; branches is the full branch list.
func Build(orders []model.Order, entries []model.AccountingEntry, branches []model.Branch) Report {
	r := Report{
		Revenue:             Revenue(orders),
		Expenses:            Expenses(entries),
		OrderCount:          len(orders),
		PaymentDistribution: PaymentDistribution(orders),
		TopProducts:         TopProducts(orders, TopProductsLimit),
		BranchComparison:    BranchComparison(orders, entries, branches),
	}
	r.NetProfit = r.Revenue.Sub(r.Expenses)
	r.ProfitMargin = Margin(r.NetProfit, r.Revenue)
	return r
}

// Revenue sums the totals of non-cancelled orders.
func Revenue(orders []model.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if !o.IsCancelled() {
			total = total.Add(o.Total)
		}
	}
	return total
}

// Expenses sums EXPENSE entries.
func Expenses(entries []model.AccountingEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Type == enum.EntryTypeExpense {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Margin is net / revenue as a percentage rounded to two places, or zero when
// there is no revenue.
func Margin(net, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return net.Div(revenue).Mul(hundred).Round(2)
}

// PaymentDistribution groups non-cancelled totals by payment method. Known
// methods come first in their fixed order, followed by any other method in
// the order it was first seen. Methods with a zero total are omitted.
func PaymentDistribution(orders []model.Order) []PaymentShare {
	totals := make(map[string]decimal.Decimal)
	var extra []string
	for _, o := range orders {
		if o.IsCancelled() || o.PaymentMethod == "" {
			continue
		}
		if _, seen := totals[o.PaymentMethod]; !seen && !enum.IsPaymentMethod(o.PaymentMethod) {
			extra = append(extra, o.PaymentMethod)
		}
		totals[o.PaymentMethod] = totals[o.PaymentMethod].Add(o.Total)
	}

	out := make([]PaymentShare, 0, len(totals))
	for _, m := range append(append([]string(nil), enum.PaymentMethods...), extra...) {
		if v, ok := totals[m]; ok && v.IsPositive() {
			out = append(out, PaymentShare{Method: m, Value: v})
		}
	}
	return out
}

// TopProducts ranks menu items from non-cancelled orders by line revenue
// (unit price x quantity; add-ons are not attributed to the item). Ties keep
// first-seen order. The name is the one on the first line seen.
func TopProducts(orders []model.Order, limit int) []ProductStat {
	index := make(map[string]int)
	var stats []ProductStat
	for _, o := range orders {
		if o.IsCancelled() {
			continue
		}
		for _, it := range o.Items {
			i, ok := index[it.MenuItemID]
			if !ok {
				i = len(stats)
				index[it.MenuItemID] = i
				stats = append(stats, ProductStat{MenuItemID: it.MenuItemID, Name: it.Name, Revenue: decimal.Zero})
			}
			stats[i].Quantity += it.Quantity
			stats[i].Revenue = stats[i].Revenue.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Revenue.GreaterThan(stats[b].Revenue)
	})
	if limit >= 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	if stats == nil {
		stats = []ProductStat{}
	}
	return stats
}

// BranchComparison reports revenue, expense and profit for every known
// branch, in branch list order.
func BranchComparison(orders []model.Order, entries []model.AccountingEntry, branches []model.Branch) []BranchStat {
	revenue := make(map[string]decimal.Decimal)
	for _, o := range orders {
		if !o.IsCancelled() {
			revenue[o.BranchID] = revenue[o.BranchID].Add(o.Total)
		}
	}
	expense := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.Type == enum.EntryTypeExpense {
			expense[e.BranchID] = expense[e.BranchID].Add(e.Amount)
		}
	}

	out := make([]BranchStat, 0, len(branches))
	for _, b := range branches {
		rev := revenue[b.ID]
		exp := expense[b.ID]
		out = append(out, BranchStat{
			BranchID: b.ID,
			Name:     b.Name,
			Revenue:  rev,
			Expense:  exp,
			Profit:   rev.Sub(exp),
		})
	}
	return out
}
