package analytics

import (
	"sort"
	"time"

	"github.com/rr-restro/pos/internal/model"
	"github.com/shopspring/decimal"
)

const (
	chartDays   = 7
	recentLimit = 15
)

type DailySales struct {
	Date  string          `json:"date"`
	Sales decimal.Decimal `json:"sales"`
}

// Dashboard is the landing-screen summary over filtered orders.
type Dashboard struct {
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalOrders     int             `json:"totalOrders"`
	UniqueCustomers int             `json:"uniqueCustomers"`
	Chart           []DailySales    `json:"chart"`
	Recent          []model.Order   `json:"recent"`
}

// BuildDashboard summarizes filtered orders. The chart covers the seven
// calendar days ending today in now's location, oldest first.
func BuildDashboard(orders []model.Order, now time.Time) Dashboard {
	dash := Dashboard{
		TotalSales:  Revenue(orders),
		TotalOrders: len(orders),
	}

	phones := make(map[string]bool)
	for _, o := range orders {
		if o.CustomerPhone != "" {
			phones[o.CustomerPhone] = true
		}
	}
	dash.UniqueCustomers = len(phones)

	loc := now.Location()
	byDay := make(map[string]decimal.Decimal)
	for _, o := range orders {
		if o.IsCancelled() {
			continue
		}
		day := o.CreatedAt.In(loc).Format("2006-01-02")
		byDay[day] = byDay[day].Add(o.Total)
	}
	dash.Chart = make([]DailySales, 0, chartDays)
	for i := chartDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		dash.Chart = append(dash.Chart, DailySales{Date: day, Sales: byDay[day]})
	}

	n := len(orders)
	if n > recentLimit {
		n = recentLimit
	}
	dash.Recent = append(make([]model.Order, 0, n), orders[:n]...)
	return dash
}

// Customer is one row of the patron registry.
type Customer struct {
	Phone       string          `json:"phone"`
	Name        string          `json:"name"`
	TotalOrders int             `json:"totalOrders"`
	TotalSpend  decimal.Decimal `json:"totalSpend"`
	LastOrder   model.Timestamp `json:"lastOrder"`
	Points      model.Points    `json:"points"`
}

const (
	anonymousKey = "Anonymous"
	walkInName   = "Walk-in Patron"
)

// Customers groups orders by phone. Orders without a phone are grouped under
// "Anonymous". Cancelled orders count as visits but not as spend. Rows are
// sorted by spend, highest first; ties keep first-seen order.
func Customers(orders []model.Order, balances map[string]model.Points) []Customer {
	index := make(map[string]int)
	var rows []Customer
	for _, o := range orders {
		key := o.CustomerPhone
		if key == "" {
			key = anonymousKey
		}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, Customer{Phone: key, TotalSpend: decimal.Zero, Points: balances[o.CustomerPhone]})
		}
		c := &rows[i]
		if c.Name == "" && o.CustomerName != "" {
			c.Name = o.CustomerName
		}
		c.TotalOrders++
		if !o.IsCancelled() {
			c.TotalSpend = c.TotalSpend.Add(o.Total)
		}
		if o.CreatedAt.After(c.LastOrder.Time) {
			c.LastOrder = o.CreatedAt
		}
	}

	for i := range rows {
		if rows[i].Name == "" {
			rows[i].Name = walkInName
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].TotalSpend.GreaterThan(rows[b].TotalSpend)
	})
	if rows == nil {
		rows = []Customer{}
	}
	return rows
}
