// Package loyalty derives customer point balances from order history.
package loyalty

import (
	"sync"

	"github.com/rr-restro/pos/internal/model"
)

// PointsBalance folds the non-cancelled orders of phone into a balance:
// points earned minus points redeemed. Negative balances are returned as is.
func PointsBalance(orders []model.Order, phone string) model.Points {
	if phone == "" {
		return 0
	}
	var balance model.Points
	for _, o := range orders {
		if o.CustomerPhone == phone && !o.IsCancelled() {
			balance += o.LoyaltyPointsEarned - o.LoyaltyPointsRedeemed
		}
	}
	return balance
}

// Balances computes the balance of every phone that appears on a
// non-cancelled order.
func Balances(orders []model.Order) map[string]model.Points {
	out := make(map[string]model.Points)
	for _, o := range orders {
		apply(out, o)
	}
	return out
}

// IsFirstOrder reports whether phone has no earlier order at all, cancelled
// orders included. Anonymous sales never count as a first order.
func IsFirstOrder(orders []model.Order, phone string) bool {
	if phone == "" {
		return false
	}
	for _, o := range orders {
		if o.CustomerPhone == phone {
			return false
		}
	}
	return true
}

// Ledger keeps per-phone balances warm between reads. It is keyed on the
// caller's order-set version: appending an order advances the version by
// one and may be recorded in place; any other change makes the next read
// rebuild from history.
type Ledger struct {
	mu       sync.Mutex
	valid    bool
	version  uint64
	balances map[string]model.Points
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Balance returns phone's balance for the order set at version, rebuilding
// from orders if the cache is stale.
func (l *Ledger) Balance(orders []model.Order, version uint64, phone string) model.Points {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sync(orders, version)
	return l.balances[phone]
}

// Snapshot returns a copy of every balance for the order set at version.
func (l *Ledger) Snapshot(orders []model.Order, version uint64) map[string]model.Points {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sync(orders, version)
	out := make(map[string]model.Points, len(l.balances))
	for k, v := range l.balances {
		out[k] = v
	}
	return out
}

// Record applies a newly appended order whose insertion moved the order set
// to version. If the cache was not at version-1 it is dropped instead.
func (l *Ledger) Record(o model.Order, version uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.valid || l.version+1 != version {
		l.valid = false
		return
	}
	apply(l.balances, o)
	l.version = version
}

// Invalidate forces the next read to rebuild.
func (l *Ledger) Invalidate() {
	l.mu.Lock()
	l.valid = false
	l.mu.Unlock()
}

func (l *Ledger) sync(orders []model.Order, version uint64) {
	if l.valid && l.version == version {
		return
	}
	l.balances = Balances(orders)
	l.version = version
	l.valid = true
}

func apply(balances map[string]model.Points, o model.Order) {
	if o.CustomerPhone == "" || o.IsCancelled() {
		return
	}
	balances[o.CustomerPhone] += o.LoyaltyPointsEarned - o.LoyaltyPointsRedeemed
}
