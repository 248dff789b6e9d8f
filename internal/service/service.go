// Package service owns the application state. Every operation runs under one
// lock, mutates the in-memory state, then mirrors the touched slices to the
// store and announces the change on the event publisher.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rr-restro/pos/internal/auth"
	"github.com/rr-restro/pos/internal/events"
	"github.com/rr-restro/pos/internal/loyalty"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/store"
)

// maxNotifications caps the notification feed; older entries fall off.
const maxNotifications = 50

// Errors returned by the service.
var (
	ErrNotFound             = errors.New("not found")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrInvalidInput         = errors.New("invalid input")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrUnknownBranch        = errors.New("branch not found")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPayment       = errors.New("invalid payment method")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)

// State is the whole application state. Orders, entries, requests and
// notifications are kept newest first.
type State struct {
	Settings      model.Settings
	Branches      []model.Branch
	Orders        []model.Order
	Requests      []model.WithdrawalRequest
	Entries       []model.AccountingEntry
	Staff         []model.User
	Categories    []model.Category
	MenuItems     []model.MenuItem
	AddOns        []model.AddOn
	Stock         []model.StockItem
	Notifications []model.Notification
	CurrentUser   *model.User
}

// Service handles all POS business logic.
type Service struct {
	mu     sync.Mutex
	state  State
	store  store.Store
	events events.Publisher
	clock  func() time.Time
	loc    *time.Location

	// version counts changes to state.Orders; the loyalty ledger is keyed on it.
	version uint64
	ledger  *loyalty.Ledger
}

type Option func(*Service)

// WithPublisher sets where domain events go. The default drops them.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithClock replaces time.Now, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLocation sets the time zone used for calendar filters, the salary
// month and receipts.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// New creates a Service over st. Call Load before serving requests.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		events: events.Nop{},
		clock:  time.Now,
		loc:    time.Local,
		ledger: loyalty.NewLedger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location is the configured business time zone.
func (s *Service) Location() *time.Location { return s.loc }

// Load reads every slice from the store. Missing slices take their built-in
// default; unreadable ones are logged and defaulted as well.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) error {
	var st State
	st.Settings = loadValue(ctx, s.store, store.KeySettings, model.DefaultSettings)
	st.Branches = loadValue(ctx, s.store, store.KeyBranches, model.DefaultBranches)
	st.Orders = loadValue(ctx, s.store, store.KeyOrders, empty[model.Order])
	st.Requests = loadValue(ctx, s.store, store.KeyRequests, empty[model.WithdrawalRequest])
	st.Entries = loadValue(ctx, s.store, store.KeyEntries, empty[model.AccountingEntry])
	st.Staff = loadValue(ctx, s.store, store.KeyStaff, model.DefaultStaff)
	st.Categories = loadValue(ctx, s.store, store.KeyCategories, model.DefaultCategories)
	st.MenuItems = loadValue(ctx, s.store, store.KeyMenuItems, model.DefaultMenuItems)
	st.AddOns = loadValue(ctx, s.store, store.KeyAddOns, model.DefaultAddOns)
	st.Stock = loadValue(ctx, s.store, store.KeyStock, empty[model.StockItem])
	st.Notifications = loadValue(ctx, s.store, store.KeyNotifications, empty[model.Notification])
	st.CurrentUser = loadValue(ctx, s.store, store.KeyCurrentUser, func() *model.User { return nil })

	hashed, err := hashPasswords(st.Staff)
	if err != nil {
		return fmt.Errorf("hash staff passwords: %w", err)
	}

	s.state = st
	s.version++
	s.ledger.Invalidate()

	if hashed {
		s.persist(ctx, store.KeyStaff)
	}
	return nil
}

// loadValue decodes key over a fresh default so fields absent from older
// snapshots keep their default.
func loadValue[T any](ctx context.Context, st store.Store, key string, def func() T) T {
	raw, err := st.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return def()
	}
	if err != nil {
		log.Printf("WARN: load %s: %v; using defaults", key, err)
		return def()
	}
	v := def()
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Printf("WARN: decode %s: %v; using defaults", key, err)
		return def()
	}
	return v
}

func empty[T any]() []T { return []T{} }

// hashPasswords replaces plain-text passwords with bcrypt hashes in place.
func hashPasswords(staff []model.User) (bool, error) {
	changed := false
	for i := range staff {
		if staff[i].Password == "" || auth.IsHashed(staff[i].Password) {
			continue
		}
		h, err := auth.HashPassword(staff[i].Password)
		if err != nil {
			return false, err
		}
		staff[i].Password = h
		changed = true
	}
	return changed, nil
}

// slice returns the value persisted under key. Caller holds s.mu.
func (s *Service) slice(key string) any {
	switch key {
	case store.KeySettings:
		return s.state.Settings
	case store.KeyBranches:
		return s.state.Branches
	case store.KeyOrders:
		return s.state.Orders
	case store.KeyRequests:
		return s.state.Requests
	case store.KeyEntries:
		return s.state.Entries
	case store.KeyStaff:
		return s.state.Staff
	case store.KeyCategories:
		return s.state.Categories
	case store.KeyMenuItems:
		return s.state.MenuItems
	case store.KeyAddOns:
		return s.state.AddOns
	case store.KeyStock:
		return s.state.Stock
	case store.KeyNotifications:
		return s.state.Notifications
	case store.KeyCurrentUser:
		return s.state.CurrentUser
	}
	return nil
}

// persist mirrors the given slices to the store. Failures are logged; the
// in-memory state stays authoritative. Caller holds s.mu.
func (s *Service) persist(ctx context.Context, keys ...string) {
	ctx = context.WithoutCancel(ctx)

	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		b, err := json.Marshal(s.slice(key))
		if err != nil {
			log.Printf("ERROR: encode %s: %v", key, err)
			continue
		}
		values[key] = b
	}
	if len(values) == 0 {
		return
	}
	if err := s.store.PutAll(ctx, values); err != nil {
		log.Printf("ERROR: persist %v: %v", keys, err)
	}
}

func (s *Service) publish(ctx context.Context, typ, branchID string, data any) {
	e := events.Event{Type: typ, BranchID: branchID, At: model.At(s.now()), Data: data}
	if err := s.events.Publish(context.WithoutCancel(ctx), e); err != nil {
		log.Printf("WARN: publish %s: %v", typ, err)
	}
}

// notify prepends a notification. Caller holds s.mu, persists
// store.KeyNotifications and publishes the returned value.
func (s *Service) notify(title, message, typ string) model.Notification {
	n := model.Notification{
		ID:        model.NewID(model.PrefixNotification),
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: model.At(s.now()),
	}
	list := append([]model.Notification{n}, s.state.Notifications...)
	if len(list) > maxNotifications {
		list = list[:maxNotifications]
	}
	s.state.Notifications = list
	return n
}

// ordersChanged invalidates cached balances after a non-append change.
func (s *Service) ordersChanged() {
	s.version++
}

func (s *Service) now() time.Time {
	return s.clock().In(s.loc)
}

func find[T any](list []T, id string, key func(T) string) (T, int) {
	for i, v := range list {
		if key(v) == id {
			return v, i
		}
	}
	var zero T
	return zero, -1
}

func removeAt[T any](list []T, i int) []T {
	return append(list[:i:i], list[i+1:]...)
}

// clone copies list into a fresh, never nil, slice.
func clone[T any](list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	return out
}

func branchKey(b model.Branch) string             { return b.ID }
func orderKey(o model.Order) string               { return o.ID }
func entryKey(e model.AccountingEntry) string     { return e.ID }
func requestKey(r model.WithdrawalRequest) string { return r.ID }
func userKey(u model.User) string                 { return u.ID }
func categoryKey(c model.Category) string         { return c.ID }
func menuItemKey(m model.MenuItem) string         { return m.ID }
func addOnKey(a model.AddOn) string               { return a.ID }
func stockKey(st model.StockItem) string          { return st.ID }
func promoKey(p model.PromoCode) string           { return p.ID }
