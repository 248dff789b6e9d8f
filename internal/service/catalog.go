package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/pricing"
	"github.com/rr-restro/pos/internal/store"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// ── Settings ──

func (s *Service) Settings(ctx context.Context) model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settingsLocked()
}

// settingsLocked copies the settings with their own promo list. Caller
// holds s.mu.
func (s *Service) settingsLocked() model.Settings {
	out := s.state.Settings
	out.PromoCodes = clone(out.PromoCodes)
	return out
}

// UpdateSettings replaces the settings, promo codes included. Promo codes
// without an id get one.
func (s *Service) UpdateSettings(ctx context.Context, in model.Settings) (model.Settings, error) {
	if strings.TrimSpace(in.AppName) == "" {
		return model.Settings{}, invalid("app name is required")
	}
	if in.VATPercentage.IsNegative() {
		return model.Settings{}, pricing.ErrNegativeVAT
	}
	if in.DefaultDiscount.IsNegative() {
		return model.Settings{}, pricing.ErrNegativeDiscount
	}
	if in.PromoCodes == nil {
		in.PromoCodes = []model.PromoCode{}
	}
	for i := range in.PromoCodes {
		p, err := normalizePromo(in.PromoCodes[i])
		if err != nil {
			return model.Settings{}, err
		}
		for _, prev := range in.PromoCodes[:i] {
			if strings.EqualFold(prev.Code, p.Code) {
				return model.Settings{}, invalid("duplicate promo code %s", p.Code)
			}
		}
		in.PromoCodes[i] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Settings = in
	s.persist(ctx, store.KeySettings)
	return in, nil
}

// SavePromo adds a promo code, or updates the one with the same id.
func (s *Service) SavePromo(ctx context.Context, p model.PromoCode) (model.PromoCode, error) {
	p, err := normalizePromo(p)
	if err != nil {
		return model.PromoCode{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	promos := s.state.Settings.PromoCodes
	for _, other := range promos {
		if other.ID != p.ID && strings.EqualFold(other.Code, p.Code) {
			return model.PromoCode{}, invalid("duplicate promo code %s", p.Code)
		}
	}
	if _, i := find(promos, p.ID, promoKey); i >= 0 {
		promos[i] = p
	} else {
		promos = append(promos, p)
	}
	s.state.Settings.PromoCodes = promos
	s.persist(ctx, store.KeySettings)
	return p, nil
}

func (s *Service) DeletePromo(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i := find(s.state.Settings.PromoCodes, id, promoKey)
	if i < 0 {
		return fmt.Errorf("promo %s: %w", id, ErrNotFound)
	}
	s.state.Settings.PromoCodes = removeAt(s.state.Settings.PromoCodes, i)
	s.persist(ctx, store.KeySettings)
	return nil
}

func normalizePromo(p model.PromoCode) (model.PromoCode, error) {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if p.Code == "" {
		return p, invalid("promo code is required")
	}
	if !enum.IsDiscountType(p.Type) {
		return p, pricing.ErrInvalidDiscountType
	}
	if p.Value.IsNegative() || p.MinOrderAmount.IsNegative() {
		return p, invalid("promo amounts must be >= 0")
	}
	if p.ID == "" {
		p.ID = model.NewID(model.PrefixPromo)
	}
	return p, nil
}

// ── Branches ──

func (s *Service) Branches(ctx context.Context) []model.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Branch(nil), s.state.Branches...)
}

// Branch returns the branch with id.
func (s *Service) Branch(ctx context.Context, id string) (model.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, i := find(s.state.Branches, id, branchKey)
	if i < 0 {
		return model.Branch{}, fmt.Errorf("%w: %s", ErrUnknownBranch, id)
	}
	return b, nil
}

// SaveBranch creates the branch when its id is empty, otherwise updates it.
func (s *Service) SaveBranch(ctx context.Context, b model.Branch) (model.Branch, error) {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return model.Branch{}, invalid("branch name is required")
	}
	if b.Type == "" {
		b.Type = enum.BranchTypeRestaurant
	}
	if !enum.IsBranchType(b.Type) {
		return model.Branch{}, invalid("invalid branch type %s", b.Type)
	}
	if b.ProfitMargin.IsNegative() {
		return model.Branch{}, invalid("profit margin must be >= 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := save(s.state.Branches, b, branchKey, func(b *model.Branch) { b.ID = model.NewID(model.PrefixBranch) })
	if err != nil {
		return model.Branch{}, err
	}
	s.state.Branches = list.items
	s.persist(ctx, store.KeyBranches)
	return list.saved, nil
}

// DeleteBranch removes a branch. Orders and entries keep their reference and
// display a fallback name.
func (s *Service) DeleteBranch(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, i := find(s.state.Branches, id, branchKey)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownBranch, id)
	}
	s.state.Branches = removeAt(s.state.Branches, i)
	s.persist(ctx, store.KeyBranches)
	return nil
}

// ── Categories ──

func (s *Service) Categories(ctx context.Context) []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.state.Categories...)
}

// SaveCategory creates or renames a category. Renaming moves the menu items
// filed under the old name.
func (s *Service) SaveCategory(ctx context.Context, c model.Category) (model.Category, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return model.Category{}, invalid("category name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.state.Categories {
		if other.ID != c.ID && strings.EqualFold(other.Name, c.Name) {
			return model.Category{}, invalid("duplicate category %s", c.Name)
		}
	}

	keys := []string{store.KeyCategories}
	if old, i := find(s.state.Categories, c.ID, categoryKey); i >= 0 && old.Name != c.Name {
		for j := range s.state.MenuItems {
			if s.state.MenuItems[j].Category == old.Name {
				s.state.MenuItems[j].Category = c.Name
			}
		}
		keys = append(keys, store.KeyMenuItems)
	}

	list, err := save(s.state.Categories, c, categoryKey, func(c *model.Category) { c.ID = model.NewID(model.PrefixCategory) })
	if err != nil {
		return model.Category{}, err
	}
	s.state.Categories = list.items
	s.persist(ctx, keys...)
	return list.saved, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i := find(s.state.Categories, id, categoryKey)
	if i < 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	s.state.Categories = removeAt(s.state.Categories, i)
	s.persist(ctx, store.KeyCategories)
	return nil
}

// ── Menu items ──

func (s *Service) MenuItems(ctx context.Context) []model.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.MenuItem(nil), s.state.MenuItems...)
}

// Menu lists what a POS terminal at branchID may sell, at branch prices.
func (s *Service) Menu(ctx context.Context, branchID, category, search string) ([]model.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, i := find(s.state.Branches, branchID, branchKey); i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBranch, branchID)
	}
	catalog := pricing.Catalog{Items: s.state.MenuItems, AddOns: s.state.AddOns}
	return catalog.Menu(branchID, category, search), nil
}

func (s *Service) SaveMenuItem(ctx context.Context, m model.MenuItem) (model.MenuItem, error) {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return model.MenuItem{}, invalid("item name is required")
	}
	if strings.TrimSpace(m.Category) == "" {
		return model.MenuItem{}, invalid("category is required")
	}
	if m.Price.IsNegative() {
		return model.MenuItem{}, invalid("price must be >= 0")
	}
	for i := range m.Variants {
		v := &m.Variants[i]
		if strings.TrimSpace(v.Name) == "" || v.Price.IsNegative() {
			return model.MenuItem{}, invalid("variant needs a name and a price >= 0")
		}
		if v.ID == "" {
			v.ID = model.NewID(model.PrefixVariant)
		}
	}
	for _, bp := range m.BranchPrices {
		if bp.Price.IsNegative() {
			return model.MenuItem{}, invalid("branch price must be >= 0")
		}
	}
	if m.AllowedBranchIDs == nil {
		m.AllowedBranchIDs = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range m.AddOns {
		if _, i := find(s.state.AddOns, id, addOnKey); i < 0 {
			return model.MenuItem{}, fmt.Errorf("%w: %s", pricing.ErrAddOnNotFound, id)
		}
	}

	list, err := save(s.state.MenuItems, m, menuItemKey, func(m *model.MenuItem) { m.ID = model.NewID(model.PrefixMenuItem) })
	if err != nil {
		return model.MenuItem{}, err
	}
	s.state.MenuItems = list.items
	s.persist(ctx, store.KeyMenuItems)
	return list.saved, nil
}

func (s *Service) DeleteMenuItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i := find(s.state.MenuItems, id, menuItemKey)
	if i < 0 {
		return fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	s.state.MenuItems = removeAt(s.state.MenuItems, i)
	s.persist(ctx, store.KeyMenuItems)
	return nil
}

// ── Add-ons ──

func (s *Service) AddOns(ctx context.Context) []model.AddOn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.AddOn(nil), s.state.AddOns...)
}

func (s *Service) SaveAddOn(ctx context.Context, a model.AddOn) (model.AddOn, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return model.AddOn{}, invalid("add-on name is required")
	}
	if a.Price.IsNegative() {
		return model.AddOn{}, invalid("price must be >= 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := save(s.state.AddOns, a, addOnKey, func(a *model.AddOn) { a.ID = model.NewID(model.PrefixAddOn) })
	if err != nil {
		return model.AddOn{}, err
	}
	s.state.AddOns = list.items
	s.persist(ctx, store.KeyAddOns)
	return list.saved, nil
}

// DeleteAddOn removes the add-on and unlinks it from every menu item.
func (s *Service) DeleteAddOn(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i := find(s.state.AddOns, id, addOnKey)
	if i < 0 {
		return fmt.Errorf("add-on %s: %w", id, ErrNotFound)
	}
	s.state.AddOns = removeAt(s.state.AddOns, i)
	for j := range s.state.MenuItems {
		ids := s.state.MenuItems[j].AddOns
		kept := make([]string, 0, len(ids))
		for _, a := range ids {
			if a != id {
				kept = append(kept, a)
			}
		}
		s.state.MenuItems[j].AddOns = kept
	}
	s.persist(ctx, store.KeyAddOns, store.KeyMenuItems)
	return nil
}

// ── Inventory ──

// Stock lists raw materials; lowOnly keeps those at or below their minimum.
func (s *Service) Stock(ctx context.Context, lowOnly bool) []model.StockItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.StockItem, 0, len(s.state.Stock))
	for _, it := range s.state.Stock {
		if !lowOnly || it.Low() {
			out = append(out, it)
		}
	}
	return out
}

func (s *Service) SaveStockItem(ctx context.Context, it model.StockItem) (model.StockItem, error) {
	it.Name = strings.TrimSpace(it.Name)
	if it.Name == "" {
		return model.StockItem{}, invalid("stock item name is required")
	}
	if it.Stock.IsNegative() || it.Min.IsNegative() {
		return model.StockItem{}, invalid("stock levels must be >= 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := save(s.state.Stock, it, stockKey, func(it *model.StockItem) { it.ID = model.NewID(model.PrefixStock) })
	if err != nil {
		return model.StockItem{}, err
	}
	s.state.Stock = list.items
	s.persist(ctx, store.KeyStock)
	return list.saved, nil
}

func (s *Service) DeleteStockItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i := find(s.state.Stock, id, stockKey)
	if i < 0 {
		return fmt.Errorf("stock item %s: %w", id, ErrNotFound)
	}
	s.state.Stock = removeAt(s.state.Stock, i)
	s.persist(ctx, store.KeyStock)
	return nil
}

type saved[T any] struct {
	items []T
	saved T
}

// save appends v with a fresh id when its id is empty and replaces the
// existing record otherwise. Unknown ids are ErrNotFound.
func save[T any](list []T, v T, key func(T) string, assignID func(*T)) (saved[T], error) {
	if key(v) == "" {
		assignID(&v)
		return saved[T]{items: append(list, v), saved: v}, nil
	}
	_, i := find(list, key(v), key)
	if i < 0 {
		return saved[T]{}, fmt.Errorf("%s: %w", key(v), ErrNotFound)
	}
	list[i] = v
	return saved[T]{items: list, saved: v}, nil
}
