package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rr-restro/pos/internal/model"
)

var (
	ErrItemNotFound    = errors.New("menu item not found")
	ErrItemNotSold     = errors.New("menu item is not sold at this branch")
	ErrVariantNotFound = errors.New("variant not found")
	ErrAddOnNotFound   = errors.New("add-on not found")
	ErrAddOnNotOffered = errors.New("add-on is not offered for this item")
	ErrDuplicateAddOn  = errors.New("add-on selected more than once")
)

// LineRequest selects a menu item for the cart.
type LineRequest struct {
	MenuItemID string
	VariantID  string
	Quantity   int
	AddOnIDs   []string
}

// Catalog resolves cart lines against the current menu.
type Catalog struct {
	Items  []model.MenuItem
	AddOns []model.AddOn
}

// Line builds an order line priced for the given branch: the branch override
// (or base price) plus the variant price, with add-ons at branch price.
func (c Catalog) Line(branchID string, req LineRequest) (model.OrderItem, error) {
	if req.Quantity <= 0 {
		return model.OrderItem{}, ErrInvalidQuantity
	}

	item, ok := c.item(req.MenuItemID)
	if !ok {
		return model.OrderItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, req.MenuItemID)
	}
	if !item.SoldAt(branchID) {
		return model.OrderItem{}, fmt.Errorf("%w: %s", ErrItemNotSold, item.Name)
	}

	line := model.OrderItem{
		ID:         model.NewID(model.PrefixLine),
		MenuItemID: item.ID,
		Name:       item.Name,
		Quantity:   req.Quantity,
		UnitPrice:  item.PriceAt(branchID),
		AddOns:     []model.AddOn{},
	}

	if req.VariantID != "" {
		v, ok := item.FindVariant(req.VariantID)
		if !ok {
			return model.OrderItem{}, fmt.Errorf("%w: %s", ErrVariantNotFound, req.VariantID)
		}
		line.Variant = &v
		line.UnitPrice = line.UnitPrice.Add(v.Price)
	}

	seen := make(map[string]bool, len(req.AddOnIDs))
	for _, id := range req.AddOnIDs {
		if seen[id] {
			return model.OrderItem{}, fmt.Errorf("%w: %s", ErrDuplicateAddOn, id)
		}
		seen[id] = true

		if !item.OffersAddOn(id) {
			return model.OrderItem{}, fmt.Errorf("%w: %s", ErrAddOnNotOffered, id)
		}
		a, ok := c.addOn(id)
		if !ok {
			return model.OrderItem{}, fmt.Errorf("%w: %s", ErrAddOnNotFound, id)
		}
		line.AddOns = append(line.AddOns, model.AddOn{ID: a.ID, Name: a.Name, Price: a.PriceAt(branchID)})
	}

	return line, nil
}

// Menu lists items sold at the branch, optionally narrowed by category and a
// case-insensitive name search. Items keep their branch price.
func (c Catalog) Menu(branchID, category, search string) []model.MenuItem {
	out := make([]model.MenuItem, 0, len(c.Items))
	for _, it := range c.Items {
		if !it.SoldAt(branchID) {
			continue
		}
		if category != "" && category != "All" && it.Category != category {
			continue
		}
		if search != "" && !containsFold(it.Name, search) {
			continue
		}
		it.Price = it.PriceAt(branchID)
		out = append(out, it)
	}
	return out
}

func (c Catalog) item(id string) (model.MenuItem, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return model.MenuItem{}, false
}

func (c Catalog) addOn(id string) (model.AddOn, bool) {
	for _, a := range c.AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return model.AddOn{}, false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
