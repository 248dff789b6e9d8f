package model

import (
	"github.com/rr-restro/pos/internal/enum"
	"github.com/shopspring/decimal"
)

// Built-in data used when a slice has never been persisted. Each function
// returns a fresh value so callers may mutate it.

func DefaultSettings() Settings {
	return Settings{
		AppName:         "RR Restro POS",
		CurrencySymbol:  "৳",
		CurrencyCode:    "TK",
		VATPercentage:   decimal.Zero,
		DefaultDiscount: decimal.Zero,
		PromoCodes: []PromoCode{
			{ID: "p1", Code: "FIRST10", Type: enum.DiscountTypePercent, Value: decimal.NewFromInt(10), MinOrderAmount: decimal.Zero},
			{ID: "p2", Code: "SAVETK50", Type: enum.DiscountTypeFixed, Value: decimal.NewFromInt(50), MinOrderAmount: decimal.NewFromInt(300)},
		},
	}
}

func DefaultBranches() []Branch {
	return []Branch{
		{ID: "b1", Name: "Main Branch - Dhaka", Type: enum.BranchTypeRestaurant, Address: "Banani, Block C", ProfitMargin: decimal.NewFromInt(40)},
		{ID: "b2", Name: "Cart #01 - Gulshan", Type: enum.BranchTypeFoodCart, Address: "Gulshan 2 Circle", ProfitMargin: decimal.NewFromInt(35)},
	}
}

func DefaultCategories() []Category {
	return []Category{
		{ID: "cat1", Name: "Burgers"},
		{ID: "cat2", Name: "Pizza"},
		{ID: "cat3", Name: "Beverages"},
		{ID: "cat4", Name: "Snacks"},
	}
}

func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{
			ID:          "m1",
			Name:        "Classic Beef Burger",
			Category:    "Burgers",
			Price:       decimal.NewFromInt(350),
			Image:       "https://picsum.photos/400/300?random=1",
			Description: "Juicy beef patty with special sauce.",
			Variants: []Variant{
				{ID: "v1", Name: "Regular", Price: decimal.Zero},
				{ID: "v2", Name: "Double Patty", Price: decimal.NewFromInt(150)},
			},
			AddOns:           []string{"a1", "a2"},
			AllowedBranchIDs: []string{"b1", "b2"},
		},
		{
			ID:          "m2",
			Name:        "Cheesy Margherita",
			Category:    "Pizza",
			Price:       decimal.NewFromInt(550),
			Image:       "https://picsum.photos/400/300?random=2",
			Description: "Fresh mozzarella and tomato sauce.",
			Variants: []Variant{
				{ID: "v3", Name: `Small (8")`, Price: decimal.Zero},
				{ID: "v4", Name: `Medium (12")`, Price: decimal.NewFromInt(200)},
			},
			AddOns:           []string{"a3"},
			AllowedBranchIDs: []string{"b1"},
		},
	}
}

func DefaultAddOns() []AddOn {
	return []AddOn{
		{ID: "a1", Name: "Extra Cheese", Price: decimal.NewFromInt(50)},
		{ID: "a2", Name: "Jalapenos", Price: decimal.NewFromInt(30)},
		{ID: "a3", Name: "Extra Sauce", Price: decimal.NewFromInt(20)},
	}
}

// DefaultStaff returns the bootstrap administrator. The password is plain
// text here and gets hashed when the state is loaded.
func DefaultStaff() []User {
	branchIDs := make([]string, 0, 2)
	for _, b := range DefaultBranches() {
		branchIDs = append(branchIDs, b.ID)
	}
	return []User{
		{
			ID:                "admin-1",
			Name:              "Super Admin",
			Role:              enum.UserRoleSuperAdmin,
			AssignedBranchIDs: branchIDs,
			Username:          "admin",
			Password:          "password",
			Permissions:       append([]string(nil), enum.Permissions...),
			Salary:            decimal.NewFromInt(50000),
			AdvanceLimit:      decimal.NewFromInt(10000),
			WalletBalance:     decimal.Zero,
		},
	}
}
