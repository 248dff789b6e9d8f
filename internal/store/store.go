// Package store persists application state as one JSON document per named
// slice. Backends: a directory of files, or a PostgreSQL key/value table.
package store

import (
	"context"
	"errors"
)

// Slice keys. These names are shared with exported backups of older
// installations and must not change.
const (
	KeySettings      = "app-settings"
	KeyBranches      = "app-branches"
	KeyOrders        = "orders-list"
	KeyRequests      = "withdrawal-requests"
	KeyEntries       = "accounting-records"
	KeyStaff         = "staff-list"
	KeyCategories    = "app-categories"
	KeyMenuItems     = "menu-items"
	KeyAddOns        = "app-addons"
	KeyStock         = "inventory-stock"
	KeyNotifications = "app-notifications"
	KeyCurrentUser   = "current-user"
)

// Keys lists every slice key in load order.
var Keys = []string{
	KeySettings, KeyBranches, KeyOrders, KeyRequests, KeyEntries, KeyStaff,
	KeyCategories, KeyMenuItems, KeyAddOns, KeyStock, KeyNotifications, KeyCurrentUser,
}

var (
	ErrNotFound   = errors.New("store: key not found")
	ErrInvalidKey = errors.New("store: invalid key")
)

// Store reads and writes raw JSON documents by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutAll writes several keys. Backends that support it apply the
	// writes atomically.
	PutAll(ctx context.Context, values map[string][]byte) error
}

func validKey(key string) bool {
	if key == "" || len(key) > 64 {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
