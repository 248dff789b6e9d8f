package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/store"
)

// BackupVersion tags exported documents.
const BackupVersion = "1.3.Enterprise"

// Backup is the export/import document. Export always writes every slice,
// empty ones as []. On import, absent (or null) slices are left untouched;
// present ones, empty included, replace the current data.
type Backup struct {
	Settings           *model.Settings           `json:"settings,omitempty"`
	Branches           []model.Branch            `json:"branches"`
	Orders             []model.Order             `json:"orders"`
	AccountingEntries  []model.AccountingEntry   `json:"accountingEntries"`
	Staff              []model.User              `json:"staff"`
	MenuItems          []model.MenuItem          `json:"menuItems"`
	StockItems         []model.StockItem         `json:"stockItems"`
	Categories         []model.Category          `json:"categories"`
	Addons             []model.AddOn             `json:"addons"`
	WithdrawalRequests []model.WithdrawalRequest `json:"withdrawalRequests"`
	ExportDate         string                    `json:"exportDate"`
	Version            string                    `json:"version"`
}

// Export snapshots the state. Every slice is copied under the lock so the
// caller can encode it while other operations keep running. Staff keep their
// password hashes so that a restore keeps logins working.
func (s *Service) Export(ctx context.Context) Backup {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.settingsLocked()
	return Backup{
		Settings:           &settings,
		Branches:           clone(s.state.Branches),
		Orders:             clone(s.state.Orders),
		AccountingEntries:  clone(s.state.Entries),
		Staff:              clone(s.state.Staff),
		MenuItems:          clone(s.state.MenuItems),
		StockItems:         clone(s.state.Stock),
		Categories:         clone(s.state.Categories),
		Addons:             clone(s.state.AddOns),
		WithdrawalRequests: clone(s.state.Requests),
		ExportDate:         s.now().Format(time.RFC3339),
		Version:            BackupVersion,
	}
}

// Import writes every slice present in b to the store, then reloads the
// whole state from the store. Plain-text staff passwords are hashed first.
func (s *Service) Import(ctx context.Context, b Backup, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	if b.Staff != nil {
		if _, err := hashPasswords(b.Staff); err != nil {
			return fmt.Errorf("hash staff passwords: %w", err)
		}
	}

	values := make(map[string][]byte)
	add := func(key string, present bool, v any) error {
		if !present {
			return nil
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		values[key] = raw
		return nil
	}
	for _, slice := range []struct {
		key     string
		present bool
		value   any
	}{
		{store.KeySettings, b.Settings != nil, b.Settings},
		{store.KeyBranches, b.Branches != nil, b.Branches},
		{store.KeyOrders, b.Orders != nil, b.Orders},
		{store.KeyEntries, b.AccountingEntries != nil, b.AccountingEntries},
		{store.KeyStaff, b.Staff != nil, b.Staff},
		{store.KeyMenuItems, b.MenuItems != nil, b.MenuItems},
		{store.KeyStock, b.StockItems != nil, b.StockItems},
		{store.KeyCategories, b.Categories != nil, b.Categories},
		{store.KeyAddOns, b.Addons != nil, b.Addons},
		{store.KeyRequests, b.WithdrawalRequests != nil, b.WithdrawalRequests},
	} {
		if err := add(slice.key, slice.present, slice.value); err != nil {
			return err
		}
	}
	if len(values) == 0 {
		return invalid("backup contains no data")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.PutAll(ctx, values); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return s.loadLocked(ctx)
}
