package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rr-restro/pos/internal/auth"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
	"github.com/rr-restro/pos/internal/store"
)

// Staff lists every user without password hashes.
func (s *Service) Staff(ctx context.Context) []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.User, len(s.state.Staff))
	for i, u := range s.state.Staff {
		out[i] = u.Public()
	}
	return out
}

func (s *Service) User(ctx context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, i := find(s.state.Staff, id, userKey)
	if i < 0 {
		return model.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u.Public(), nil
}

// SaveUser creates a user when the id is empty, otherwise updates it. An
// empty password on update keeps the current one.
func (s *Service) SaveUser(ctx context.Context, u model.User) (model.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Username = strings.TrimSpace(u.Username)
	if u.Name == "" || u.Username == "" {
		return model.User{}, invalid("name and username are required")
	}
	if !enum.IsRole(u.Role) {
		return model.User{}, invalid("invalid role %s", u.Role)
	}
	for _, p := range u.Permissions {
		if !enum.IsPermission(p) {
			return model.User{}, invalid("invalid permission %s", p)
		}
	}
	if u.Salary.IsNegative() || u.AdvanceLimit.IsNegative() {
		return model.User{}, invalid("salary and advance limit must be >= 0")
	}
	if u.ID == "" && u.Password == "" {
		return model.User{}, invalid("password is required")
	}
	if u.AssignedBranchIDs == nil {
		u.AssignedBranchIDs = []string{}
	}
	if u.Password != "" {
		h, err := auth.HashPassword(u.Password)
		if err != nil {
			return model.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.Password = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.state.Staff {
		if other.ID != u.ID && strings.EqualFold(other.Username, u.Username) {
			return model.User{}, invalid("username %s is taken", u.Username)
		}
	}
	if u.ID != "" {
		existing, i := find(s.state.Staff, u.ID, userKey)
		if i < 0 {
			return model.User{}, fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
		}
		if u.Password == "" {
			u.Password = existing.Password
		}
		if existing.Role == enum.UserRoleSuperAdmin && u.Role != enum.UserRoleSuperAdmin && s.superAdmins() == 1 {
			return model.User{}, invalid("cannot demote the last super admin")
		}
	}

	list, err := save(s.state.Staff, u, userKey, func(u *model.User) { u.ID = model.NewID(model.PrefixUser) })
	if err != nil {
		return model.User{}, err
	}
	s.state.Staff = list.items
	s.persist(ctx, store.KeyStaff)
	return list.saved.Public(), nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, i := find(s.state.Staff, id, userKey)
	if i < 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if u.Role == enum.UserRoleSuperAdmin && s.superAdmins() == 1 {
		return invalid("cannot delete the last super admin")
	}
	s.state.Staff = removeAt(s.state.Staff, i)
	s.persist(ctx, store.KeyStaff)
	return nil
}

// Login checks credentials and records the user as the current session.
func (s *Service) Login(ctx context.Context, username, password string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.TrimSpace(username)
	for _, u := range s.state.Staff {
		if !strings.EqualFold(u.Username, username) {
			continue
		}
		if u.Password == "" || !auth.CheckPassword(u.Password, password) {
			return model.User{}, ErrInvalidCredentials
		}
		s.setCurrent(ctx, u)
		return u.Public(), nil
	}
	return model.User{}, ErrInvalidCredentials
}

// Impersonate switches the current session to another staff member.
func (s *Service) Impersonate(ctx context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, i := find(s.state.Staff, id, userKey)
	if i < 0 {
		return model.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	s.setCurrent(ctx, u)
	return u.Public(), nil
}

// CurrentUser is the last user to sign in, if any.
func (s *Service) CurrentUser(ctx context.Context) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.CurrentUser == nil {
		return model.User{}, false
	}
	return *s.state.CurrentUser, true
}

func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CurrentUser = nil
	s.persist(ctx, store.KeyCurrentUser)
}

// setCurrent stores u without its hash. Caller holds s.mu.
func (s *Service) setCurrent(ctx context.Context, u model.User) {
	pub := u.Public()
	s.state.CurrentUser = &pub
	s.persist(ctx, store.KeyCurrentUser)
}

// superAdmins counts SUPER_ADMIN users. Caller holds s.mu.
func (s *Service) superAdmins() int {
	n := 0
	for _, u := range s.state.Staff {
		if u.Role == enum.UserRoleSuperAdmin {
			n++
		}
	}
	return n
}
