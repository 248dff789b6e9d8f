package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rr-restro/pos/internal/enum"
	"github.com/rr-restro/pos/internal/model"
)

type Claims struct {
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	BranchIDs   []string `json:"branch_ids"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission mirrors model.User.HasPermission for a token holder.
func (c *Claims) HasPermission(perm string) bool {
	if c.Role == enum.UserRoleSuperAdmin {
		return true
	}
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// CanAccessBranch reports whether the holder works at branchID. Super admins
// reach every branch, including the ALL pseudo-branch.
func (c *Claims) CanAccessBranch(branchID string) bool {
	if c.Role == enum.UserRoleSuperAdmin {
		return true
	}
	for _, b := range c.BranchIDs {
		if b == branchID {
			return true
		}
	}
	return false
}

func GenerateToken(secret string, u model.User) (string, error) {
	claims := Claims{
		UserID:      u.ID,
		Role:        u.Role,
		BranchIDs:   u.AssignedBranchIDs,
		Permissions: u.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateRefreshToken(secret, userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, keyFunc(secret))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ValidateRefreshToken returns the user id carried by a refresh token.
func ValidateRefreshToken(secret, tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, keyFunc(secret))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid refresh token")
	}
	return claims.Subject, nil
}

func keyFunc(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}
