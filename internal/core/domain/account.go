package domain

import (
	"strings"
	"time"
)

// UnusablePasswordPrefix marks a password hash that can never be verified.
// Accounts created without a password carry one until an administrator
// sets a real password.
const UnusablePasswordPrefix = "!"

// Account models an authenticated identity. It is keyed by normalized email.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasUsablePassword reports whether the stored hash can ever match.
func (a *Account) HasUsablePassword() bool {
	return a.PasswordHash != "" && !strings.HasPrefix(a.PasswordHash, UnusablePasswordPrefix)
}

// NormalizeEmail trims surrounding whitespace and lowercases the address so
// that case variants of the same mailbox collide.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Token is the single bearer credential bound to an account.
type Token struct {
	Key       string    `json:"-"`
	Value     string    `json:"token"`
	AccountID int64     `json:"-"`
	CreatedAt time.Time `json:"-"`
}
