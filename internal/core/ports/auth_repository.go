package ports

import (
	"context"

	"github.com/99minutos/places-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// Create stores a new account and assigns its ID. It returns
	// domain.ErrAccountExists when the email is already registered.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
}

// TokenRepository stores the single bearer token of each account.
type TokenRepository interface {
	// Create stores a token. It returns domain.ErrTokenExists when the
	// account already holds one.
	Create(ctx context.Context, token *domain.Token) error
	FindByAccount(ctx context.Context, accountID int64) (*domain.Token, error)
	FindByKey(ctx context.Context, key string) (*domain.Token, error)
}
