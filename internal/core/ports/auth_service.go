package ports

import (
	"context"

	"github.com/99minutos/places-api/internal/core/domain"
)

// CreateAccountInput carries signup data.
type CreateAccountInput struct {
	Email    string
	Password string
	Name     string
}

type AccountService interface {
	CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	CreateSuperuser(ctx context.Context, email, password string) (*domain.Account, error)
	// VerifyCredentials returns the account only when the email exists, the
	// account is active and the password matches. Otherwise it returns nil.
	VerifyCredentials(ctx context.Context, email, password string) (*domain.Account, error)
}

type TokenService interface {
	IssueToken(ctx context.Context, email, password string) (*domain.Token, error)
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
}
