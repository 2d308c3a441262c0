package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
)

// AccountService implements signup and credential verification.
type AccountService struct {
	repo   ports.AccountRepository
	cost   int
	logger zerolog.Logger
}

// NewAccountService returns an AccountService hashing with bcrypt.DefaultCost.
func NewAccountService(repo ports.AccountRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, cost: bcrypt.DefaultCost, logger: logger}
}

// CreateAccount normalizes the email, hashes the password and stores the
// account. An empty password produces an unusable hash.
func (s *AccountService) CreateAccount(ctx context.Context, input ports.CreateAccountInput) (*domain.Account, error) {
	created, err := s.create(ctx, input, false)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("account_id", created.ID).Msg("account created")
	return created, nil
}

// CreateSuperuser creates an account through the same path as CreateAccount
// with the staff and superuser flags set.
func (s *AccountService) CreateSuperuser(ctx context.Context, email, password string) (*domain.Account, error) {
	created, err := s.create(ctx, ports.CreateAccountInput{Email: email, Password: password}, true)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("account_id", created.ID).Msg("superuser created")
	return created, nil
}

func (s *AccountService) create(ctx context.Context, input ports.CreateAccountInput, superuser bool) (*domain.Account, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" {
		return nil, domain.NewValidationError("email", "Users must have a valid email address.")
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	account := &domain.Account{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if superuser {
		account.IsStaff = true
		account.IsSuperuser = true
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, domain.NewValidationError("email", "user with this email already exists.")
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

// VerifyCredentials returns (nil, nil) for any mismatch so callers cannot
// distinguish an unknown email from a wrong password.
func (s *AccountService) VerifyCredentials(ctx context.Context, email, password string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if !account.IsActive || !account.HasUsablePassword() {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return account, nil
}

func (s *AccountService) hashPassword(password string) (string, error) {
	if password == "" {
		return unusablePassword()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func unusablePassword() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return domain.UnusablePasswordPrefix + hex.EncodeToString(b), nil
}
