package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
)

const tokenKeyBytes = 20

// CredentialVerifier abstracts the account lookup used at token issuance.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, email, password string) (*domain.Account, error)
}

// TokenService issues the per-account bearer token and authenticates it.
type TokenService struct {
	verifier CredentialVerifier
	accounts ports.AccountRepository
	tokens   ports.TokenRepository
	cache    ports.TokenCache
	secret   []byte
	log      zerolog.Logger
}

// NewTokenService returns a TokenService. A nil cache disables caching.
func NewTokenService(
	verifier CredentialVerifier,
	accounts ports.AccountRepository,
	tokens ports.TokenRepository,
	cache ports.TokenCache,
	jwtSecret string,
	log zerolog.Logger,
) *TokenService {
	if cache == nil {
		cache = nopTokenCache{}
	}
	return &TokenService{
		verifier: verifier,
		accounts: accounts,
		tokens:   tokens,
		cache:    cache,
		secret:   []byte(jwtSecret),
		log:      log,
	}
}

// IssueToken verifies the credentials and returns the account's token,
// creating it on first issue. Repeated calls return the same token.
func (s *TokenService) IssueToken(ctx context.Context, email, password string) (*domain.Token, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.verifier.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if account == nil {
		return nil, domain.ErrInvalidCredentials
	}

	existing, err := s.tokens.FindByAccount(ctx, account.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	token, err := s.newToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		if errors.Is(err, domain.ErrTokenExists) {
			// A concurrent issue won; hand back the stored token.
			return s.tokens.FindByAccount(ctx, account.ID)
		}
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Int64("account_id", account.ID).Msg("token issued")
	return token, nil
}

// Authenticate resolves a bearer token to its active account. Every failure
// other than a storage error is reported as domain.ErrUnauthenticated.
func (s *TokenService) Authenticate(ctx context.Context, raw string) (*domain.Account, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}

	key, _ := claims["jti"].(string)
	sub, _ := claims.GetSubject()
	subID, err := strconv.ParseInt(sub, 10, 64)
	if key == "" || err != nil {
		return nil, domain.ErrUnauthenticated
	}

	accountID, err := s.lookupKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if accountID != subID {
		return nil, domain.ErrUnauthenticated
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !account.IsActive {
		return nil, domain.ErrUnauthenticated
	}
	return account, nil
}

func (s *TokenService) lookupKey(ctx context.Context, key string) (int64, error) {
	id, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("token cache read failed, falling back to store")
	} else if ok {
		return id, nil
	}

	token, err := s.tokens.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrUnauthenticated
		}
		return 0, fmt.Errorf("authenticate: %w", err)
	}

	if err := s.cache.Set(ctx, key, token.AccountID); err != nil {
		s.log.Warn().Err(err).Msg("token cache write failed")
	}
	return token.AccountID, nil
}

func (s *TokenService) newToken(accountID int64) (*domain.Token, error) {
	b := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	key := hex.EncodeToString(b)
	now := time.Now().UTC()

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(accountID, 10),
		"jti": key,
		"iat": now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &domain.Token{
		Key:       key,
		Value:     signed,
		AccountID: accountID,
		CreatedAt: now,
	}, nil
}

type nopTokenCache struct{}

func (nopTokenCache) Get(context.Context, string) (int64, bool, error) { return 0, false, nil }
func (nopTokenCache) Set(context.Context, string, int64) error        { return nil }
