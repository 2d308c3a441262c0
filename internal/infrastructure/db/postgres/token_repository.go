package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/99minutos/places-api/internal/core/domain"
)

type TokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

type tokenRow struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	AccountID int64     `db:"account_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Create inserts the token. Both the key primary key and the unique
// account_id constraint surface as domain.ErrTokenExists.
func (r *TokenRepository) Create(ctx context.Context, token *domain.Token) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (key, value, account_id, created_at) VALUES ($1, $2, $3, $4)`,
		token.Key, token.Value, token.AccountID, token.CreatedAt.UTC(),
	)
	if err != nil {
		if isPQCode(err, codeUniqueViolation) {
			return domain.ErrTokenExists
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindByAccount(ctx context.Context, accountID int64) (*domain.Token, error) {
	return r.findOne(ctx, "account_id = $1", accountID)
}

func (r *TokenRepository) FindByKey(ctx context.Context, key string) (*domain.Token, error) {
	return r.findOne(ctx, "key = $1", key)
}

func (r *TokenRepository) findOne(ctx context.Context, where string, arg any) (*domain.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row tokenRow
	err := r.db.GetContext(ctx, &row, `SELECT key, value, account_id, created_at FROM auth_tokens WHERE `+where, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &domain.Token{
		Key:       row.Key,
		Value:     row.Value,
		AccountID: row.AccountID,
		CreatedAt: row.CreatedAt.UTC(),
	}, nil
}
