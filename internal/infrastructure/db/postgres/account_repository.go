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

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

type accountRow struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	IsActive     bool      `db:"is_active"`
	IsStaff      bool      `db:"is_staff"`
	IsSuperuser  bool      `db:"is_superuser"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r accountRow) toDomain() *domain.Account {
	return &domain.Account{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		IsStaff:      r.IsStaff,
		IsSuperuser:  r.IsSuperuser,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

const accountColumns = `id, email, name, password_hash, is_active, is_staff, is_superuser, created_at`

// Create inserts the account. The unique email constraint turns a duplicate
// into domain.ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := accountRow{
		Email:        account.Email,
		Name:         account.Name,
		PasswordHash: account.PasswordHash,
		IsActive:     account.IsActive,
		IsStaff:      account.IsStaff,
		IsSuperuser:  account.IsSuperuser,
		CreatedAt:    account.CreatedAt.UTC(),
	}

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO accounts (email, name, password_hash, is_active, is_staff, is_superuser, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		row.Email, row.Name, row.PasswordHash, row.IsActive, row.IsStaff, row.IsSuperuser, row.CreatedAt,
	).Scan(&row.ID)
	if err != nil {
		if isPQCode(err, codeUniqueViolation) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return row.toDomain(), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *AccountRepository) findOne(ctx context.Context, where string, args ...any) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row accountRow
	err := r.db.GetContext(ctx, &row, `SELECT `+accountColumns+` FROM accounts WHERE `+where, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return row.toDomain(), nil
}
