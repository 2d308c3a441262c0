package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/99minutos/places-api/internal/core/domain"
)

// ReferenceRepository stores one reference kind in its own table.
type ReferenceRepository struct {
	db    *sqlx.DB
	kind  domain.ReferenceKind
	table string
}

// NewReferenceRepository returns the repository for kind.
func NewReferenceRepository(db *sqlx.DB, kind domain.ReferenceKind) *ReferenceRepository {
	table := "countries"
	if kind == domain.KindState {
		table = "states"
	}
	return &ReferenceRepository{db: db, kind: kind, table: table}
}

type referenceRow struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	OwnerID int64  `db:"owner_id"`
}

// List returns the owner's rows ordered by name descending, ties by id
// descending.
func (r *ReferenceRepository) List(ctx context.Context, ownerID int64) ([]domain.Reference, error) {
	where, args := scopedTo(ownerID, "")
	return r.find(ctx, `SELECT id, name, owner_id FROM `+r.table+` WHERE `+where+` ORDER BY name DESC, id DESC`, args...)
}

func (r *ReferenceRepository) Create(ctx context.Context, ref *domain.Reference) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO `+r.table+` (name, owner_id) VALUES ($1, $2) RETURNING id`,
		ref.Name, ref.OwnerID,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.kind, err)
	}
	ref.ID = id
	ref.Kind = r.kind
	return nil
}

// FindByIDs resolves ids across every owner, ordered by id.
func (r *ReferenceRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Reference, error) {
	if len(ids) == 0 {
		return []domain.Reference{}, nil
	}
	return r.find(ctx, `SELECT id, name, owner_id FROM `+r.table+` WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
}

func (r *ReferenceRepository) find(ctx context.Context, query string, args ...any) ([]domain.Reference, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []referenceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find %s: %w", r.kind, err)
	}

	refs := make([]domain.Reference, len(rows))
	for i, row := range rows {
		refs[i] = domain.Reference{ID: row.ID, Kind: r.kind, Name: row.Name, OwnerID: row.OwnerID}
	}
	return refs, nil
}
