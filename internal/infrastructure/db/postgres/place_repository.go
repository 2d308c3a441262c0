package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/99minutos/places-api/internal/core/domain"
)

// PlaceRepository stores places in one table and their relations in two join
// tables. Writes touching a place and its relations run in one transaction.
type PlaceRepository struct {
	db *sqlx.DB
}

func NewPlaceRepository(db *sqlx.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

type placeRow struct {
	ID         int64         `db:"id"`
	Name       string        `db:"name"`
	OwnerID    int64         `db:"owner_id"`
	CreatedAt  time.Time     `db:"created_at"`
	CountryIDs pq.Int64Array `db:"country_ids"`
	StateIDs   pq.Int64Array `db:"state_ids"`
}

func (r placeRow) toDomain() *domain.Place {
	return &domain.Place{
		ID:         r.ID,
		Name:       r.Name,
		OwnerID:    r.OwnerID,
		CountryIDs: nonNil(r.CountryIDs),
		StateIDs:   nonNil(r.StateIDs),
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

const selectPlaces = `
	SELECT p.id, p.name, p.owner_id, p.created_at,
		ARRAY(SELECT country_id FROM place_countries WHERE place_id = p.id ORDER BY country_id) AS country_ids,
		ARRAY(SELECT state_id FROM place_states WHERE place_id = p.id ORDER BY state_id) AS state_ids
	FROM places p
	WHERE `

// relation describes one join table of a place.
type relation struct {
	table  string
	column string
	field  string
}

var (
	placeCountries = relation{table: "place_countries", column: "country_id", field: "country"}
	placeStates    = relation{table: "place_states", column: "state_id", field: "state"}
)

// List returns the owner's places, newest first.
func (r *PlaceRepository) List(ctx context.Context, ownerID int64) ([]*domain.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := scopedTo(ownerID, "")

	var rows []placeRow
	if err := r.db.SelectContext(ctx, &rows, selectPlaces+where+` ORDER BY p.id DESC`, args...); err != nil {
		return nil, fmt.Errorf("find places: %w", err)
	}

	places := make([]*domain.Place, len(rows))
	for i, row := range rows {
		places[i] = row.toDomain()
	}
	return places, nil
}

// Create inserts the place with its relations and assigns its id.
func (r *PlaceRepository) Create(ctx context.Context, place *domain.Place) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		var id int64
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO places (name, owner_id, created_at) VALUES ($1, $2, $3) RETURNING id`,
			place.Name, place.OwnerID, place.CreatedAt.UTC(),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert place: %w", err)
		}

		if err := replaceRelation(ctx, tx, placeCountries, id, place.CountryIDs, false); err != nil {
			return err
		}
		if err := replaceRelation(ctx, tx, placeStates, id, place.StateIDs, false); err != nil {
			return err
		}
		place.ID = id
		return nil
	})
}

func (r *PlaceRepository) FindByID(ctx context.Context, ownerID, id int64) (*domain.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where, args := scopedTo(ownerID, "id = $1", id)

	var row placeRow
	if err := r.db.GetContext(ctx, &row, selectPlaces+where, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find place: %w", err)
	}
	return row.toDomain(), nil
}

// Update overwrites name and both relation sets in one transaction.
func (r *PlaceRepository) Update(ctx context.Context, place *domain.Place) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		where, args := scopedTo(place.OwnerID, "id = $2", place.Name, place.ID)

		res, err := tx.ExecContext(ctx, `UPDATE places SET name = $1 WHERE `+where, args...)
		if err != nil {
			return fmt.Errorf("update place: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update place: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}

		if err := replaceRelation(ctx, tx, placeCountries, place.ID, place.CountryIDs, true); err != nil {
			return err
		}
		return replaceRelation(ctx, tx, placeStates, place.ID, place.StateIDs, true)
	})
}

func (r *PlaceRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// replaceRelation sets the membership of placeID in rel to exactly ids.
// Existing rows are cleared first when clear is set.
func replaceRelation(ctx context.Context, tx *sqlx.Tx, rel relation, placeID int64, ids []int64, clear bool) error {
	if clear {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+rel.table+` WHERE place_id = $1`, placeID); err != nil {
			return fmt.Errorf("clear %s: %w", rel.table, err)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO `+rel.table+` (place_id, `+rel.column+`) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
		placeID, pq.Array(ids),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == codeForeignKeyViolation {
			return domain.NewValidationError(rel.field, missingKeyMessage(pqErr.Detail))
		}
		return fmt.Errorf("insert %s: %w", rel.table, err)
	}
	return nil
}

// fkDetail matches the key in `Key (country_id)=(99) is not present ...`.
var fkDetail = regexp.MustCompile(`\)=\(([^)]*)\)`)

// missingKeyMessage names the offending id when postgres reports it.
func missingKeyMessage(detail string) string {
	if m := fkDetail.FindStringSubmatch(detail); m != nil {
		return fmt.Sprintf("Invalid pk %q - object does not exist.", m[1])
	}
	return "Invalid pk - object does not exist."
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
