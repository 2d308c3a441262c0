package postgres

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/99minutos/places-api/internal/core/domain"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestScopedTo(t *testing.T) {
	where, args := scopedTo(9, "")
	if where != "owner_id = $1" || !reflect.DeepEqual(args, []any{int64(9)}) {
		t.Fatalf("unexpected empty scope: %q %v", where, args)
	}

	where, args = scopedTo(9, "id = $1", int64(4))
	if where != "(id = $1) AND owner_id = $2" {
		t.Fatalf("unexpected where: %q", where)
	}
	if !reflect.DeepEqual(args, []any{int64(4), int64(9)}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestAccountRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("INSERT INTO accounts").WillReturnError(&pq.Error{Code: codeUniqueViolation})

	_, err := NewAccountRepository(db).Create(context.Background(), &domain.Account{Email: "a@b.com"})
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestAccountRepositoryCreateAssignsID(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs("a@b.com", "Ana", "hash", true, false, false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	got, err := NewAccountRepository(db).Create(context.Background(), &domain.Account{
		Email: "a@b.com", Name: "Ana", PasswordHash: "hash", IsActive: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ID != 12 || got.Email != "a@b.com" {
		t.Fatalf("unexpected account: %+v", got)
	}
	expectationsMet(t, mock)
}

func TestAccountRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM accounts WHERE email = \\$1").
		WithArgs("missing@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := NewAccountRepository(db).FindByEmail(context.Background(), "missing@b.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestTokenRepositoryCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO auth_tokens").WillReturnError(&pq.Error{Code: codeUniqueViolation})

	err := NewTokenRepository(db).Create(context.Background(), &domain.Token{Key: "k", AccountID: 1})
	if !errors.Is(err, domain.ErrTokenExists) {
		t.Fatalf("expected ErrTokenExists, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestReferenceRepositoryListScopesAndOrders(t *testing.T) {
	db, mock := newMock(t)
	query := regexp.QuoteMeta(`SELECT id, name, owner_id FROM states WHERE owner_id = $1 ORDER BY name DESC, id DESC`)
	mock.ExpectQuery(query).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_id"}).
			AddRow(2, "Oyo", 3).
			AddRow(1, "Lagos", 3))

	refs, err := NewReferenceRepository(db, domain.KindState).List(context.Background(), 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(refs) != 2 || refs[0].Name != "Oyo" || refs[0].Kind != domain.KindState {
		t.Fatalf("unexpected refs: %+v", refs)
	}
	expectationsMet(t, mock)
}

func TestReferenceRepositoryFindByIDsEmpty(t *testing.T) {
	db, mock := newMock(t)

	refs, err := NewReferenceRepository(db, domain.KindCountry).FindByIDs(context.Background(), nil)
	if err != nil || len(refs) != 0 {
		t.Fatalf("expected no refs, got %v %v", refs, err)
	}
	expectationsMet(t, mock)
}

func TestPlaceRepositoryCreateWritesRelationsInTransaction(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO places").
		WithArgs("Ipaja", int64(1), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("INSERT INTO place_countries").
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	place := &domain.Place{Name: "Ipaja", OwnerID: 1, CountryIDs: []int64{1, 2}, CreatedAt: time.Now()}
	if err := NewPlaceRepository(db).Create(context.Background(), place); err != nil {
		t.Fatalf("create: %v", err)
	}
	if place.ID != 7 {
		t.Fatalf("expected id 7, got %d", place.ID)
	}
	expectationsMet(t, mock)
}

func TestPlaceRepositoryFindByIDScopedAndScansArrays(t *testing.T) {
	db, mock := newMock(t)
	cols := []string{"id", "name", "owner_id", "created_at", "country_ids", "state_ids"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (id = $1) AND owner_id = $2")).
		WithArgs(int64(5), int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(5, "Ipaja", 1, time.Now(), "{1,2}", "{}"))

	place, err := NewPlaceRepository(db).FindByID(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !reflect.DeepEqual(place.CountryIDs, []int64{1, 2}) {
		t.Fatalf("unexpected countries: %v", place.CountryIDs)
	}
	if place.StateIDs == nil || len(place.StateIDs) != 0 {
		t.Fatalf("expected empty non-nil states, got %#v", place.StateIDs)
	}
	expectationsMet(t, mock)
}

func TestPlaceRepositoryFindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM places p").
		WithArgs(int64(5), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewPlaceRepository(db).FindByID(context.Background(), 2, 5)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestPlaceRepositoryUpdateOtherOwnerRollsBack(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE places SET name").
		WithArgs("Ghana", int64(3), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewPlaceRepository(db).Update(context.Background(), &domain.Place{ID: 3, OwnerID: 2, Name: "Ghana"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestPlaceRepositoryUpdateClearsAndReplacesRelations(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE places SET name").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM place_countries").WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO place_countries").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM place_states").WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	place := &domain.Place{ID: 3, OwnerID: 1, Name: "Cameroon", CountryIDs: []int64{9}}
	if err := NewPlaceRepository(db).Update(context.Background(), place); err != nil {
		t.Fatalf("update: %v", err)
	}
	expectationsMet(t, mock)
}

func TestPlaceRepositoryUpdateMissingRelationIsValidation(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE places SET name").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM place_countries").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO place_countries").WillReturnError(&pq.Error{
		Code:   codeForeignKeyViolation,
		Detail: `Key (country_id)=(99) is not present in table "countries".`,
	})
	mock.ExpectRollback()

	err := NewPlaceRepository(db).Update(context.Background(), &domain.Place{ID: 3, OwnerID: 1, Name: "x", CountryIDs: []int64{99}})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields["country"]) != 1 {
		t.Fatalf("expected country validation error, got %v", err)
	}
	if got := ve.Fields["country"][0]; got != `Invalid pk "99" - object does not exist.` {
		t.Fatalf("unexpected message: %q", got)
	}
	expectationsMet(t, mock)
}

func TestMissingKeyMessageWithoutDetail(t *testing.T) {
	if got := missingKeyMessage(""); got != "Invalid pk - object does not exist." {
		t.Fatalf("unexpected fallback message: %q", got)
	}
}

func TestMigrateKeepsPoolOpen(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer raw.Close()
	db := sqlx.NewDb(raw, "postgres")

	// Schema already at version 1, so Up finds nothing to apply.
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT CURRENT_DATABASE\(\)`).WillReturnRows(sqlmock.NewRows([]string{"current_database"}).AddRow("places"))
	mock.ExpectQuery(`SELECT CURRENT_SCHEMA\(\)`).WillReturnRows(sqlmock.NewRows([]string{"current_schema"}).AddRow("public"))
	mock.ExpectQuery(`FROM information_schema.tables`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT version, dirty FROM`).WillReturnRows(sqlmock.NewRows([]string{"version", "dirty"}).AddRow(1, false))
	for i := 0; i < 2; i++ {
		mock.ExpectExec(`SELECT pg_advisory_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`SELECT pg_advisory_unlock`).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("pool unusable after migrate: %v", err)
	}
}
