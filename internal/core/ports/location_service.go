package ports

import (
	"context"

	"github.com/99minutos/places-api/internal/core/domain"
)

// CreatePlaceInput carries the fields of a new place. Nil relation slices
// mean no relations.
type CreatePlaceInput struct {
	Name       string
	CountryIDs []int64
	StateIDs   []int64
}

// UpdatePlaceInput carries the fields of an update. A nil pointer marks a
// field absent from the request.
type UpdatePlaceInput struct {
	ID         int64
	Name       *string
	CountryIDs *[]int64
	StateIDs   *[]int64
	// Partial selects PATCH semantics: absent fields are left untouched.
	// Otherwise absent relation sets are cleared and name is required.
	Partial bool
}

// ReferenceService is the account-scoped API over countries or states.
type ReferenceService interface {
	List(ctx context.Context, account *domain.Account) ([]domain.Reference, error)
	Create(ctx context.Context, account *domain.Account, name string) (*domain.Reference, error)
}

// PlaceService is the account-scoped API over places.
type PlaceService interface {
	List(ctx context.Context, account *domain.Account) ([]*domain.Place, error)
	Create(ctx context.Context, account *domain.Account, input CreatePlaceInput) (*domain.Place, error)
	Retrieve(ctx context.Context, account *domain.Account, id int64) (*domain.PlaceDetail, error)
	Update(ctx context.Context, account *domain.Account, input UpdatePlaceInput) (*domain.Place, error)
}
