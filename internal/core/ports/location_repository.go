package ports

import (
	"context"

	"github.com/99minutos/places-api/internal/core/domain"
)

// ReferenceRepository persists one kind of reference entity (countries or
// states).
type ReferenceRepository interface {
	// List returns the owner's entities ordered by name descending.
	List(ctx context.Context, ownerID int64) ([]domain.Reference, error)
	Create(ctx context.Context, ref *domain.Reference) error
	// FindByIDs resolves ids regardless of owner. Missing ids are skipped.
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Reference, error)
}

// PlaceRepository persists places together with their relation sets. Every
// method is scoped to ownerID; places of other owners are reported as
// domain.ErrNotFound.
type PlaceRepository interface {
	// List returns the owner's places, newest first.
	List(ctx context.Context, ownerID int64) ([]*domain.Place, error)
	// Create stores the place and its relations in one atomic write.
	Create(ctx context.Context, place *domain.Place) error
	FindByID(ctx context.Context, ownerID, id int64) (*domain.Place, error)
	// Update replaces name and both relation sets in one atomic write.
	Update(ctx context.Context, place *domain.Place) error
}
