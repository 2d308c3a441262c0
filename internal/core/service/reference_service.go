package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
)

// ReferenceService exposes one reference entity kind scoped to the
// requesting account.
type ReferenceService struct {
	kind domain.ReferenceKind
	repo ports.ReferenceRepository
	log  zerolog.Logger
}

func NewReferenceService(kind domain.ReferenceKind, repo ports.ReferenceRepository, log zerolog.Logger) *ReferenceService {
	return &ReferenceService{kind: kind, repo: repo, log: log}
}

// List returns the account's entities ordered by name descending.
func (s *ReferenceService) List(ctx context.Context, account *domain.Account) ([]domain.Reference, error) {
	owner, err := ownerOf(account)
	if err != nil {
		return nil, err
	}

	refs, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind, err)
	}
	return refs, nil
}

// Create stores a new entity owned by account.
func (s *ReferenceService) Create(ctx context.Context, account *domain.Account, name string) (*domain.Reference, error) {
	owner, err := ownerOf(account)
	if err != nil {
		return nil, err
	}

	ve := &domain.ValidationError{}
	name = cleanName(ve, name)
	if !ve.Empty() {
		return nil, ve
	}

	ref := &domain.Reference{Kind: s.kind, Name: name, OwnerID: owner}
	if err := s.repo.Create(ctx, ref); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.kind, err)
	}

	s.log.Info().
		Str("kind", string(s.kind)).
		Int64("id", ref.ID).
		Int64("owner_id", owner).
		Msg("reference created")
	return ref, nil
}
