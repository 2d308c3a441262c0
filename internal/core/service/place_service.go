package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/places-api/internal/core/domain"
	"github.com/99minutos/places-api/internal/core/ports"
)

// PlaceService exposes places scoped to the requesting account and keeps
// their relation sets consistent.
type PlaceService struct {
	places    ports.PlaceRepository
	countries ports.ReferenceRepository
	states    ports.ReferenceRepository
	log       zerolog.Logger
}

func NewPlaceService(
	places ports.PlaceRepository,
	countries ports.ReferenceRepository,
	states ports.ReferenceRepository,
	log zerolog.Logger,
) *PlaceService {
	return &PlaceService{places: places, countries: countries, states: states, log: log}
}

// List returns the account's places, newest first.
func (s *PlaceService) List(ctx context.Context, account *domain.Account) ([]*domain.Place, error) {
	owner, err := ownerOf(account)
	if err != nil {
		return nil, err
	}

	places, err := s.places.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places, nil
}

// Create validates the name and relation ids, then stores the place with
// its relations in one write.
func (s *PlaceService) Create(ctx context.Context, account *domain.Account, input ports.CreatePlaceInput) (*domain.Place, error) {
	owner, err := ownerOf(account)
	if err != nil {
		return nil, err
	}

	ve := &domain.ValidationError{}
	place := &domain.Place{
		Name:       cleanName(ve, input.Name),
		OwnerID:    owner,
		CountryIDs: domain.NormalizeIDs(input.CountryIDs),
		StateIDs:   domain.NormalizeIDs(input.StateIDs),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.checkRelations(ctx, ve, place.CountryIDs, place.StateIDs); err != nil {
		return nil, err
	}
	if !ve.Empty() {
		return nil, ve
	}

	if err := s.places.Create(ctx, place); err != nil {
		return nil, fmt.Errorf("create place: %w", err)
	}

	s.log.Info().Int64("id", place.ID).Int64("owner_id", owner).Msg("place created")
	return place, nil
}

// Retrieve returns one of the account's places with relations expanded.
// Places owned by other accounts are reported as domain.ErrNotFound.
func (s *PlaceService) Retrieve(ctx context.Context, account *domain.Account, id int64) (*domain.PlaceDetail, error) {
	owner, err := ownerOf(account)
	if err != nil {
		return nil, err
	}

	place, err := s.places.FindByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	countries, err := resolve(ctx, s.countries, place.CountryIDs)
	if err != nil {
		return nil, fmt.Errorf("retrieve place: countries: %w", err)
	}
	states, err := resolve(ctx, s.states, place.StateIDs)
	if err != nil {
		return nil, fmt.Errorf("retrieve place: states: %w", err)
	}

	return &domain.PlaceDetail{Place: *place, Countries: countries, States: states}, nil
}

// Update applies a full or partial update. A full update requires name and
// clears every relation set absent from the input; a partial update only
// touches the supplied fields.
func (s *PlaceService) Update(ctx context.Context, account *domain.Account, input ports.UpdatePlaceInput) (*domain.Place, error) {
	owner, err := ownerOf(account)
	if err != nil {
		return nil, err
	}

	place, err := s.places.FindByID(ctx, owner, input.ID)
	if err != nil {
		return nil, err
	}

	ve := &domain.ValidationError{}
	switch {
	case input.Name != nil:
		place.Name = cleanName(ve, *input.Name)
	case !input.Partial:
		ve.Add("name", "This field is required.")
	}

	var countryIDs, stateIDs []int64
	switch {
	case input.CountryIDs != nil:
		place.CountryIDs = domain.NormalizeIDs(*input.CountryIDs)
		countryIDs = place.CountryIDs
	case !input.Partial:
		place.CountryIDs = []int64{}
	}
	switch {
	case input.StateIDs != nil:
		place.StateIDs = domain.NormalizeIDs(*input.StateIDs)
		stateIDs = place.StateIDs
	case !input.Partial:
		place.StateIDs = []int64{}
	}

	if err := s.checkRelations(ctx, ve, countryIDs, stateIDs); err != nil {
		return nil, err
	}
	if !ve.Empty() {
		return nil, ve
	}

	if err := s.places.Update(ctx, place); err != nil {
		return nil, fmt.Errorf("update place: %w", err)
	}

	s.log.Info().
		Int64("id", place.ID).
		Int64("owner_id", owner).
		Bool("partial", input.Partial).
		Msg("place updated")
	return place, nil
}

// checkRelations records a field error for every id that does not resolve
// to an existing entity. Ownership of the target is not checked.
func (s *PlaceService) checkRelations(ctx context.Context, ve *domain.ValidationError, countryIDs, stateIDs []int64) error {
	if err := missingIDs(ctx, ve, "country", s.countries, countryIDs); err != nil {
		return fmt.Errorf("check countries: %w", err)
	}
	if err := missingIDs(ctx, ve, "state", s.states, stateIDs); err != nil {
		return fmt.Errorf("check states: %w", err)
	}
	return nil
}

func missingIDs(ctx context.Context, ve *domain.ValidationError, field string, repo ports.ReferenceRepository, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	found, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	known := make(map[int64]struct{}, len(found))
	for _, ref := range found {
		known[ref.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			ve.Add(field, fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(id)))
		}
	}
	return nil
}

// resolve loads the entities for ids in ids order.
func resolve(ctx context.Context, repo ports.ReferenceRepository, ids []int64) ([]domain.Reference, error) {
	if len(ids) == 0 {
		return []domain.Reference{}, nil
	}

	found, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Reference, len(found))
	for _, ref := range found {
		byID[ref.ID] = ref
	}
	out := make([]domain.Reference, 0, len(ids))
	for _, id := range ids {
		if ref, ok := byID[id]; ok {
			out = append(out, ref)
		}
	}
	return out, nil
}
