package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/places-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. Each mirrors the filtering and ordering the
// real stores apply.
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubAccountRepo struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]*domain.Account
	findErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byEmail: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[a.Email]; exists {
		return nil, domain.ErrAccountExists
	}
	r.nextID++
	stored := cloneAccount(a)
	stored.ID = r.nextID
	r.byEmail[stored.Email] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byEmail {
		if a.ID == id {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubTokenRepo struct {
	byAccount map[int64]*domain.Token
	created   int
	// raceWith, when set, is stored just before Create runs to simulate a
	// concurrent issue for the same account.
	raceWith *domain.Token
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{byAccount: make(map[int64]*domain.Token)}
}

func (r *stubTokenRepo) Create(_ context.Context, t *domain.Token) error {
	if r.raceWith != nil {
		r.byAccount[r.raceWith.AccountID] = r.raceWith
		r.raceWith = nil
	}
	if _, exists := r.byAccount[t.AccountID]; exists {
		return domain.ErrTokenExists
	}
	clone := *t
	r.byAccount[t.AccountID] = &clone
	r.created++
	return nil
}

func (r *stubTokenRepo) FindByAccount(_ context.Context, accountID int64) (*domain.Token, error) {
	t, ok := r.byAccount[accountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTokenRepo) FindByKey(_ context.Context, key string) (*domain.Token, error) {
	for _, t := range r.byAccount {
		if t.Key == key {
			clone := *t
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubTokenCache struct {
	entries map[string]int64
	getErr  error
	hits    int
}

func newStubTokenCache() *stubTokenCache {
	return &stubTokenCache{entries: make(map[string]int64)}
}

func (c *stubTokenCache) Get(_ context.Context, key string) (int64, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	id, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return id, ok, nil
}

func (c *stubTokenCache) Set(_ context.Context, key string, accountID int64) error {
	c.entries[key] = accountID
	return nil
}

type stubReferenceRepo struct {
	nextID int64
	refs   []domain.Reference
	err    error
}

func (r *stubReferenceRepo) List(_ context.Context, ownerID int64) ([]domain.Reference, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []domain.Reference{}
	for _, ref := range r.refs {
		if ref.OwnerID == ownerID {
			out = append(out, ref)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID > out[j].ID
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

func (r *stubReferenceRepo) Create(_ context.Context, ref *domain.Reference) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	ref.ID = r.nextID
	r.refs = append(r.refs, *ref)
	return nil
}

func (r *stubReferenceRepo) FindByIDs(_ context.Context, ids []int64) ([]domain.Reference, error) {
	if r.err != nil {
		return nil, r.err
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Reference
	for _, ref := range r.refs {
		if want[ref.ID] {
			out = append(out, ref)
		}
	}
	return out, nil
}

type stubPlaceRepo struct {
	nextID    int64
	places    map[int64]*domain.Place
	updateErr error
}

func newStubPlaceRepo() *stubPlaceRepo {
	return &stubPlaceRepo{places: make(map[int64]*domain.Place)}
}

func clonePlace(p *domain.Place) *domain.Place {
	clone := *p
	clone.CountryIDs = append([]int64{}, p.CountryIDs...)
	clone.StateIDs = append([]int64{}, p.StateIDs...)
	return &clone
}

func (r *stubPlaceRepo) List(_ context.Context, ownerID int64) ([]*domain.Place, error) {
	out := []*domain.Place{}
	for _, p := range r.places {
		if p.OwnerID == ownerID {
			out = append(out, clonePlace(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubPlaceRepo) Create(_ context.Context, p *domain.Place) error {
	r.nextID++
	p.ID = r.nextID
	r.places[p.ID] = clonePlace(p)
	return nil
}

func (r *stubPlaceRepo) FindByID(_ context.Context, ownerID, id int64) (*domain.Place, error) {
	p, ok := r.places[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return clonePlace(p), nil
}

func (r *stubPlaceRepo) Update(_ context.Context, p *domain.Place) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	existing, ok := r.places[p.ID]
	if !ok || existing.OwnerID != p.OwnerID {
		return domain.ErrNotFound
	}
	r.places[p.ID] = clonePlace(p)
	return nil
}

var errStoreDown = errors.New("store unavailable")
