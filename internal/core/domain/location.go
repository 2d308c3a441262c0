package domain

import (
	"slices"
	"time"
)

// ReferenceKind distinguishes the two user-owned reference entity types.
type ReferenceKind string

const (
	KindCountry ReferenceKind = "country"
	KindState   ReferenceKind = "state"
)

// Reference is a user-owned named record usable as a relation target.
// Countries and states share this shape.
type Reference struct {
	ID      int64         `json:"id"`
	Kind    ReferenceKind `json:"-"`
	Name    string        `json:"name"`
	OwnerID int64         `json:"-"`
}

// Place is a user-owned named record with many-to-many relations to
// countries and states.
type Place struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	OwnerID    int64     `json:"-"`
	CountryIDs []int64   `json:"country"`
	StateIDs   []int64   `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlaceDetail is a place with its relations expanded.
type PlaceDetail struct {
	Place
	Countries []Reference
	States    []Reference
}

// NormalizeIDs returns ids deduplicated and sorted ascending, the canonical
// form of a relation set. A nil input yields an empty, non-nil slice.
func NormalizeIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
