package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/places-api/internal/core/domain"
)

// ReferenceRepository stores one reference kind in its own collection.
type ReferenceRepository struct {
	kind domain.ReferenceKind
	name string
	col  *mongo.Collection
	seq  *sequence
}

// NewReferenceRepository returns the repository for kind.
func NewReferenceRepository(db *mongo.Database, kind domain.ReferenceKind) *ReferenceRepository {
	name := collectionCountries
	if kind == domain.KindState {
		name = collectionStates
	}
	return &ReferenceRepository{kind: kind, name: name, col: db.Collection(name), seq: newSequence(db)}
}

type referenceDocument struct {
	ID      int64  `bson:"_id"`
	Name    string `bson:"name"`
	OwnerID int64  `bson:"owner_id"`
}

// List returns the owner's entities sorted by name descending, ties broken
// by id descending.
func (r *ReferenceRepository) List(ctx context.Context, ownerID int64) ([]domain.Reference, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, scopedTo(ownerID, bson.M{}), opts)
}

// Create inserts ref and assigns its id.
func (r *ReferenceRepository) Create(ctx context.Context, ref *domain.Reference) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, r.name)
	if err != nil {
		return err
	}

	doc := referenceDocument{ID: id, Name: ref.Name, OwnerID: ref.OwnerID}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", r.kind, err)
	}
	ref.ID = id
	ref.Kind = r.kind
	return nil
}

// FindByIDs resolves ids across all owners.
func (r *ReferenceRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Reference, error) {
	if len(ids) == 0 {
		return []domain.Reference{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
}

func (r *ReferenceRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Reference, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.kind, err)
	}
	defer cur.Close(ctx)

	var docs []referenceDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.kind, err)
	}

	refs := make([]domain.Reference, len(docs))
	for i, d := range docs {
		refs[i] = domain.Reference{ID: d.ID, Kind: r.kind, Name: d.Name, OwnerID: d.OwnerID}
	}
	return refs, nil
}
