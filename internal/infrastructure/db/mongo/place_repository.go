package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/places-api/internal/core/domain"
)

// PlaceRepository stores each place as a single document that embeds its
// relation id sets, so name and relations always change together.
type PlaceRepository struct {
	col *mongo.Collection
	seq *sequence
}

func NewPlaceRepository(db *mongo.Database) *PlaceRepository {
	return &PlaceRepository{col: db.Collection(collectionPlaces), seq: newSequence(db)}
}

type placeDocument struct {
	ID         int64     `bson:"_id"`
	Name       string    `bson:"name"`
	OwnerID    int64     `bson:"owner_id"`
	CountryIDs []int64   `bson:"country_ids"`
	StateIDs   []int64   `bson:"state_ids"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (d placeDocument) toDomain() *domain.Place {
	return &domain.Place{
		ID:         d.ID,
		Name:       d.Name,
		OwnerID:    d.OwnerID,
		CountryIDs: nonNil(d.CountryIDs),
		StateIDs:   nonNil(d.StateIDs),
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

// List returns the owner's places, newest first.
func (r *PlaceRepository) List(ctx context.Context, ownerID int64) ([]*domain.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, scopedTo(ownerID, bson.M{}), opts)
	if err != nil {
		return nil, fmt.Errorf("find places: %w", err)
	}
	defer cur.Close(ctx)

	var docs []placeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode places: %w", err)
	}

	places := make([]*domain.Place, len(docs))
	for i, d := range docs {
		places[i] = d.toDomain()
	}
	return places, nil
}

// Create inserts the place with its relations and assigns its id.
func (r *PlaceRepository) Create(ctx context.Context, place *domain.Place) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx, collectionPlaces)
	if err != nil {
		return err
	}

	doc := placeDocument{
		ID:         id,
		Name:       place.Name,
		OwnerID:    place.OwnerID,
		CountryIDs: nonNil(place.CountryIDs),
		StateIDs:   nonNil(place.StateIDs),
		CreatedAt:  place.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert place: %w", err)
	}
	place.ID = id
	return nil
}

func (r *PlaceRepository) FindByID(ctx context.Context, ownerID, id int64) (*domain.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc placeDocument
	if err := r.col.FindOne(ctx, scopedTo(ownerID, bson.M{"_id": id})).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find place: %w", err)
	}
	return doc.toDomain(), nil
}

// Update overwrites name and both relation sets in a single document update.
func (r *PlaceRepository) Update(ctx context.Context, place *domain.Place) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        place.Name,
		"country_ids": nonNil(place.CountryIDs),
		"state_ids":   nonNil(place.StateIDs),
	}}

	res, err := r.col.UpdateOne(ctx, scopedTo(place.OwnerID, bson.M{"_id": place.ID}), update)
	if err != nil {
		return fmt.Errorf("update place: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
