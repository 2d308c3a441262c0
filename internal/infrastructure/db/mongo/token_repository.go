package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/places-api/internal/core/domain"
)

// TokenRepository stores one bearer token per account, enforced by a
// unique index on account_id.
type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(collectionTokens)}
}

type tokenDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	AccountID int64     `bson:"account_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *TokenRepository) Create(ctx context.Context, token *domain.Token) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, tokenDocument{
		Key:       token.Key,
		Value:     token.Value,
		AccountID: token.AccountID,
		CreatedAt: token.CreatedAt.UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrTokenExists
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindByAccount(ctx context.Context, accountID int64) (*domain.Token, error) {
	return r.findOne(ctx, bson.M{"account_id": accountID})
}

func (r *TokenRepository) FindByKey(ctx context.Context, key string) (*domain.Token, error) {
	return r.findOne(ctx, bson.M{"_id": key})
}

func (r *TokenRepository) findOne(ctx context.Context, filter bson.M) (*domain.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tokenDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &domain.Token{
		Key:       doc.Key,
		Value:     doc.Value,
		AccountID: doc.AccountID,
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}
