package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/g6blog/blog-api/internal/core/domain"
)

const collectionTokens = "tokens"

// TokenRepository persists the audit trail of issued tokens. Records expire
// together with the token they describe.
type TokenRepository struct {
	coll *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{coll: db.Collection(collectionTokens)}
}

// Save inserts a record keyed by the token id (jti).
func (r *TokenRepository) Save(ctx context.Context, record *domain.TokenRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"_id":        record.ID,
		"user_id":    record.UserID,
		"issued_at":  record.IssuedAt.UTC(),
		"expires_at": record.ExpiresAt.UTC(),
		"created_at": time.Now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert token record: %w", err)
	}
	return nil
}

// EnsureIndexes creates a TTL index on expires_at and a lookup index on user_id.
func (r *TokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
