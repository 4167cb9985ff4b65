package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopkart/storefront/internal/domain"
)

// The cart store sees one writer; a handful of pooled connections covers
// write-through plus the occasional rehydrate.
const mongoMaxPoolSize = 8

// ConnectMongoDB opens the cart database and verifies it with a ping.
// The timeout bounds both dialing and server selection.
func ConnectMongoDB(ctx context.Context, uri, database string, timeout time.Duration) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetMaxPoolSize(mongoMaxPoolSize))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type cartDocument struct {
	Key       string           `bson:"_id"`
	State     domain.CartState `bson:"state"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

// MongoStore keeps the cart as a single upserted document keyed by the
// well-known storage key.
type MongoStore struct {
	collection *mongo.Collection
	key        string
}

func NewMongoStore(db *mongo.Database, key string) *MongoStore {
	return &MongoStore{collection: db.Collection("carts"), key: key}
}

func (m *MongoStore) Load(ctx context.Context) (domain.CartState, error) {
	var doc cartDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": m.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.CartState{}, ErrCartNotFound
	}
	if err != nil {
		return domain.CartState{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return doc.State, nil
}

func (m *MongoStore) Save(ctx context.Context, state domain.CartState) error {
	doc := cartDocument{Key: m.key, State: state, UpdatedAt: time.Now()}

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection.ReplaceOne(ctx, bson.M{"_id": m.key}, doc, opts); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (m *MongoStore) Clear(ctx context.Context) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": m.key}); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
