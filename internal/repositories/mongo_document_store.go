package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoDocument keeps the JSON text verbatim so round trips are byte-stable.
type mongoDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoDocumentStore struct {
	collection *mongo.Collection
}

// NewMongoDocumentStore keeps one Mongo document per content key.
func NewMongoDocumentStore(db *mongo.Database) DocumentStore {
	return &mongoDocumentStore{collection: db.Collection("content_documents")}
}

func (s *mongoDocumentStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var doc mongoDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding document %q: %v", ErrDatabaseError, key, err)
	}
	return json.RawMessage(doc.Value), nil
}

func (s *mongoDocumentStore) Put(ctx context.Context, key string, value json.RawMessage) error {
	doc := mongoDocument{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: replacing document %q: %v", ErrDatabaseError, key, err)
	}
	return nil
}
