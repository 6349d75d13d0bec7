package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kvDocument struct {
	ID    string           `bson:"_id"`
	Value primitive.Binary `bson:"value"`
}

// MongoStore persists each collection key as a single document in a "kv"
// collection, keeping the substrate a plain get/put surface.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("kv"),
	}
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc kvDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %v", key, err)
	}
	return doc.Value.Data, true, nil
}

func (s *MongoStore) Put(ctx context.Context, key string, value []byte) error {
	doc := kvDocument{ID: key, Value: primitive.Binary{Data: value}}
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %v", key, err)
	}
	return nil
}
