package nodestate

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo collection layout: one document per node.
const collectionName = "node_state"

type nodeStateDoc struct {
	NodeID        string `bson:"_id"`
	InstanceCount int    `bson:"instance_count"`
}

// MongoStore persists instance counts in a MongoDB collection, one document
// per node keyed by node ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the Mongo-backed store.
type MongoConfig struct {
	URI      string
	Database string
}

// NewMongoStore connects to MongoDB and returns a durable Store.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = "remap"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(collectionName),
	}, nil
}

// InstanceCount returns the stored count for nodeID, or the default when no
// document exists.
func (s *MongoStore) InstanceCount(ctx context.Context, nodeID string) (int, error) {
	var doc nodeStateDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": nodeID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return DefaultInstanceCount, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find node state %s: %w", nodeID, err)
	}
	if doc.InstanceCount < 1 {
		return DefaultInstanceCount, nil
	}
	return doc.InstanceCount, nil
}

// SetInstanceCount upserts the count for nodeID.
func (s *MongoStore) SetInstanceCount(ctx context.Context, nodeID string, count int) error {
	if count < 1 {
		count = 1
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": nodeID},
		bson.M{"$set": bson.M{"instance_count": count}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert node state %s: %w", nodeID, err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
