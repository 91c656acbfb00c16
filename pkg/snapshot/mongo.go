package snapshot

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default database and collection names when the config leaves them
// unset.
const (
	DefaultDatabase   = "statsmith"
	DefaultCollection = "snapshots"
)

const connectTimeout = 10 * time.Second

// MongoOptions configures the MongoDB-backed store.
type MongoOptions struct {
	// URI is the mongodb:// connection string. Required.
	URI string

	// Database holds the snapshot collection. Defaults to
	// DefaultDatabase.
	Database string

	// Collection receives one document per run. Defaults to
	// DefaultCollection.
	Collection string
}

// MongoStore writes snapshots to a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping before returning.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("snapshot store needs a connection URI")
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

// Save inserts the snapshot as one document.
func (s *MongoStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if _, err := s.coll.InsertOne(ctx, snap); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
