// Package mongo implements store.Store on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/store"
)

var _ store.Store = (*Store)(nil)

// Config holds connection settings.
type Config struct {
	URI      string
	Database string
	// CollectionSuffix is appended to logical collection names,
	// e.g. "users" + "Collection" = "usersCollection".
	CollectionSuffix string
	MaxPoolSize      uint64
	ConnectTimeout   time.Duration
}

// Store is a MongoDB-backed document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	suffix string
}

// New connects to MongoDB and verifies the connection.
func New(ctx context.Context, cfg Config) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true)).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	// Connection pool settings
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
		suffix: cfg.CollectionSuffix,
	}, nil
}

// Collection returns the named collection.
func (s *Store) Collection(name string) store.Collection {
	return &Collection{name: name, coll: s.db.Collection(name + s.suffix)}
}

// ParseID accepts 24-character hex ObjectIDs.
func (s *Store) ParseID(raw string) (any, error) {
	return parseObjectID(raw)
}

// Ping checks MongoDB connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureUniqueIndex creates a unique index on field for documents that have it.
func (s *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	idx := mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: 1}},
		Options: options.Index().
			SetName(field + "_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{field: bson.M{"$exists": true}}),
	}

	if _, err := s.db.Collection(collection+s.suffix).Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create unique index %s.%s: %w", collection, field, err)
	}
	return nil
}

func parseObjectID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", store.ErrInvalidID, raw)
	}
	return id, nil
}

// Collection wraps a *mongo.Collection.
type Collection struct {
	name string
	coll *mongo.Collection
}

// Find returns all matching documents.
func (c *Collection) Find(ctx context.Context, filter store.Filter, opts store.FindOptions) ([]model.Document, error) {
	cursor, err := c.coll.Find(ctx, toBSON(filter), findOptions(opts))
	if err != nil {
		return nil, unavailable("find "+c.name, err)
	}

	docs := make([]model.Document, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode "+c.name, err)
	}
	return docs, nil
}

// FindOne returns the first matching document.
func (c *Collection) FindOne(ctx context.Context, filter store.Filter) (model.Document, error) {
	var doc model.Document
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, unavailable("find one "+c.name, err)
	}
	return doc, nil
}

// InsertOne inserts doc and lets the server assign its ObjectID.
func (c *Collection) InsertOne(ctx context.Context, doc model.Document) (*store.InsertResult, error) {
	res, err := c.coll.InsertOne(ctx, bson.M(doc.Without(model.FieldID)))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", store.ErrDuplicate, c.name)
		}
		return nil, unavailable("insert "+c.name, err)
	}
	return &store.InsertResult{InsertedID: res.InsertedID}, nil
}

// UpdateOne applies a $set of the given fields.
func (c *Collection) UpdateOne(ctx context.Context, filter store.Filter, set model.Document) (*store.UpdateResult, error) {
	update := bson.M{"$set": bson.M(set.Without(model.FieldID))}

	res, err := c.coll.UpdateOne(ctx, toBSON(filter), update)
	if err != nil {
		return nil, unavailable("update "+c.name, err)
	}
	return &store.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

// DeleteOne removes the first matching document.
func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) (*store.DeleteResult, error) {
	res, err := c.coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return nil, unavailable("delete "+c.name, err)
	}
	return &store.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

func toBSON(filter store.Filter) bson.M {
	m := make(bson.M, len(filter))
	for k, v := range filter {
		m[k] = v
	}
	return m
}

func findOptions(opts store.FindOptions) *options.FindOptions {
	fo := options.Find()
	if opts.Sort != nil {
		fo.SetSort(bson.D{{Key: opts.Sort.Field, Value: int(opts.Sort.Direction)}})
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}
	return fo
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", store.ErrUnavailable, op, err)
}
