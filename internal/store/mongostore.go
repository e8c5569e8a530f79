package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gameoflife/internal/apierr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	connectTimeout   = 5 * time.Second
	operationTimeout = 45 * time.Second
)

// MongoStore is the DurableStore backed by MongoDB, keyed by boardId per
// spec.md's durable-backend schema.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore dials uri and returns a MongoStore backed by
// database.boards, creating the unique boardId index and the descending
// createdAt index idempotently.
func NewMongoStore(uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apierr.Wrap(apierr.BackendUnavailable, "connect to durable backend", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, apierr.Wrap(apierr.BackendUnavailable, "ping durable backend", err)
	}

	collection := client.Database(database).Collection("boards")

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "boardId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	}); err != nil {
		return nil, apierr.Wrap(apierr.BackendUnavailable, "ensure durable backend indexes", err)
	}

	return &MongoStore{collection: collection}, nil
}

// Insert persists record. Creation is atomic from the caller's perspective:
// either this returns nil and a subsequent FindByID succeeds, or it returns
// an error and no partial record exists.
func (s *MongoStore) Insert(ctx context.Context, record BoardRecord) error {
	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	if _, err := s.collection.InsertOne(opCtx, record); err != nil {
		return apierr.Wrap(apierr.BackendUnavailable, fmt.Sprintf("insert board %s", record.BoardID), err)
	}
	return nil
}

// FindByID retrieves the record for boardID, or an apierr.NotFound if no
// such record exists.
func (s *MongoStore) FindByID(ctx context.Context, boardID string) (BoardRecord, error) {
	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var record BoardRecord
	err := s.collection.FindOne(opCtx, bson.D{{Key: "boardId", Value: boardID}}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return BoardRecord{}, apierr.New(apierr.NotFound, fmt.Sprintf("board %s not found", boardID))
	}
	if err != nil {
		return BoardRecord{}, apierr.Wrap(apierr.BackendUnavailable, fmt.Sprintf("find board %s", boardID), err)
	}
	return record, nil
}
