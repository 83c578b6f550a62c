// Package mongostore stores sessions in a MongoDB collection.
//
// Documents have the shape {_id, data, time, expires_at}. EnsureIndexes
// creates a TTL index on expires_at so the server removes expired
// documents; GC covers idle sessions without an expiry.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type document struct {
	ID        string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	Time      time.Time  `bson:"time"`
	ExpiresAt *time.Time `bson:"expires_at"`
}

// Store implements session.Store and session.GarbageCollector.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

// New creates a store on coll. The client is owned by the caller.
func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll, now: time.Now}
}

// EnsureIndexes creates the TTL index on expires_at and an index on time.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "time", Value: 1}},
		},
	})
	return err
}

// Read ignores documents past expires_at; the TTL monitor only runs once
// a minute.
func (s *Store) Read(ctx context.Context, id string) ([]byte, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "expires_at", Value: nil}},
			bson.D{{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: s.now()}}}},
		}},
	}

	var doc document
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

func (s *Store) Write(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	now := s.now()
	doc := document{ID: id, Data: data, Time: now}
	if ttl > 0 {
		exp := now.Add(ttl)
		doc.ExpiresAt = &exp
	}
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) Destroy(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return err
}

// GC removes documents past expires_at and, when maxLifetime is positive,
// documents not written for maxLifetime.
func (s *Store) GC(ctx context.Context, maxLifetime time.Duration) (int, error) {
	now := s.now()
	conditions := bson.A{
		bson.D{{Key: "expires_at", Value: bson.D{{Key: "$lte", Value: now}}}},
	}
	if maxLifetime > 0 {
		conditions = append(conditions, bson.D{{Key: "time", Value: bson.D{{Key: "$lt", Value: now.Add(-maxLifetime)}}}})
	}

	res, err := s.coll.DeleteMany(ctx, bson.D{{Key: "$or", Value: conditions}})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}
