// Package mongo implements the horoscope Store over two document
// collections, one per kind. A unique compound index on (sign_id,
// date) plus filtered UpdateOne with upsert gives the same atomic
// create-or-overwrite guarantee as the relational backend.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zodiacal/horoscope-api/internal/contracts"
	"github.com/zodiacal/horoscope-api/pkg/mongodb"
)

const (
	dailyCollection  = "daily_horoscopes"
	weeklyCollection = "weekly_horoscopes"
)

// document is the stored shape, shared by both collections. Dates are
// kept as YYYY-MM-DD strings so index comparisons are plain string
// equality with no timestamp drift.
type document struct {
	SignID    int       `bson:"sign_id"`
	SignName  string    `bson:"sign_name"`
	Symbol    string    `bson:"symbol"`
	Text      string    `bson:"text"`
	Date      string    `bson:"date"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store implements contracts.Store on a mongo database handle.
type Store struct {
	client *mongodb.Client
	daily  *mongo.Collection
	weekly *mongo.Collection
}

// New wraps an already-connected client. The Store takes ownership;
// Close disconnects it.
func New(client *mongodb.Client) *Store {
	return &Store{
		client: client,
		daily:  client.Collection(dailyCollection),
		weekly: client.Collection(weeklyCollection),
	}
}

// EnsureIndexes creates the unique (sign_id, date) index on both
// collections. Run once at startup; upsert atomicity depends on it.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "sign_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	for _, coll := range []*mongo.Collection{s.daily, s.weekly} {
		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) collection(kind contracts.Kind) *mongo.Collection {
	if kind == contracts.KindWeekly {
		return s.weekly
	}
	return s.daily
}

func (s *Store) Upsert(ctx context.Context, kind contracts.Kind, key contracts.Key, fields contracts.Fields) (contracts.Outcome, error) {
	filter := bson.M{
		"sign_id": key.SignID,
		"date":    key.Date.Format(contracts.DateLayout),
	}
	update := bson.M{
		"$set": bson.M{
			"sign_name":  fields.SignName,
			"symbol":     fields.Symbol,
			"text":       fields.Text,
			"updated_at": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC(),
		},
	}

	res, err := s.collection(kind).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", contracts.NewStoreError("upsert", err)
	}

	if res.UpsertedCount > 0 {
		return contracts.OutcomeCreated, nil
	}
	return contracts.OutcomeUpdated, nil
}

func (s *Store) Get(ctx context.Context, kind contracts.Kind, key contracts.Key) (*contracts.Record, error) {
	filter := bson.M{
		"sign_id": key.SignID,
		"date":    key.Date.Format(contracts.DateLayout),
	}

	var doc document
	err := s.collection(kind).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, contracts.NewNotFoundError(kind, key.SignID, key.Date.Format(contracts.DateLayout))
	}
	if err != nil {
		return nil, contracts.NewStoreError("get", err)
	}

	return doc.record()
}

func (s *Store) ListByPeriod(ctx context.Context, kind contracts.Kind, period time.Time) ([]contracts.Record, error) {
	filter := bson.M{"date": period.Format(contracts.DateLayout)}
	opts := options.Find().SetSort(bson.D{{Key: "sign_id", Value: 1}})

	cursor, err := s.collection(kind).Find(ctx, filter, opts)
	if err != nil {
		return nil, contracts.NewStoreError("list", err)
	}
	defer cursor.Close(ctx)

	recs := make([]contracts.Record, 0)
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, contracts.NewStoreError("list", err)
		}
		rec, err := doc.record()
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, contracts.NewStoreError("list", err)
	}
	return recs, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *Store) Close() {
	_ = s.client.Close()
}

func (d *document) record() (*contracts.Record, error) {
	date, err := time.Parse(contracts.DateLayout, d.Date)
	if err != nil {
		return nil, contracts.NewStoreError("decode", err)
	}
	return &contracts.Record{
		SignID:   d.SignID,
		SignName: d.SignName,
		Symbol:   d.Symbol,
		Text:     d.Text,
		Date:     date,
	}, nil
}
