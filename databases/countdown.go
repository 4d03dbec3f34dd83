package databases

// go generate: mockery --name CountdownDatabase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/dispatch-console/models"
)

const countdownName = "countdowns"

// CountdownDatabase contains the methods to use with the countdown database
type CountdownDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Countdown, error)
	UpsertOne(context.Context, interface{}, interface{}) error
	DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) error
}

type countdownDatabase struct {
	db DatabaseHelper
}

// NewCountdownDatabase initializes a new instance of countdown database with the provided db connection
func NewCountdownDatabase(db DatabaseHelper) CountdownDatabase {
	return &countdownDatabase{
		db: db,
	}
}

func (c *countdownDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Countdown, error) {
	countdown := &models.Countdown{}
	err := c.db.Collection(countdownName).FindOne(ctx, filter, opts...).Decode(&countdown)
	if err != nil {
		return nil, err
	}
	return countdown, nil
}

func (c *countdownDatabase) UpsertOne(ctx context.Context, filter interface{}, update interface{}) error {
	_, err := c.db.Collection(countdownName).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (c *countdownDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := c.db.Collection(countdownName).DeleteOne(ctx, filter, opts...)
	return err
}

// CountdownStore persists countdown end times in the countdowns collection
type CountdownStore struct {
	DB CountdownDatabase
}

// NewCountdownStore wraps a CountdownDatabase as a countdown store
func NewCountdownStore(db DatabaseHelper) *CountdownStore {
	return &CountdownStore{DB: NewCountdownDatabase(db)}
}

// Load returns the value stored under key
func (s *CountdownStore) Load(ctx context.Context, key string) (string, bool, error) {
	doc, err := s.DB.FindOne(ctx, bson.M{"_id": key})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find countdown %s: %w", key, err)
	}
	return doc.Value, true, nil
}

// Save upserts value under key
func (s *CountdownStore) Save(ctx context.Context, key, value string) error {
	update := bson.M{
		"$set": bson.M{
			"value":     value,
			"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
		},
	}
	if err := s.DB.UpsertOne(ctx, bson.M{"_id": key}, update); err != nil {
		return fmt.Errorf("upsert countdown %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *CountdownStore) Delete(ctx context.Context, key string) error {
	if err := s.DB.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete countdown %s: %w", key, err)
	}
	return nil
}
