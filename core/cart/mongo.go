package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo persists carts in a collection keyed by cart id, the payload kept
// as the raw JSON the store produced.
type Mongo struct {
	collection *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{collection: db.Collection("carts")}
}

type mongoCart struct {
	CartID    string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (m *Mongo) Load(ctx context.Context, cartID string) ([]byte, error) {
	var doc mongoCart

	filter := bson.M{"_id": cartID}
	if err := m.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading cart[%s]: %w", cartID, err)
	}

	return doc.Payload, nil
}

func (m *Mongo) Save(ctx context.Context, cartID string, payload []byte) error {
	doc := mongoCart{
		CartID:    cartID,
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}

	filter := bson.M{"_id": cartID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("saving cart[%s]: %w", cartID, err)
	}

	return nil
}

func (m *Mongo) Delete(ctx context.Context, cartID string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": cartID}); err != nil {
		return fmt.Errorf("deleting cart[%s]: %w", cartID, err)
	}

	return nil
}
