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

// ErrCartNotFound is returned when no cart document exists for the owner.
var ErrCartNotFound = errors.New("cart not found")

// Item is a single cart line keyed by product reference.
type Item struct {
	ProductID string    `bson:"product_id" json:"productId"`
	Quantity  int64     `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"-"`
}

// Document is the persisted cart, one per owner.
type Document struct {
	Owner     string    `bson:"owner"`
	Items     []Item    `bson:"items"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store persists carts.
type Store interface {
	Get(ctx context.Context, owner string) (Document, error)
	AddItem(ctx context.Context, owner, productID string, quantity int64) error
	RemoveItem(ctx context.Context, owner, productID string) error
}

type mongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore builds a Store backed by the carts collection.
func NewMongoStore(db *mongo.Database) *mongoStore {
	return &mongoStore{collection: db.Collection("carts")}
}

// EnsureIndexes creates the unique owner index the merge path relies on.
func (s *mongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create cart indexes: %w", err)
	}
	return nil
}

func (s *mongoStore) Get(ctx context.Context, owner string) (Document, error) {
	var doc Document
	err := s.collection.FindOne(ctx, bson.M{"owner": owner}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, ErrCartNotFound
		}
		return Document{}, fmt.Errorf("get cart: %w", err)
	}
	return doc, nil
}

// AddItem merges quantity into an existing line or appends a new one, using
// single-document update operators so concurrent adds for the same owner and
// product never lose increments.
func (s *mongoStore) AddItem(ctx context.Context, owner, productID string, quantity int64) error {
	now := time.Now().UTC()

	// Two passes cover the window where another request appends the same
	// line between our increment miss and our guarded push.
	for attempt := 0; attempt < 2; attempt++ {
		matched, err := s.incrementLine(ctx, owner, productID, quantity, now)
		if err != nil {
			return err
		}
		if matched {
			return nil
		}

		appended, err := s.appendLine(ctx, owner, productID, quantity, now)
		if err != nil {
			return err
		}
		if appended {
			return nil
		}
	}
	return fmt.Errorf("add cart item: contention on owner %s product %s", owner, productID)
}

func (s *mongoStore) incrementLine(ctx context.Context, owner, productID string, quantity int64, now time.Time) (bool, error) {
	filter := bson.M{"owner": owner, "items.product_id": productID}
	update := bson.M{
		"$inc": bson.M{"items.$.quantity": quantity},
		"$set": bson.M{"updated_at": now},
	}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("increment cart item: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (s *mongoStore) appendLine(ctx context.Context, owner, productID string, quantity int64, now time.Time) (bool, error) {
	item := Item{ProductID: productID, Quantity: quantity, AddedAt: now}
	filter := bson.M{"owner": owner, "items.product_id": bson.M{"$ne": productID}}
	update := bson.M{
		"$push":        bson.M{"items": item},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(true)
	result, err := s.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		// A concurrent upsert for the same owner trips the unique owner
		// index; the line now exists, so retry the increment path.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("append cart item: %w", err)
	}
	if result.MatchedCount > 0 || result.UpsertedCount > 0 {
		return true, nil
	}
	// Document exists but the $ne guard failed: the line appeared after
	// the increment miss. Caller retries the increment.
	return false, nil
}

// RemoveItem pulls the product line from the owner's cart. The cart document
// itself is never deleted, an emptied cart stays around.
func (s *mongoStore) RemoveItem(ctx context.Context, owner, productID string) error {
	filter := bson.M{"owner": owner}
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"product_id": productID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}
