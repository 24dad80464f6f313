package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"store/internal/models"
)

// MongoProductCollection stores products as documents in a MongoDB
// collection, addressed by their "id" field rather than "_id".
type MongoProductCollection struct {
	coll *mongo.Collection
}

// NewMongoProductCollection wraps an existing collection handle.
func NewMongoProductCollection(coll *mongo.Collection) *MongoProductCollection {
	return &MongoProductCollection{coll: coll}
}

// EnsureIndexes creates the unique index on id used by every lookup.
func (r *MongoProductCollection) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: models.FieldID, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("product_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create product id index: %w", err)
	}
	return nil
}

func byID(id string) bson.D {
	return bson.D{{Key: models.FieldID, Value: id}}
}

// InsertOne inserts the product document.
func (r *MongoProductCollection) InsertOne(ctx context.Context, product *models.Product) error {
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// FindOne loads the document with the given id.
func (r *MongoProductCollection) FindOne(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.coll.FindOne(ctx, byID(id)).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", id, err)
	}
	return &product, nil
}

// UpdateOne sets every field of the stored document to the product's values.
func (r *MongoProductCollection) UpdateOne(ctx context.Context, id string, product *models.Product) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, byID(id), bson.D{{Key: "$set", Value: product}})
	if err != nil {
		return 0, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return res.MatchedCount, nil
}

// DeleteOne removes the document with the given id.
func (r *MongoProductCollection) DeleteOne(ctx context.Context, id string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return 0, fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return res.DeletedCount, nil
}

// Find runs an unsorted bounded query.
func (r *MongoProductCollection) Find(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, findOptions(skip, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cur.Close(ctx)

	products := make([]models.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func findOptions(skip, limit int64) *options.FindOptions {
	return options.Find().SetSkip(skip).SetLimit(limit)
}
