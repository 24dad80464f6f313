package repositories

import (
	"context"
	"errors"

	"store/internal/models"
)

// ErrDocumentNotFound is returned by FindOne when no document has the id.
var ErrDocumentNotFound = errors.New("document not found")

// ProductCollection is the document store holding products. Implementations
// return raw store errors; classification happens in the service layer.
type ProductCollection interface {
	InsertOne(ctx context.Context, product *models.Product) error
	FindOne(ctx context.Context, id string) (*models.Product, error)
	// UpdateOne replaces the document with the given id and returns the
	// number of documents matched.
	UpdateOne(ctx context.Context, id string, product *models.Product) (int64, error)
	// DeleteOne returns the number of documents removed.
	DeleteOne(ctx context.Context, id string) (int64, error)
	// Find returns at most limit documents after skipping skip, in the
	// store's natural order.
	Find(ctx context.Context, skip, limit int64) ([]models.Product, error)
}
