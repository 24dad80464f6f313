package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"store/internal/models"
)

// MemoryProductCollection is an in-memory implementation of ProductCollection.
// Its natural order is insertion order.
type MemoryProductCollection struct {
	products map[string]models.Product
	order    []string
	mu       sync.RWMutex
}

// NewMemoryProductCollection creates a new, empty MemoryProductCollection.
func NewMemoryProductCollection() *MemoryProductCollection {
	return &MemoryProductCollection{
		products: make(map[string]models.Product),
	}
}

// InsertOne adds a product. Inserting an id that already exists fails.
func (r *MemoryProductCollection) InsertOne(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; ok {
		return fmt.Errorf("duplicate product id %s", product.ID)
	}
	stored := *product
	stored.ID = strings.Clone(product.ID)
	r.products[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return nil
}

// FindOne returns a copy of the product with the given id.
func (r *MemoryProductCollection) FindOne(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return &product, nil
}

// UpdateOne replaces an existing product. The map keeps the key stored at
// insert time; id may be backed by a request buffer.
func (r *MemoryProductCollection) UpdateOne(ctx context.Context, id string, product *models.Product) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok {
		return 0, nil
	}
	updated := *product
	updated.ID = existing.ID
	r.products[existing.ID] = updated
	return 1, nil
}

// DeleteOne removes a product by its ID.
func (r *MemoryProductCollection) DeleteOne(ctx context.Context, id string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

// Find returns a window of products in insertion order.
func (r *MemoryProductCollection) Find(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if skip < 0 {
		skip = 0
	}
	productList := make([]models.Product, 0)
	for i := skip; i < int64(len(r.order)) && int64(len(productList)) < limit; i++ {
		productList = append(productList, r.products[r.order[i]])
	}
	return productList, nil
}
