package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"store/internal/apperr"
	"store/internal/models"
	"store/internal/pkg/clock"
	"store/internal/pkg/identity"
	"store/internal/repositories"
)

// ProductService handles business logic related to products. It owns
// identity and timestamp assignment and classifies every store failure.
type ProductService struct {
	coll  repositories.ProductCollection
	clock clock.Clock
	ids   identity.Generator
}

// NewProductService creates a new ProductService. A nil clock or generator
// falls back to the real ones.
func NewProductService(coll repositories.ProductCollection, clk clock.Clock, ids identity.Generator) *ProductService {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if ids == nil {
		ids = identity.UUIDGenerator{}
	}
	return &ProductService{
		coll:  coll,
		clock: clk,
		ids:   ids,
	}
}

// Create assigns an id and timestamps and inserts the product. The returned
// record is the one written, not a re-read.
func (s *ProductService) Create(ctx context.Context, in models.ProductIn) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	product := models.NewProduct(s.ids.NewID(), in, s.clock.Now())
	if err := s.coll.InsertOne(ctx, product); err != nil {
		return nil, apperr.Persistence("insert_one", err)
	}
	return product, nil
}

// Get retrieves a single product by its ID.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.coll.FindOne(ctx, id)
	if errors.Is(err, repositories.ErrDocumentNotFound) {
		return nil, apperr.NotFound(id)
	}
	if err != nil {
		return nil, apperr.Persistence("find_one", err)
	}
	if err := product.Validate(); err != nil {
		// %v keeps the stored document's problem from classifying as caller input.
		return nil, apperr.Persistence("find_one", fmt.Errorf("malformed product document %s: %v", id, err))
	}
	return product, nil
}

// Update merges the present fields of patch into the stored product and
// refreshes updated_at. Concurrent updates of one id are last-write-wins.
func (s *ProductService) Update(ctx context.Context, id string, patch models.ProductUpdate) (*models.Product, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := existing.WithUpdate(patch)
	merged.UpdatedAt = s.nextUpdatedAt(existing.UpdatedAt)

	matched, err := s.coll.UpdateOne(ctx, id, &merged)
	if err != nil {
		return nil, apperr.Persistence("update_one", err)
	}
	if matched == 0 {
		return nil, apperr.NotFound(id)
	}
	return &merged, nil
}

// nextUpdatedAt returns now, or one clock tick past previous when the clock
// has not moved beyond it.
func (s *ProductService) nextUpdatedAt(previous time.Time) time.Time {
	now := s.clock.Now()
	if !now.After(previous) {
		now = previous.Add(clock.Resolution)
	}
	return now
}

// Delete deletes a product by its ID.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	removed, err := s.coll.DeleteOne(ctx, id)
	if err != nil {
		return apperr.Persistence("delete_one", err)
	}
	if removed == 0 {
		return apperr.NotFound(id)
	}
	return nil
}

// List returns at most limit products after skipping offset, in the store's
// natural order. An out-of-range window yields an empty slice.
func (s *ProductService) List(ctx context.Context, offset, limit int) ([]models.Product, error) {
	verr := &apperr.ValidationError{}
	if offset < 0 {
		verr.Add("offset", "must be greater than or equal to 0")
	}
	if limit < 1 {
		verr.Add("limit", "must be greater than or equal to 1")
	}
	if verr.HasIssues() {
		return nil, verr
	}

	products, err := s.coll.Find(ctx, int64(offset), int64(limit))
	if err != nil {
		return nil, apperr.Persistence("find", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
