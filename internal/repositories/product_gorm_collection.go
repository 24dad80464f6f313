package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"store/internal/models"
)

// GORMProductCollection is a GORM implementation of ProductCollection. Each
// product document is one row of the products table.
type GORMProductCollection struct {
	db *gorm.DB
}

// NewGORMProductCollection creates a new instance of GORMProductCollection.
func NewGORMProductCollection(db *gorm.DB) *GORMProductCollection {
	return &GORMProductCollection{
		db: db,
	}
}

// Migrate creates or updates the products table.
func (r *GORMProductCollection) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate products table: %w", err)
	}
	return nil
}

// InsertOne creates a new product row.
func (r *GORMProductCollection) InsertOne(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindOne retrieves a single product by its ID.
func (r *GORMProductCollection) FindOne(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Take(&product, models.FieldID+" = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// UpdateOne overwrites every column of the row with the given id.
func (r *GORMProductCollection) UpdateOne(ctx context.Context, id string, product *models.Product) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where(models.FieldID+" = ?", id).
		Updates(map[string]interface{}{
			models.FieldName:      product.Name,
			models.FieldQuantity:  product.Quantity,
			models.FieldPrice:     product.Price,
			models.FieldStatus:    product.Status,
			models.FieldCreatedAt: product.CreatedAt,
			models.FieldUpdatedAt: product.UpdatedAt,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update product: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteOne deletes a product by its ID.
func (r *GORMProductCollection) DeleteOne(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, models.FieldID+" = ?", id)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete product: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Find returns a window of rows without an explicit ORDER BY.
func (r *GORMProductCollection) Find(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	products := make([]models.Product, 0)
	err := r.db.WithContext(ctx).
		Offset(int(skip)).
		Limit(int(limit)).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
