package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"store/internal/models"
)

var created = time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)

func newProduct(n int) *models.Product {
	return &models.Product{
		ID:        fmt.Sprintf("00000000-0000-4000-8000-%012d", n),
		Name:      fmt.Sprintf("Product %d", n),
		Quantity:  n,
		Price:     float64(n) + 0.5,
		Status:    true,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func assertSameProduct(t *testing.T, want, got *models.Product) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Quantity, got.Quantity)
	assert.Equal(t, want.Price, got.Price)
	assert.Equal(t, want.Status, got.Status)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updated_at %v != %v", want.UpdatedAt, got.UpdatedAt)
}

// runCollectionContract exercises the behaviour every ProductCollection must share.
func runCollectionContract(t *testing.T, newCollection func(t *testing.T) ProductCollection) {
	ctx := context.Background()

	t.Run("InsertAndFind", func(t *testing.T) {
		coll := newCollection(t)
		p := newProduct(1)
		require.NoError(t, coll.InsertOne(ctx, p))

		got, err := coll.FindOne(ctx, p.ID)
		require.NoError(t, err)
		assertSameProduct(t, p, got)
	})

	t.Run("FindMissing", func(t *testing.T) {
		coll := newCollection(t)
		_, err := coll.FindOne(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("UpdateOne", func(t *testing.T) {
		coll := newCollection(t)
		p := newProduct(2)
		require.NoError(t, coll.InsertOne(ctx, p))

		changed := *p
		changed.Quantity = 0
		changed.Status = false
		changed.UpdatedAt = created.Add(time.Minute)
		matched, err := coll.UpdateOne(ctx, p.ID, &changed)
		require.NoError(t, err)
		assert.Equal(t, int64(1), matched)

		got, err := coll.FindOne(ctx, p.ID)
		require.NoError(t, err)
		assertSameProduct(t, &changed, got)

		matched, err = coll.UpdateOne(ctx, "nonexistent-id", &changed)
		require.NoError(t, err)
		assert.Equal(t, int64(0), matched)
	})

	t.Run("DeleteOne", func(t *testing.T) {
		coll := newCollection(t)
		p := newProduct(3)
		require.NoError(t, coll.InsertOne(ctx, p))

		removed, err := coll.DeleteOne(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		removed, err = coll.DeleteOne(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), removed)

		_, err = coll.FindOne(ctx, p.ID)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("FindBounds", func(t *testing.T) {
		coll := newCollection(t)
		for i := 1; i <= 5; i++ {
			require.NoError(t, coll.InsertOne(ctx, newProduct(i)))
		}

		page, err := coll.Find(ctx, 0, 2)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		page, err = coll.Find(ctx, 3, 10)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		page, err = coll.Find(ctx, 5, 10)
		require.NoError(t, err)
		assert.NotNil(t, page)
		assert.Empty(t, page)
	})
}

func TestMemoryProductCollection(t *testing.T) {
	runCollectionContract(t, func(t *testing.T) ProductCollection {
		return NewMemoryProductCollection()
	})
}

func TestMemoryProductCollection_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryProductCollection()
	for _, n := range []int{3, 1, 2} {
		require.NoError(t, coll.InsertOne(ctx, newProduct(n)))
	}
	_, err := coll.DeleteOne(ctx, newProduct(1).ID)
	require.NoError(t, err)

	page, err := coll.Find(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, newProduct(3).ID, page[0].ID)
	assert.Equal(t, newProduct(2).ID, page[1].ID)
}

func TestMemoryProductCollection_DuplicateID(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryProductCollection()
	require.NoError(t, coll.InsertOne(ctx, newProduct(1)))
	assert.Error(t, coll.InsertOne(ctx, newProduct(1)))
}

func TestMemoryProductCollection_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	coll := NewMemoryProductCollection()

	assert.ErrorIs(t, coll.InsertOne(ctx, newProduct(1)), context.Canceled)
	_, err := coll.FindOne(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = coll.Find(ctx, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryProductCollection_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryProductCollection()
	p := newProduct(1)
	require.NoError(t, coll.InsertOne(ctx, p))

	p.Name = "mutated after insert"
	got, err := coll.FindOne(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Product 1", got.Name)

	got.Name = "mutated after find"
	again, err := coll.FindOne(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Product 1", again.Name)
}

func TestGORMProductCollection(t *testing.T) {
	runCollectionContract(t, func(t *testing.T) ProductCollection {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		t.Cleanup(func() { sqlDB.Close() })

		coll := NewGORMProductCollection(db)
		require.NoError(t, coll.Migrate(context.Background()))
		return coll
	})
}

// borrowed returns a string sharing buf's memory, like a request parameter
// that is only valid while the request is being handled.
func borrowed(buf []byte) string {
	return unsafe.String(&buf[0], len(buf))
}

func TestMemoryProductCollection_KeysOutliveCallerBuffers(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryProductCollection()
	p := newProduct(1)
	want := p.ID

	insertBuf := []byte(want)
	inserted := *p
	inserted.ID = borrowed(insertBuf)
	require.NoError(t, coll.InsertOne(ctx, &inserted))
	copy(insertBuf, strings.Repeat("x", len(insertBuf)))

	updateBuf := []byte(want)
	changed := *p
	changed.Quantity = 42
	matched, err := coll.UpdateOne(ctx, borrowed(updateBuf), &changed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)
	copy(updateBuf, strings.Repeat("y", len(updateBuf)))

	got, err := coll.FindOne(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, want, got.ID)
	assert.Equal(t, 42, got.Quantity)

	page, err := coll.Find(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, want, page[0].ID)
}
