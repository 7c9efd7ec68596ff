package models

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&Category{}, &Product{}, &Request{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *Category {
	t.Helper()
	cat := &Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func seedProduct(t *testing.T, db *gorm.DB, name string, categoryID *uint, createdAt time.Time) *Product {
	t.Helper()
	p := &Product{
		Name:       name,
		CategoryID: categoryID,
		InStock:    true,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestPageProductsWindowAndOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductsRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedProduct(t, db, fmt.Sprintf("product-%02d", i), nil, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := repo.PageProducts(ctx, ProductFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 20)
	// Newest first.
	assert.Equal(t, "product-24", page.Items[0].Name)
	assert.Equal(t, "product-05", page.Items[19].Name)

	page, err = repo.PageProducts(ctx, ProductFilter{}, 2, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, "product-04", page.Items[0].Name)
	assert.Equal(t, "product-00", page.Items[4].Name)

	// Past the end: still a valid response, caller clamps with TotalPages.
	page, err = repo.PageProducts(ctx, ProductFilter{}, 3, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 0)
	assert.Equal(t, 2, page.TotalPages)
}

func TestPageProductsClampsInputs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductsRepository(db)

	seedProduct(t, db, "only", nil, time.Now())

	page, err := repo.PageProducts(context.Background(), ProductFilter{}, -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.PageSize)
	assert.Len(t, page.Items, 1)
}

func TestPageProductsCategoryFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductsRepository(db)
	ctx := context.Background()

	cat := seedCategory(t, db, "Керамика", "keramika")
	other := seedCategory(t, db, "Vases", "vases")
	seedProduct(t, db, "plate", &cat.ID, time.Now())
	seedProduct(t, db, "vase", &other.ID, time.Now())
	seedProduct(t, db, "uncategorized", nil, time.Now())

	page, err := repo.PageProducts(ctx, ProductFilter{CategorySlug: "keramika"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "plate", page.Items[0].Name)
	require.NotNil(t, page.Items[0].Category)
	assert.Equal(t, "Керамика", page.Items[0].Category.Name)
}

func TestPageProductsUnknownSlugIsEmptyPageNotError(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductsRepository(db)

	seedProduct(t, db, "p", nil, time.Now())

	page, err := repo.PageProducts(context.Background(), ProductFilter{CategorySlug: "nope"}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Len(t, page.Items, 0)
	assert.Equal(t, 1, page.TotalPages)
}

func TestProductPriceRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductsRepository(db)
	ctx := context.Background()

	price, err := decimal.NewFromString("45.5")
	require.NoError(t, err)

	p := &Product{Name: "Тарелка", Price: decimal.NullDecimal{Decimal: price, Valid: true}}
	require.NoError(t, repo.CreateProduct(ctx, p))

	got, err := repo.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, got.Price.Valid)
	assert.Equal(t, 45.5, got.Price.Decimal.InexactFloat64())
}

func TestDeleteCategoryOrphansProducts(t *testing.T) {
	db := setupTestDB(t)
	categories := NewCategoriesRepository(db)
	products := NewProductsRepository(db)
	ctx := context.Background()

	cat := seedCategory(t, db, "Керамика", "keramika")
	p := seedProduct(t, db, "plate", &cat.ID, time.Now())

	require.NoError(t, categories.DeleteCategory(ctx, cat.ID))

	got, err := products.GetProductByID(ctx, p.ID)
	require.NoError(t, err, "products must survive category deletion")
	assert.Nil(t, got.CategoryID, "orphaned product reads as no category")

	_, err = categories.GetCategoryByID(ctx, cat.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategoryMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoriesRepository(db)

	err := repo.DeleteCategory(context.Background(), 999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateProductClearsFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductsRepository(db)
	ctx := context.Background()

	cat := seedCategory(t, db, "Bowls", "bowls")
	img := "https://cdn.example.com/a.jpg"
	p := &Product{
		Name:       "bowl",
		CategoryID: &cat.ID,
		Image:      &img,
		Price:      decimal.NullDecimal{Decimal: decimal.NewFromInt(10), Valid: true},
	}
	require.NoError(t, repo.CreateProduct(ctx, p))

	// Update that removes the category, price and image entirely.
	p.CategoryID = nil
	p.Image = nil
	p.Price = decimal.NullDecimal{}
	require.NoError(t, repo.UpdateProduct(ctx, p))

	got, err := repo.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Image)
	assert.False(t, got.Price.Valid)
}

func TestProductsByCategorySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductsRepository(db)
	ctx := context.Background()

	cat := seedCategory(t, db, "Bowls", "bowls")
	seedProduct(t, db, "bowl", &cat.ID, time.Now())

	got, err := repo.ProductsByCategorySlug(ctx, "bowls")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.ProductsByCategorySlug(ctx, "unknown")
	require.NoError(t, err)
	assert.Len(t, got, 0)
}

func TestRequestLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestsRepository(db)
	ctx := context.Background()

	status := RequestStatusNew
	req := &Request{ClientName: "Anna", ClientPhone: "+371 20000000", Status: &status}
	require.NoError(t, repo.CreateRequest(ctx, req))

	require.NoError(t, repo.UpdateRequestStatus(ctx, req.ID, RequestStatusDone))

	page, err := repo.PageRequests(ctx, RequestFilter{Status: RequestStatusDone}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].Status)
	assert.Equal(t, RequestStatusDone, *page.Items[0].Status)

	page, err = repo.PageRequests(ctx, RequestFilter{Status: RequestStatusNew}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 0)

	assert.ErrorIs(t, repo.UpdateRequestStatus(ctx, 999, RequestStatusDone), ErrRequestNotFound)
}

func TestCountRequestsByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestsRepository(db)
	ctx := context.Background()

	newStatus := RequestStatusNew
	done := RequestStatusDone
	require.NoError(t, repo.CreateRequest(ctx, &Request{ClientName: "a", ClientPhone: "1", Status: &newStatus}))
	require.NoError(t, repo.CreateRequest(ctx, &Request{ClientName: "b", ClientPhone: "2", Status: &done}))
	// Status null counts as new.
	require.NoError(t, repo.CreateRequest(ctx, &Request{ClientName: "c", ClientPhone: "3"}))

	counts, err := repo.CountRequestsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[RequestStatusNew])
	assert.Equal(t, int64(1), counts[RequestStatusDone])
}

func TestImportCategoriesUpsertsBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoriesRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ImportCategories(ctx, []Category{{ID: 1, Name: "Old", Slug: "keramika"}}))
	require.NoError(t, repo.ImportCategories(ctx, []Category{{ID: 2, Name: "Керамика", Slug: "keramika"}}))

	got, err := repo.GetCategoryBySlug(ctx, "keramika")
	require.NoError(t, err)
	assert.Equal(t, "Керамика", got.Name)

	total, err := repo.CountCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
