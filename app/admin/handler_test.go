package admin

import (
	"context"
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/claystudio/storefront/models"
	"github.com/claystudio/storefront/storage"
)

// --- Mock Stores ---

type MockCategoryStore struct {
	Categories []models.Category
	Err        error

	lastCreated  *models.Category
	lastUpdated  *models.Category
	lastDeleted  uint
	lastImported []models.Category
}

func (m *MockCategoryStore) PageCategories(_ context.Context, page, pageSize int) (*models.CategoryPage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.CategoryPage{
		Items:      m.Categories,
		Total:      int64(len(m.Categories)),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: 1,
	}, nil
}

func (m *MockCategoryStore) GetCategoryByID(_ context.Context, id uint) (*models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, cat := range m.Categories {
		if cat.ID == id {
			c := cat
			return &c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *MockCategoryStore) CreateCategory(_ context.Context, category *models.Category) error {
	if m.Err != nil {
		return m.Err
	}
	category.ID = uint(len(m.Categories) + 1)
	m.lastCreated = category
	return nil
}

func (m *MockCategoryStore) UpdateCategory(_ context.Context, category *models.Category) error {
	if m.Err != nil {
		return m.Err
	}
	for _, cat := range m.Categories {
		if cat.ID == category.ID {
			m.lastUpdated = category
			return nil
		}
	}
	return models.ErrCategoryNotFound
}

func (m *MockCategoryStore) DeleteCategory(_ context.Context, id uint) error {
	if m.Err != nil {
		return m.Err
	}
	for _, cat := range m.Categories {
		if cat.ID == id {
			m.lastDeleted = id
			return nil
		}
	}
	return models.ErrCategoryNotFound
}

func (m *MockCategoryStore) ImportCategories(_ context.Context, categories []models.Category) error {
	if m.Err != nil {
		return m.Err
	}
	m.lastImported = categories
	return nil
}

func (m *MockCategoryStore) CountCategories(_ context.Context) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.Categories)), nil
}

type MockProductStore struct {
	Products []models.Product
	Err      error

	lastCreated  *models.Product
	lastUpdated  *models.Product
	lastDeleted  uint
	lastImported []models.Product
}

func (m *MockProductStore) PageProducts(_ context.Context, _ models.ProductFilter, page, pageSize int) (*models.ProductPage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.ProductPage{
		Items:      m.Products,
		Total:      int64(len(m.Products)),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: 1,
	}, nil
}

func (m *MockProductStore) GetProductByID(_ context.Context, id uint) (*models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *MockProductStore) CreateProduct(_ context.Context, product *models.Product) error {
	if m.Err != nil {
		return m.Err
	}
	product.ID = uint(len(m.Products) + 1)
	m.lastCreated = product
	return nil
}

func (m *MockProductStore) UpdateProduct(_ context.Context, product *models.Product) error {
	if m.Err != nil {
		return m.Err
	}
	for _, p := range m.Products {
		if p.ID == product.ID {
			m.lastUpdated = product
			return nil
		}
	}
	return models.ErrProductNotFound
}

func (m *MockProductStore) DeleteProduct(_ context.Context, id uint) error {
	if m.Err != nil {
		return m.Err
	}
	for _, p := range m.Products {
		if p.ID == id {
			m.lastDeleted = id
			return nil
		}
	}
	return models.ErrProductNotFound
}

func (m *MockProductStore) ImportProducts(_ context.Context, products []models.Product) error {
	if m.Err != nil {
		return m.Err
	}
	m.lastImported = products
	return nil
}

func (m *MockProductStore) CountProducts(_ context.Context) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.Products)), nil
}

type MockRequestStore struct {
	Requests []models.Request
	Counts   map[string]int64
	Err      error

	lastStatusID    uint
	lastStatusValue string
	lastFilter      models.RequestFilter
}

func (m *MockRequestStore) PageRequests(_ context.Context, filter models.RequestFilter, page, pageSize int) (*models.RequestPage, error) {
	m.lastFilter = filter
	if m.Err != nil {
		return nil, m.Err
	}
	return &models.RequestPage{
		Items:      m.Requests,
		Total:      int64(len(m.Requests)),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: 1,
	}, nil
}

func (m *MockRequestStore) UpdateRequestStatus(_ context.Context, id uint, status string) error {
	if m.Err != nil {
		return m.Err
	}
	for _, req := range m.Requests {
		if req.ID == id {
			m.lastStatusID = id
			m.lastStatusValue = status
			return nil
		}
	}
	return models.ErrRequestNotFound
}

func (m *MockRequestStore) CountRequestsByStatus(_ context.Context) (map[string]int64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	counts := map[string]int64{}
	for status, n := range m.Counts {
		counts[status] = n
	}
	return counts, nil
}

// FailingStore errors on every cache call; reads report the error, not a hit.
type FailingStore struct{}

func (FailingStore) Get(_ context.Context, _ string, _ any) (bool, error) {
	return false, errors.New("cache down")
}

func (FailingStore) Set(_ context.Context, _ string, _ any) error {
	return errors.New("cache down")
}

func (FailingStore) DeleteByPrefix(_ context.Context, _ string) error {
	return errors.New("cache down")
}

// MockObjectStore records calls and can fail removals on demand.
type MockObjectStore struct {
	RemoveErr error

	removedKeys []string
}

func (m *MockObjectStore) Upload(_ context.Context, _ string, _ []byte, _ string) error {
	return nil
}

func (m *MockObjectStore) Get(_ context.Context, _ string) ([]byte, string, error) {
	return nil, "", storage.ErrObjectNotFound
}

func (m *MockObjectStore) Remove(_ context.Context, key string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.removedKeys = append(m.removedKeys, key)
	return nil
}

func (m *MockObjectStore) PublicURL(key string) string {
	return "/uploads/" + key
}

func (m *MockObjectStore) KeyFromPublicURL(rawURL string) string {
	key, found := strings.CutPrefix(rawURL, "/uploads/")
	if !found {
		return ""
	}
	return key
}

// --- Helpers ---

type adminFixture struct {
	categories *MockCategoryStore
	products   *MockProductStore
	requests   *MockRequestStore
	objects    *MockObjectStore
	handler    *AdminHandler
	router     *gin.Engine
}

func newAdminFixture() *adminFixture {
	gin.SetMode(gin.TestMode)

	f := &adminFixture{
		categories: &MockCategoryStore{},
		products:   &MockProductStore{},
		requests:   &MockRequestStore{},
		objects:    &MockObjectStore{},
	}
	f.handler = NewAdminHandler(f.categories, f.products, f.requests, f.objects, nil, nil, nil)

	r := gin.New()
	r.GET("/admin/categories", f.handler.HandleListCategories)
	r.POST("/admin/categories", f.handler.HandleCreateCategory)
	r.PUT("/admin/categories/:id", f.handler.HandleUpdateCategory)
	r.DELETE("/admin/categories/:id", f.handler.HandleDeleteCategory)
	r.GET("/admin/products", f.handler.HandleListProducts)
	r.POST("/admin/products", f.handler.HandleCreateProduct)
	r.PUT("/admin/products/:id", f.handler.HandleUpdateProduct)
	r.DELETE("/admin/products/:id", f.handler.HandleDeleteProduct)
	r.GET("/admin/requests", f.handler.HandleListRequests)
	r.PUT("/admin/requests/:id/status", f.handler.HandleUpdateRequestStatus)
	r.GET("/admin/stats", f.handler.HandleStats)
	r.POST("/admin/import/categories", f.handler.HandleImportCategories)
	r.POST("/admin/import/products", f.handler.HandleImportProducts)
	f.router = r
	return f
}

func (f *adminFixture) do(method, target, body, contentType string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *adminFixture) doJSON(method, target, body string) *httptest.ResponseRecorder {
	return f.do(method, target, body, "application/json")
}

func (f *adminFixture) doForm(method, target string, form url.Values) *httptest.ResponseRecorder {
	return f.do(method, target, form.Encode(), "application/x-www-form-urlencoded")
}
