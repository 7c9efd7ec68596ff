package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/claystudio/storefront/pagination"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ProductFilter narrows a paged product query. An empty CategorySlug means
// no category filtering.
type ProductFilter struct {
	CategorySlug string
}

// ProductPage is one window of the product list plus paging metadata.
type ProductPage struct {
	Items      []Product `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func emptyProductPage(page, pageSize int) *ProductPage {
	return &ProductPage{
		Items:      []Product{},
		Page:       page,
		PageSize:   pageSize,
		TotalPages: 1,
	}
}

// PageProducts fetches the half-open row window [(page-1)*pageSize,
// page*pageSize) ordered by creation time descending, plus an exact count for
// the same predicate. A filter naming a slug with no matching category yields
// an empty page, not an error.
//
// The count runs before the window fetch, so a row written between the two
// can skew total by one for this response; the next fetch corrects it.
func (r *ProductsRepository) PageProducts(ctx context.Context, filter ProductFilter, page, pageSize int) (*ProductPage, error) {
	page, pageSize = pagination.Clamp(page, pageSize)

	query := r.db.WithContext(ctx).Model(&Product{})
	if filter.CategorySlug != "" {
		var cat Category
		err := r.db.WithContext(ctx).Where("slug = ?", filter.CategorySlug).Take(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyProductPage(page, pageSize), nil
		}
		if err != nil {
			return nil, err
		}
		query = query.Where("category_id = ?", cat.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	items := []Product{}
	if err := query.
		Preload("Category").
		Order("created_at DESC, id DESC").
		Offset(pagination.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &ProductPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pagination.TotalPages(total, pageSize),
	}, nil
}

// AllProducts returns the full catalog ordered by creation time descending.
// Used by the legacy read-only API.
func (r *ProductsRepository) AllProducts(ctx context.Context) ([]Product, error) {
	products := []Product{}
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC, id DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ProductsByCategorySlug returns every product in the named category. An
// unknown slug yields an empty slice.
func (r *ProductsRepository) ProductsByCategorySlug(ctx context.Context, slug string) ([]Product, error) {
	var cat Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []Product{}, nil
	}
	if err != nil {
		return nil, err
	}

	products := []Product{}
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ?", cat.ID).
		Order("created_at DESC, id DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetProductByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductsRepository) UpdateProduct(ctx context.Context, product *Product) error {
	res := r.db.WithContext(ctx).Model(&Product{ID: product.ID}).
		Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"category_id": product.CategoryID,
			"in_stock":    product.InStock,
			"price":       product.Price,
			"image":       product.Image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ImportProducts upserts rows from the legacy export, keyed by id.
func (r *ProductsRepository) ImportProducts(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&products).Error
}

func (r *ProductsRepository) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Product{}).Count(&total).Error
	return total, err
}
