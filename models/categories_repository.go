package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/claystudio/storefront/pagination"
)

type CategoriesRepository struct {
	db *gorm.DB
}

// CategoryPage is one window of the category list plus paging metadata.
type CategoryPage struct {
	Items      []Category `json:"items"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

func (r *CategoriesRepository) AllCategories(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepository) PageCategories(ctx context.Context, page, pageSize int) (*CategoryPage, error) {
	page, pageSize = pagination.Clamp(page, pageSize)

	var total int64
	if err := r.db.WithContext(ctx).Model(&Category{}).Count(&total).Error; err != nil {
		return nil, err
	}

	items := []Category{}
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Offset(pagination.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &CategoryPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pagination.TotalPages(total, pageSize),
	}, nil
}

func (r *CategoriesRepository) GetCategoryByID(ctx context.Context, id uint) (*Category, error) {
	var cat Category
	if err := r.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoriesRepository) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var cat Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoriesRepository) UpdateCategory(ctx context.Context, category *Category) error {
	res := r.db.WithContext(ctx).Model(&Category{ID: category.ID}).
		Updates(map[string]any{
			"name": category.Name,
			"slug": category.Slug,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes the category and orphans its products to "no
// category". The two steps run in one transaction so a half-applied delete is
// never observable.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}

// ImportCategories upserts rows from the legacy export, keyed by slug.
func (r *CategoriesRepository) ImportCategories(ctx context.Context, categories []Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Create(&categories).Error
}

func (r *CategoriesRepository) CountCategories(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Category{}).Count(&total).Error
	return total, err
}
