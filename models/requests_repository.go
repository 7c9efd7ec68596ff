package models

import (
	"context"

	"gorm.io/gorm"

	"github.com/claystudio/storefront/pagination"
)

type RequestsRepository struct {
	db *gorm.DB
}

// RequestFilter narrows a paged request query. An empty Status means all
// requests.
type RequestFilter struct {
	Status string
}

// RequestPage is one window of the inquiry list plus paging metadata.
type RequestPage struct {
	Items      []Request `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

func NewRequestsRepository(db *gorm.DB) *RequestsRepository {
	return &RequestsRepository{
		db: db,
	}
}

func (r *RequestsRepository) PageRequests(ctx context.Context, filter RequestFilter, page, pageSize int) (*RequestPage, error) {
	page, pageSize = pagination.Clamp(page, pageSize)

	query := r.db.WithContext(ctx).Model(&Request{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	items := []Request{}
	if err := query.
		Order("created_at DESC, id DESC").
		Offset(pagination.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &RequestPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pagination.TotalPages(total, pageSize),
	}, nil
}

func (r *RequestsRepository) CreateRequest(ctx context.Context, request *Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// UpdateRequestStatus moves an inquiry through triage. Requests are never
// deleted, only restatused.
func (r *RequestsRepository) UpdateRequestStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&Request{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// CountRequestsByStatus returns inquiry counts keyed by status. Rows with no
// status are counted under "new".
func (r *RequestsRepository) CountRequestsByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status *string
		Total  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&Request{}).
		Select("status, count(*) as total").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, rw := range rows {
		status := RequestStatusNew
		if rw.Status != nil && *rw.Status != "" {
			status = *rw.Status
		}
		counts[status] += rw.Total
	}
	return counts, nil
}
