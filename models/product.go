package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item. CategoryID is nullable: deleting a
// category orphans its products to "no category" instead of cascading.
type Product struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	Name        string              `gorm:"not null" json:"name"`
	Description string              `json:"description"`
	CategoryID  *uint               `gorm:"index" json:"category_id"`
	Category    *Category           `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	InStock     bool                `json:"in_stock"`
	Price       decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	Image       *string             `json:"image"`
	CreatedAt   time.Time           `json:"created_at"`
}

func (p *Product) TableName() string {
	return "products"
}
