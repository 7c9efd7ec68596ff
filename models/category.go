package models

// Category represents a product category.
// The slug is unique, URL-safe, and derived from the name when not supplied.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
}

func (c *Category) TableName() string {
	return "categories"
}
