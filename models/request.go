package models

import "time"

// Request statuses an admin can move an inquiry through.
const (
	RequestStatusNew        = "new"
	RequestStatusProcessing = "processing"
	RequestStatusDone       = "done"
)

// ValidRequestStatus reports whether s is an allowed triage status.
func ValidRequestStatus(s string) bool {
	switch s {
	case RequestStatusNew, RequestStatusProcessing, RequestStatusDone:
		return true
	}
	return false
}

// Request is a customer inquiry captured by the storefront. Requests are
// triaged by status in the admin panel and never deleted in-app.
type Request struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ClientName    string    `gorm:"not null" json:"client_name"`
	ClientPhone   string    `gorm:"not null" json:"client_phone"`
	ClientMessage string    `json:"client_message"`
	ProductID     *uint     `gorm:"index" json:"product_id"`
	Status        *string   `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r *Request) TableName() string {
	return "requests"
}
