package domain

import "time"

const (
	VendorNew      = "new"
	VendorReviewed = "reviewed"
	VendorAccepted = "accepted"
	VendorRejected = "rejected"
)

// VendorApplication is a food-vendor's request to join the hall.
type VendorApplication struct {
	ID           string `gorm:"primaryKey"`
	BusinessName string
	ContactName  string
	Email        string `gorm:"index"`
	Phone        string
	Cuisine      string
	Description  string
	Status       string `gorm:"index"` // new|reviewed|accepted|rejected
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
