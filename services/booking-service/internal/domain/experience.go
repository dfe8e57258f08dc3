package domain

import "time"

// Experience is a bookable experience type (e.g. "Chef's Table").
type Experience struct {
	ID          string `gorm:"primaryKey"`
	Slug        string `gorm:"uniqueIndex"`
	Title       string
	Description string
	Price       int64 // minor units per guest
	Currency    string
	Capacity    int // max attendees per slot
	SeatsBooked int // current attendees
	IsPublic    bool `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SeatsLeft is informational only; the authoritative check is the
// conditional update in the repository.
func (e *Experience) SeatsLeft() int {
	return e.Capacity - e.SeatsBooked
}
