package domain

import (
	"fmt"
	"time"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"

	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

type ReminderKind string

const (
	Reminder24h ReminderKind = "24h"
	Reminder2h  ReminderKind = "2h"
)

type Booking struct {
	ID             string `gorm:"primaryKey"`
	ExperienceID   string `gorm:"index"`
	ExperienceSlug string `gorm:"index"`

	BookingDate time.Time `gorm:"type:date;index"`
	TimeSlot    string    // HH:mm start of the slot
	GuestCount  int

	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string

	// Taste Compass / passport extras from the booking form
	TasteSectors    string
	PassportEnabled bool
	NFCPassportID   string

	PaymentStatus     string `gorm:"index"` // pending|paid|failed
	PaymentAmount     int64  // minor units
	Currency          string
	Status            string `gorm:"index"` // pending|confirmed|cancelled
	CheckoutSessionID string `gorm:"index"`

	Reminder24hSentAt *time.Time
	Reminder2hSentAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartsAt combines BookingDate and TimeSlot into the slot's UTC start.
func (b *Booking) StartsAt() (time.Time, error) {
	hm, err := time.Parse("15:04", b.TimeSlot)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time slot %q: %w", b.TimeSlot, err)
	}
	d := b.BookingDate.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), hm.Hour(), hm.Minute(), 0, 0, time.UTC), nil
}

// HoldsSeats reports whether the booking still counts against the
// experience capacity. A cancellation or a failed payment gives the
// seats back exactly once; any later transition must not release
// them again.
func (b *Booking) HoldsSeats() bool {
	return b.Status != BookingCancelled && b.PaymentStatus != PaymentFailed
}

// Confirm moves a pending booking to confirmed and reports whether
// the transition happened. Cancelled bookings stay cancelled: their
// seats are already released, so a late payment must not resurrect
// the claim.
func (b *Booking) Confirm() bool {
	if b.Status != BookingPending {
		return false
	}
	b.Status = BookingConfirmed
	b.PaymentStatus = PaymentPaid
	return true
}

// FailPayment marks the payment failed and cancels the booking.
// changed reports whether anything was modified, release whether the
// seats were still held and must now go back.
func (b *Booking) FailPayment() (changed, release bool) {
	if b.PaymentStatus == PaymentFailed {
		return false, false
	}
	release = b.HoldsSeats()
	b.PaymentStatus = PaymentFailed
	b.Status = BookingCancelled
	return true, release
}

// Cancel moves the booking to cancelled. release reports whether the
// seats were still held; ErrInvalidStatus when already cancelled.
func (b *Booking) Cancel() (release bool, err error) {
	if b.Status == BookingCancelled {
		return false, ErrInvalidStatus
	}
	release = b.HoldsSeats()
	b.Status = BookingCancelled
	return release, nil
}

func (b *Booking) ReminderSentAt(kind ReminderKind) *time.Time {
	if kind == Reminder2h {
		return b.Reminder2hSentAt
	}
	return b.Reminder24hSentAt
}

// EventConsumed records broker events already applied, so consuming
// payment.paid twice cannot double-confirm a booking.
type EventConsumed struct {
	ID          string `gorm:"primaryKey"` // event unique id (payment id or composed key)
	EventKey    string `gorm:"index"`
	ProcessedAt time.Time
}
