package events

import (
	"encoding/json"
	"fmt"
)

const (
	RKBookingCreated   = "booking.created"
	RKBookingConfirmed = "booking.confirmed"
	RKBookingCancelled = "booking.cancelled"

	RKPaymentPaid   = "payment.paid"
	RKPaymentFailed = "payment.failed"

	RKReminderDue   = "reminder.due"
	RKVendorApplied = "vendor.applied"
)

// BookingCreated carries enough for a guest-facing message.
type BookingCreated struct {
	BookingID  string `json:"booking_id"`
	Experience string `json:"experience"`
	Date       string `json:"date"`
	TimeSlot   string `json:"time_slot"`
	Guests     int    `json:"guests"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

type BookingConfirmed struct {
	BookingID  string `json:"booking_id"`
	GuestEmail string `json:"guest_email"`
	Experience string `json:"experience"`
}

type BookingSimple struct {
	BookingID string `json:"booking_id"`
}

type PaymentEnvelope struct {
	Event string `json:"event"`
	Data  struct {
		PaymentID string `json:"payment_id"`
		BookingID string `json:"booking_id"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Reason    string `json:"reason"`
	} `json:"data"`
}

type ReminderDue struct {
	BookingID  string  `json:"booking_id"`
	Type       string  `json:"type"` // 24h | 2h
	GuestName  string  `json:"guest_name"`
	GuestEmail string  `json:"guest_email"`
	Experience string  `json:"experience"`
	StartsAt   string  `json:"starts_at"` // RFC3339
	HoursUntil float64 `json:"hours_until"`
}

type VendorApplied struct {
	ApplicationID string `json:"application_id"`
	BusinessName  string `json:"business_name"`
	Cuisine       string `json:"cuisine"`
}

func MustUnmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
