package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStartsAt(t *testing.T) {
	b := Booking{
		BookingDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "19:30",
	}
	got, err := b.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 19, 30, 0, 0, time.UTC), got)
}

func TestBookingStartsAtBadSlot(t *testing.T) {
	b := Booking{
		BookingDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "evening",
	}
	_, err := b.StartsAt()
	assert.Error(t, err)
}

func TestBookingTransitions(t *testing.T) {
	pending := func() *Booking {
		return &Booking{ID: "b1", Status: BookingPending, PaymentStatus: PaymentPending, GuestCount: 2}
	}

	t.Run("confirm from pending", func(t *testing.T) {
		b := pending()
		assert.True(t, b.Confirm())
		assert.Equal(t, BookingConfirmed, b.Status)
		assert.Equal(t, PaymentPaid, b.PaymentStatus)
		assert.False(t, b.Confirm(), "second confirm must be a no-op")
	})

	t.Run("payment failure then cancel releases seats once", func(t *testing.T) {
		b := pending()
		changed, release := b.FailPayment()
		assert.True(t, changed)
		assert.True(t, release)
		assert.False(t, b.HoldsSeats())

		_, err := b.Cancel()
		assert.ErrorIs(t, err, ErrInvalidStatus, "cancel after failed payment must not release again")
	})

	t.Run("cancel then late payment keeps booking cancelled", func(t *testing.T) {
		b := pending()
		release, err := b.Cancel()
		require.NoError(t, err)
		assert.True(t, release)

		assert.False(t, b.Confirm(), "a paid charge must not resurrect a cancelled booking")
		assert.Equal(t, BookingCancelled, b.Status)
	})

	t.Run("payment failure applied twice changes nothing", func(t *testing.T) {
		b := pending()
		b.FailPayment()
		changed, release := b.FailPayment()
		assert.False(t, changed)
		assert.False(t, release)
	})

	t.Run("cancel of confirmed booking releases seats", func(t *testing.T) {
		b := pending()
		require.True(t, b.Confirm())
		release, err := b.Cancel()
		require.NoError(t, err)
		assert.True(t, release)
	})

	t.Run("cancel after failed payment on old rows releases nothing", func(t *testing.T) {
		// rows written before failures cancelled the booking
		b := &Booking{ID: "b2", Status: BookingPending, PaymentStatus: PaymentFailed}
		release, err := b.Cancel()
		require.NoError(t, err)
		assert.False(t, release, "failed payment already gave the seats back")
	})
}

func TestReminderSentAt(t *testing.T) {
	at := time.Date(2025, 6, 14, 19, 0, 0, 0, time.UTC)
	b := Booking{Reminder24hSentAt: &at}

	assert.Equal(t, &at, b.ReminderSentAt(Reminder24h))
	assert.Nil(t, b.ReminderSentAt(Reminder2h))
}
