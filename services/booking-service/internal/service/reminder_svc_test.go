package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/ode-foodhall/pkg/clock"
	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
)

type fakeReminderStore struct {
	bookings []domain.Booking
	marked   map[string]domain.ReminderKind
	listErr  error
	markErr  error
}

func (s *fakeReminderStore) UpcomingConfirmed(_ context.Context, _, _ time.Time) ([]domain.Booking, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.bookings, nil
}

func (s *fakeReminderStore) MarkReminderSent(_ context.Context, id string, kind domain.ReminderKind, _ time.Time) error {
	if s.markErr != nil {
		return s.markErr
	}
	if s.marked == nil {
		s.marked = map[string]domain.ReminderKind{}
	}
	s.marked[id] = kind
	return nil
}

// now is fixed at noon so slots on the same or next day stay inside
// one date's HH:mm range.
var scanNow = time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)

// bookingStartingIn builds a confirmed booking whose slot begins the
// given number of hours after scanNow.
func bookingStartingIn(id string, hours float64) domain.Booking {
	start := scanNow.Add(time.Duration(hours * float64(time.Hour)))
	return domain.Booking{
		ID:             id,
		ExperienceSlug: "chefs-table",
		BookingDate:    time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		TimeSlot:       start.Format("15:04"),
		GuestName:      "Ayu Dewi",
		GuestEmail:     "ayu@example.com",
		Status:         domain.BookingConfirmed,
	}
}

func TestReminderScanWindows(t *testing.T) {
	store := &fakeReminderStore{bookings: []domain.Booking{
		bookingStartingIn("b-23h30", 23.5),
		bookingStartingIn("b-1h30", 1.5),
		bookingStartingIn("b-10h", 10),
	}}
	pub := &fakePublisher{}
	svc := NewReminderSvc(store, pub, clock.NewFixed(scanNow))

	report, err := svc.Scan(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, 3, report.TotalBookingsChecked)
	assert.Equal(t, 2, report.RemindersSent)

	byID := map[string]ScanItem{}
	for _, it := range report.Results {
		byID[it.BookingID] = it
	}

	require.Contains(t, byID, "b-23h30")
	assert.Equal(t, "24h", byID["b-23h30"].Type)
	assert.Equal(t, "sent", byID["b-23h30"].Status)
	assert.InDelta(t, 23.5, byID["b-23h30"].HoursUntil, 0.01)

	require.Contains(t, byID, "b-1h30")
	assert.Equal(t, "2h", byID["b-1h30"].Type)
	assert.Equal(t, "sent", byID["b-1h30"].Status)

	assert.NotContains(t, byID, "b-10h", "10h out booking belongs to neither window")

	assert.Equal(t, domain.Reminder24h, store.marked["b-23h30"])
	assert.Equal(t, domain.Reminder2h, store.marked["b-1h30"])
}

func TestReminderScanSkipsAlreadySent(t *testing.T) {
	sentAt := scanNow.Add(-10 * time.Minute)
	b := bookingStartingIn("b-dup", 23.5)
	b.Reminder24hSentAt = &sentAt

	store := &fakeReminderStore{bookings: []domain.Booking{b}}
	pub := &fakePublisher{}
	svc := NewReminderSvc(store, pub, clock.NewFixed(scanNow))

	report, err := svc.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalBookingsChecked)
	assert.Equal(t, 0, report.RemindersSent)
	assert.Empty(t, pub.published, "stamped booking must not be re-sent")
}

func TestReminderScanPublishFailureRecordedPerItem(t *testing.T) {
	store := &fakeReminderStore{bookings: []domain.Booking{
		bookingStartingIn("b-err", 23.5),
	}}
	pub := &fakePublisher{err: errors.New("broker gone")}
	svc := NewReminderSvc(store, pub, clock.NewFixed(scanNow))

	report, err := svc.Scan(context.Background())
	require.NoError(t, err, "per-item failure must not abort the scan")

	assert.Equal(t, 0, report.RemindersSent)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "b-err", report.Results[0].BookingID)
	assert.Contains(t, report.Results[0].Error, "broker gone")
	assert.Empty(t, store.marked, "failed send must not be stamped as sent")
}

func TestReminderScanBadTimeSlotRecordedPerItem(t *testing.T) {
	b := bookingStartingIn("b-bad", 23.5)
	b.TimeSlot = "late evening"

	store := &fakeReminderStore{bookings: []domain.Booking{b}}
	svc := NewReminderSvc(store, &fakePublisher{}, clock.NewFixed(scanNow))

	report, err := svc.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "b-bad", report.Results[0].BookingID)
	assert.NotEmpty(t, report.Results[0].Error)
}

func TestReminderWindowBounds(t *testing.T) {
	cases := []struct {
		hours float64
		want  domain.ReminderKind
	}{
		{24.0, domain.Reminder24h},
		{23.5, domain.Reminder24h},
		{23.01, domain.Reminder24h},
		{23.0, ""},
		{24.01, ""},
		{2.0, domain.Reminder2h},
		{1.5, domain.Reminder2h},
		{1.0, ""},
		{10.0, ""},
		{0.5, ""},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, window(tc.hours), "window(%v)", tc.hours)
	}
}
