package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/you/ode-foodhall/pkg/clock"
	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
)

type ReminderStore interface {
	UpcomingConfirmed(ctx context.Context, from, until time.Time) ([]domain.Booking, error)
	MarkReminderSent(ctx context.Context, id string, kind domain.ReminderKind, at time.Time) error
}

// ReminderSvc finds confirmed bookings whose start time falls inside
// the 24h or 2h window and dispatches one reminder per window. The
// persisted sent-at stamps make the scan cadence-independent: a
// booking is never reminded twice for the same window, however often
// the scan runs.
type ReminderSvc struct {
	bookings ReminderStore
	pub      EventPublisher
	clk      clock.Clock
}

func NewReminderSvc(bookings ReminderStore, pub EventPublisher, clk clock.Clock) *ReminderSvc {
	return &ReminderSvc{bookings: bookings, pub: pub, clk: clk}
}

type ScanItem struct {
	BookingID  string  `json:"bookingId"`
	Type       string  `json:"type,omitempty"`
	Status     string  `json:"status,omitempty"`
	HoursUntil float64 `json:"hoursUntil,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type ScanReport struct {
	Success              bool       `json:"success"`
	Message              string     `json:"message"`
	TotalBookingsChecked int        `json:"totalBookingsChecked"`
	RemindersSent        int        `json:"remindersSent"`
	Results              []ScanItem `json:"results"`
}

// window returns which reminder applies at the given distance to the
// event, or "" when none does.
func window(hoursUntil float64) domain.ReminderKind {
	switch {
	case hoursUntil > 23 && hoursUntil <= 24:
		return domain.Reminder24h
	case hoursUntil > 1 && hoursUntil <= 2:
		return domain.Reminder2h
	default:
		return ""
	}
}

func (s *ReminderSvc) Scan(ctx context.Context) (*ScanReport, error) {
	now := s.clk.Now()
	bookings, err := s.bookings.UpcomingConfirmed(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}

	report := &ScanReport{Success: true, Results: []ScanItem{}}
	report.TotalBookingsChecked = len(bookings)

	for i := range bookings {
		b := &bookings[i]
		startsAt, err := b.StartsAt()
		if err != nil {
			report.Results = append(report.Results, ScanItem{BookingID: b.ID, Error: err.Error()})
			continue
		}
		hoursUntil := startsAt.Sub(now).Hours()

		kind := window(hoursUntil)
		if kind == "" {
			continue
		}
		if b.ReminderSentAt(kind) != nil {
			continue
		}

		item := ScanItem{
			BookingID:  b.ID,
			Type:       string(kind),
			HoursUntil: math.Round(hoursUntil*10) / 10,
		}

		err = s.pub.PublishJSON(ctx, "reminder.due", map[string]any{
			"booking_id":  b.ID,
			"type":        string(kind),
			"guest_name":  b.GuestName,
			"guest_email": b.GuestEmail,
			"experience":  b.ExperienceSlug,
			"starts_at":   startsAt.Format(time.RFC3339),
			"hours_until": item.HoursUntil,
		})
		if err != nil {
			item.Error = err.Error()
			report.Results = append(report.Results, item)
			continue
		}

		if err := s.bookings.MarkReminderSent(ctx, b.ID, kind, now); err != nil {
			item.Error = err.Error()
			report.Results = append(report.Results, item)
			continue
		}

		item.Status = "sent"
		report.RemindersSent++
		report.Results = append(report.Results, item)
	}

	report.Message = fmt.Sprintf("checked %d bookings, sent %d reminders", report.TotalBookingsChecked, report.RemindersSent)
	return report, nil
}

// RunTicker reruns the scan on an interval until ctx is cancelled.
// The scan endpoint stays available for external schedulers.
func (s *ReminderSvc) RunTicker(ctx context.Context, every time.Duration, onErr func(error)) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Scan(ctx); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}
