package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
)

type BookingRepo struct {
	db *gorm.DB
}

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Booking{}, &domain.EventConsumed{})
}

// takeSeats claims n seats with a single conditional update. The WHERE
// clause is the capacity invariant, so two concurrent bookings can
// never both pass a stale read.
func takeSeats(tx *gorm.DB, experienceID string, n int) error {
	res := tx.Model(&domain.Experience{}).
		Where("id = ? AND seats_booked + ? <= capacity", experienceID, n).
		UpdateColumn("seats_booked", gorm.Expr("seats_booked + ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCapacityExceeded
	}
	return nil
}

func releaseSeats(tx *gorm.DB, experienceID string, n int) error {
	return tx.Model(&domain.Experience{}).
		Where("id = ?", experienceID).
		UpdateColumn("seats_booked", gorm.Expr("GREATEST(seats_booked - ?, 0)", n)).Error
}

// CreateWithSeats inserts the pending booking and claims its seats in
// one transaction: either both happen or neither does.
func (r *BookingRepo) CreateWithSeats(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := takeSeats(tx, b.ExperienceID, b.GuestCount); err != nil {
			return err
		}
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		return tx.Create(b).Error
	})
}

func (r *BookingRepo) AttachCheckoutSession(ctx context.Context, id, sessionID string) error {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("checkout_session_id", sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// DeleteAndRelease is the compensating action for a failed checkout
// step: the provisional row disappears and its seats go back.
func (r *BookingRepo) DeleteAndRelease(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Booking{}, "id = ?", b.ID).Error; err != nil {
			return err
		}
		return releaseSeats(tx, b.ExperienceID, b.GuestCount)
	})
}

func (r *BookingRepo) ByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) List(ctx context.Context, page, size int32, status, experienceID string, day time.Time) ([]domain.Booking, int64, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	qb := r.db.WithContext(ctx).Model(&domain.Booking{})
	if status != "" {
		qb = qb.Where("status = ?", status)
	}
	if experienceID != "" {
		qb = qb.Where("experience_id = ?", experienceID)
	}
	if !day.IsZero() {
		from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		qb = qb.Where("booking_date >= ? AND booking_date < ?", from, from.Add(24*time.Hour))
	}
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Booking
	if err := qb.Order("booking_date ASC, time_slot ASC").Limit(int(size)).Offset(int(page * size)).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ConfirmIfNotProcessed flips a booking to confirmed exactly once per
// broker event, using the event_consumed ledger for idempotency.
func (r *BookingRepo) ConfirmIfNotProcessed(ctx context.Context, bookingID, eventID, eventKey string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seen int64
		if err := tx.Model(&domain.EventConsumed{}).Where("id = ?", eventID).Count(&seen).Error; err != nil {
			return err
		}
		if seen > 0 {
			return tx.First(&b, "id = ?", bookingID).Error
		}

		if err := tx.First(&b, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if b.Confirm() {
			if err := tx.Save(&b).Error; err != nil {
				return err
			}
		}

		rec := domain.EventConsumed{ID: eventID, EventKey: eventKey, ProcessedAt: time.Now().UTC()}
		return tx.Create(&rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FailIfNotProcessed marks the payment failed and cancels the
// booking, releasing its seats unless an earlier transition already
// did. The row stays for audit.
func (r *BookingRepo) FailIfNotProcessed(ctx context.Context, bookingID, eventID, eventKey string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seen int64
		if err := tx.Model(&domain.EventConsumed{}).Where("id = ?", eventID).Count(&seen).Error; err != nil {
			return err
		}
		if seen > 0 {
			return tx.First(&b, "id = ?", bookingID).Error
		}

		if err := tx.First(&b, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if changed, release := b.FailPayment(); changed {
			if err := tx.Save(&b).Error; err != nil {
				return err
			}
			if release {
				if err := releaseSeats(tx, b.ExperienceID, b.GuestCount); err != nil {
					return err
				}
			}
		}

		rec := domain.EventConsumed{ID: eventID, EventKey: eventKey, ProcessedAt: time.Now().UTC()}
		return tx.Create(&rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// CancelAndRelease moves a pending or confirmed booking to cancelled
// and returns its seats to the experience, unless a failed payment
// already released them.
func (r *BookingRepo) CancelAndRelease(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		release, err := b.Cancel()
		if err != nil {
			return err
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		if release {
			return releaseSeats(tx, b.ExperienceID, b.GuestCount)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpcomingConfirmed lists confirmed bookings whose date lies inside
// the scan horizon. Exact hours-until filtering happens in the
// reminder service against the injected clock.
func (r *BookingRepo) UpcomingConfirmed(ctx context.Context, from, until time.Time) ([]domain.Booking, error) {
	dayFrom := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	dayUntil := time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.BookingConfirmed).
		Where("booking_date >= ? AND booking_date < ?", dayFrom, dayUntil).
		Order("booking_date ASC, time_slot ASC").
		Find(&out).Error
	return out, err
}

// MarkReminderSent stamps the sent-at column so a later scan cannot
// dispatch the same reminder again, whatever its cadence.
func (r *BookingRepo) MarkReminderSent(ctx context.Context, id string, kind domain.ReminderKind, at time.Time) error {
	col := "reminder24h_sent_at"
	if kind == domain.Reminder2h {
		col = "reminder2h_sent_at"
	}
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Update(col, at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}
