package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/you/ode-foodhall/pkg/clock"
	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
	"github.com/you/ode-foodhall/services/booking-service/internal/payment"
)

// ExperienceStore is the slice of the experience repository the
// checkout flow needs.
type ExperienceStore interface {
	BySlug(ctx context.Context, slug string, publicOnly bool) (*domain.Experience, error)
}

type BookingStore interface {
	CreateWithSeats(ctx context.Context, b *domain.Booking) error
	AttachCheckoutSession(ctx context.Context, id, sessionID string) error
	DeleteAndRelease(ctx context.Context, b *domain.Booking) error
	ByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, page, size int32, status, experienceID string, day time.Time) ([]domain.Booking, int64, error)
	CancelAndRelease(ctx context.Context, id string) (*domain.Booking, error)
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type CheckoutSvc struct {
	experiences ExperienceStore
	bookings    BookingStore
	sessions    payment.SessionCreator
	pub         EventPublisher
	clk         clock.Clock
	baseURL     string
	currency    string
}

func NewCheckoutSvc(experiences ExperienceStore, bookings BookingStore, sessions payment.SessionCreator, pub EventPublisher, clk clock.Clock, baseURL, currency string) *CheckoutSvc {
	return &CheckoutSvc{
		experiences: experiences,
		bookings:    bookings,
		sessions:    sessions,
		pub:         pub,
		clk:         clk,
		baseURL:     strings.TrimRight(baseURL, "/"),
		currency:    currency,
	}
}

type CheckoutInput struct {
	ExperienceType  string
	BookingDate     string // YYYY-MM-DD
	TimeSlot        string // HH:mm
	GuestCount      int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string
	TasteSectors    []string
	PassportEnabled bool
	NFCPassportID   string
}

type CheckoutResult struct {
	URL       string
	BookingID string
	Amount    int64
}

func (in *CheckoutInput) validate() (time.Time, error) {
	if in.ExperienceType == "" {
		return time.Time{}, domain.Invalid("experienceType", "required")
	}
	if in.GuestName == "" {
		return time.Time{}, domain.Invalid("guestName", "required")
	}
	if in.GuestEmail == "" {
		return time.Time{}, domain.Invalid("guestEmail", "required")
	}
	if _, err := mail.ParseAddress(in.GuestEmail); err != nil {
		return time.Time{}, domain.Invalid("guestEmail", "not a valid email address")
	}
	if in.GuestCount < 1 {
		return time.Time{}, domain.Invalid("guestCount", "must be at least 1")
	}
	if in.BookingDate == "" {
		return time.Time{}, domain.Invalid("bookingDate", "required")
	}
	date, err := time.Parse("2006-01-02", in.BookingDate)
	if err != nil {
		return time.Time{}, domain.Invalid("bookingDate", "must be YYYY-MM-DD")
	}
	if in.TimeSlot == "" {
		return time.Time{}, domain.Invalid("timeSlot", "required")
	}
	if _, err := time.Parse("15:04", in.TimeSlot); err != nil {
		return time.Time{}, domain.Invalid("timeSlot", "must be HH:mm")
	}
	return date.UTC(), nil
}

// CreateSession runs the whole booking-and-payment creation flow.
// Every step after the booking insert registers the same compensating
// action: delete the provisional row and release its seats, so the
// flow is all-or-nothing from the caller's perspective.
func (s *CheckoutSvc) CreateSession(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	date, err := in.validate()
	if err != nil {
		return nil, err
	}
	today := s.clk.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, domain.Invalid("bookingDate", "must not be in the past")
	}

	exp, err := s.experiences.BySlug(ctx, in.ExperienceType, true)
	if err != nil {
		return nil, err
	}

	currency := exp.Currency
	if currency == "" {
		currency = s.currency
	}

	b := &domain.Booking{
		ExperienceID:    exp.ID,
		ExperienceSlug:  exp.Slug,
		BookingDate:     date,
		TimeSlot:        in.TimeSlot,
		GuestCount:      in.GuestCount,
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		GuestPhone:      in.GuestPhone,
		SpecialRequests: in.SpecialRequests,
		TasteSectors:    strings.Join(in.TasteSectors, ","),
		PassportEnabled: in.PassportEnabled,
		NFCPassportID:   in.NFCPassportID,
		PaymentStatus:   domain.PaymentPending,
		PaymentAmount:   exp.Price * int64(in.GuestCount),
		Currency:        currency,
		Status:          domain.BookingPending,
	}

	if err := s.bookings.CreateWithSeats(ctx, b); err != nil {
		return nil, err
	}

	session, err := s.sessions.CreateSession(ctx, payment.SessionInput{
		BookingID:  b.ID,
		Amount:     b.PaymentAmount,
		Currency:   currency,
		SuccessURL: s.redirectURL("/booking/success", b.ID),
		CancelURL:  s.redirectURL("/booking/cancelled", b.ID),
	})
	if err != nil {
		_ = s.bookings.DeleteAndRelease(ctx, b)
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if err := s.bookings.AttachCheckoutSession(ctx, b.ID, session.ID); err != nil {
		_ = s.bookings.DeleteAndRelease(ctx, b)
		return nil, fmt.Errorf("attach checkout session: %w", err)
	}

	_ = s.pub.PublishJSON(ctx, "booking.created", map[string]any{
		"booking_id": b.ID,
		"experience": b.ExperienceSlug,
		"date":       b.BookingDate.Format("2006-01-02"),
		"time_slot":  b.TimeSlot,
		"guests":     b.GuestCount,
		"amount":     b.PaymentAmount,
		"currency":   b.Currency,
	})

	return &CheckoutResult{URL: session.RedirectURL, BookingID: b.ID, Amount: b.PaymentAmount}, nil
}

func (s *CheckoutSvc) redirectURL(path, bookingID string) string {
	return fmt.Sprintf("%s%s?booking_id=%s", s.baseURL, path, bookingID)
}

func (s *CheckoutSvc) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.ByID(ctx, id)
}

func (s *CheckoutSvc) List(ctx context.Context, page, size int32, status, experienceID string, day time.Time) ([]domain.Booking, int64, error) {
	return s.bookings.List(ctx, page, size, status, experienceID, day)
}

func (s *CheckoutSvc) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.CancelAndRelease(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, "booking.cancelled", map[string]any{"booking_id": b.ID})
	return b, nil
}
