package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/ode-foodhall/pkg/auth"
	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
	"github.com/you/ode-foodhall/services/booking-service/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCheckout struct {
	res *service.CheckoutResult
	err error
}

func (s *stubCheckout) CreateSession(context.Context, service.CheckoutInput) (*service.CheckoutResult, error) {
	return s.res, s.err
}

func (s *stubCheckout) Get(context.Context, string) (*domain.Booking, error) {
	return nil, domain.ErrBookingNotFound
}

func (s *stubCheckout) List(context.Context, int32, int32, string, string, time.Time) ([]domain.Booking, int64, error) {
	return nil, 0, nil
}

func (s *stubCheckout) Cancel(context.Context, string) (*domain.Booking, error) {
	return nil, domain.ErrBookingNotFound
}

type stubReminders struct {
	report *service.ScanReport
	err    error
}

func (s *stubReminders) Scan(context.Context) (*service.ScanReport, error) {
	return s.report, s.err
}

type stubExperiences struct{}

func (stubExperiences) Create(context.Context, domain.Experience) (*domain.Experience, error) {
	return nil, errors.New("not implemented")
}
func (stubExperiences) BySlug(context.Context, string, bool) (*domain.Experience, error) {
	return nil, domain.ErrExperienceNotFound
}
func (stubExperiences) List(context.Context, bool) ([]domain.Experience, error) { return nil, nil }
func (stubExperiences) Update(context.Context, domain.Experience) (*domain.Experience, error) {
	return nil, errors.New("not implemented")
}
func (stubExperiences) Delete(context.Context, string) error { return nil }

type stubVendors struct{}

func (stubVendors) Apply(context.Context, domain.VendorApplication) (*domain.VendorApplication, error) {
	return nil, errors.New("not implemented")
}
func (stubVendors) List(context.Context, int32, int32, string) ([]domain.VendorApplication, int64, error) {
	return nil, 0, nil
}
func (stubVendors) UpdateStatus(context.Context, string, string) (*domain.VendorApplication, error) {
	return nil, errors.New("not implemented")
}

type stubAuth struct{}

func (stubAuth) Login(context.Context, string, string) (*domain.StaffUser, string, error) {
	return nil, "", domain.ErrInvalidCredentials
}

func newTestRouter(checkout CheckoutService, reminders ReminderScanner, apiKey string) *gin.Engine {
	if reminders == nil {
		reminders = &stubReminders{report: &service.ScanReport{Success: true}}
	}
	return NewRouter(checkout, reminders, stubExperiences{}, stubVendors{}, stubAuth{}, apiKey)
}

func TestCreateCheckoutSessionHandler(t *testing.T) {
	body := `{"experienceType":"chefs-table","bookingDate":"2025-06-15","timeSlot":"19:00","guestCount":2,"guestName":"Ayu","guestEmail":"ayu@example.com"}`

	t.Run("success returns url, booking_id, amount", func(t *testing.T) {
		r := newTestRouter(&stubCheckout{res: &service.CheckoutResult{
			URL:       "https://pay.example.com/s/1",
			BookingID: "b-1",
			Amount:    11000,
		}}, nil, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout/sessions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "https://pay.example.com/s/1", got["url"])
		assert.Equal(t, "b-1", got["booking_id"])
		assert.Equal(t, float64(11000), got["amount"])
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		r := newTestRouter(&stubCheckout{err: domain.Invalid("guestName", "required")}, nil, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout/sessions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "guestName")
	})

	t.Run("unknown experience maps to 404", func(t *testing.T) {
		r := newTestRouter(&stubCheckout{err: domain.ErrExperienceNotFound}, nil, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout/sessions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("capacity error maps to 400", func(t *testing.T) {
		r := newTestRouter(&stubCheckout{err: domain.ErrCapacityExceeded}, nil, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout/sessions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("downstream failure maps to 500 with raw message", func(t *testing.T) {
		r := newTestRouter(&stubCheckout{err: errors.New("create checkout session: provider down")}, nil, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout/sessions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "provider down")
	})
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(&stubCheckout{}, nil, "secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/checkout/sessions", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "apikey")
}

func TestAPIKeyGuard(t *testing.T) {
	r := newTestRouter(&stubCheckout{res: &service.CheckoutResult{BookingID: "b-1"}}, nil, "secret")
	body := `{"experienceType":"chefs-table"}`

	t.Run("missing key is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout/sessions", strings.NewReader(body))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("apikey header is accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout/sessions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("apikey", "secret")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bearer token is accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout/sessions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer secret")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestReminderScanEndpoint(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	report := &service.ScanReport{
		Success:              true,
		Message:              "checked 3 bookings, sent 2 reminders",
		TotalBookingsChecked: 3,
		RemindersSent:        2,
		Results: []service.ScanItem{
			{BookingID: "b-1", Type: "24h", Status: "sent", HoursUntil: 23.5},
		},
	}
	r := newTestRouter(&stubCheckout{}, &stubReminders{report: report}, "")

	t.Run("requires staff token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/reminders/scan", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("returns the scan report", func(t *testing.T) {
		tok, err := auth.CreateAccessToken("staff-1", "STAFF", "staff@odefoodhall.com", time.Minute)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/reminders/scan", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got service.ScanReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.True(t, got.Success)
		assert.Equal(t, 3, got.TotalBookingsChecked)
		assert.Equal(t, 2, got.RemindersSent)
		require.Len(t, got.Results, 1)
		assert.Equal(t, "24h", got.Results[0].Type)
	})
}
