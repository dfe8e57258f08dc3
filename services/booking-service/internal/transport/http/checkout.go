package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
	"github.com/you/ode-foodhall/services/booking-service/internal/service"
)

type CheckoutService interface {
	CreateSession(ctx context.Context, in service.CheckoutInput) (*service.CheckoutResult, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, page, size int32, status, experienceID string, day time.Time) ([]domain.Booking, int64, error)
	Cancel(ctx context.Context, id string) (*domain.Booking, error)
}

type CheckoutHandler struct {
	svc CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type createSessionBody struct {
	ExperienceType  string   `json:"experienceType"`
	BookingDate     string   `json:"bookingDate"`
	TimeSlot        string   `json:"timeSlot"`
	GuestCount      int      `json:"guestCount"`
	GuestName       string   `json:"guestName"`
	GuestEmail      string   `json:"guestEmail"`
	GuestPhone      string   `json:"guestPhone"`
	SpecialRequests string   `json:"specialRequests"`
	TasteSectors    []string `json:"tasteSectors"`
	PassportEnabled bool     `json:"passportEnabled"`
	NFCPassportID   string   `json:"nfcPassportId"`
}

// POST /v1/checkout/sessions
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var body createSessionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.CreateSession(c.Request.Context(), service.CheckoutInput{
		ExperienceType:  body.ExperienceType,
		BookingDate:     body.BookingDate,
		TimeSlot:        body.TimeSlot,
		GuestCount:      body.GuestCount,
		GuestName:       body.GuestName,
		GuestEmail:      body.GuestEmail,
		GuestPhone:      body.GuestPhone,
		SpecialRequests: body.SpecialRequests,
		TasteSectors:    body.TasteSectors,
		PassportEnabled: body.PassportEnabled,
		NFCPassportID:   body.NFCPassportID,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":        res.URL,
		"booking_id": res.BookingID,
		"amount":     res.Amount,
	})
}

// GET /v1/bookings/:id
func (h *CheckoutHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /v1/bookings/:id/cancel
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	b, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /v1/bookings?page=1&page_size=20&status=&experience_id=&day=YYYY-MM-DD
func (h *CheckoutHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	var day time.Time
	if v := c.Query("day"); v != "" {
		if d, err := time.Parse("2006-01-02", v); err == nil {
			day = d.UTC()
		}
	}
	items, total, err := h.svc.List(c.Request.Context(), int32(page-1), int32(size), c.Query("status"), c.Query("experience_id"), day)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}
