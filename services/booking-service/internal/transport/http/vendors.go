package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
)

type VendorService interface {
	Apply(ctx context.Context, in domain.VendorApplication) (*domain.VendorApplication, error)
	List(ctx context.Context, page, size int32, status string) ([]domain.VendorApplication, int64, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.VendorApplication, error)
}

type VendorHandler struct {
	svc VendorService
}

func NewVendorHandler(svc VendorService) *VendorHandler {
	return &VendorHandler{svc: svc}
}

// POST /v1/vendors/apply
func (h *VendorHandler) Apply(c *gin.Context) {
	var body struct {
		BusinessName string `json:"businessName"`
		ContactName  string `json:"contactName"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Cuisine      string `json:"cuisine"`
		Description  string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.svc.Apply(c.Request.Context(), domain.VendorApplication{
		BusinessName: body.BusinessName,
		ContactName:  body.ContactName,
		Email:        body.Email,
		Phone:        body.Phone,
		Cuisine:      body.Cuisine,
		Description:  body.Description,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, v)
}

// GET /v1/vendors/applications (staff)
func (h *VendorHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	items, total, err := h.svc.List(c.Request.Context(), int32(page-1), int32(size), c.Query("status"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// PUT /v1/vendors/applications/:id/status (staff)
func (h *VendorHandler) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, v)
}
