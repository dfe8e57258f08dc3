package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/ode-foodhall/services/booking-service/internal/domain"
)

type ExperienceService interface {
	Create(ctx context.Context, in domain.Experience) (*domain.Experience, error)
	BySlug(ctx context.Context, slug string, publicOnly bool) (*domain.Experience, error)
	List(ctx context.Context, publicOnly bool) ([]domain.Experience, error)
	Update(ctx context.Context, in domain.Experience) (*domain.Experience, error)
	Delete(ctx context.Context, id string) error
}

type ExperienceHandler struct {
	svc ExperienceService
}

func NewExperienceHandler(svc ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{svc: svc}
}

type experienceBody struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Currency    string `json:"currency"`
	Capacity    int    `json:"capacity"`
	IsPublic    bool   `json:"isPublic"`
}

// GET /v1/experiences
func (h *ExperienceHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), true)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GET /v1/experiences/:slug
func (h *ExperienceHandler) Get(c *gin.Context) {
	e, err := h.svc.BySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

// POST /v1/experiences (ADMIN)
func (h *ExperienceHandler) Create(c *gin.Context) {
	var body experienceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.svc.Create(c.Request.Context(), domain.Experience{
		Slug:        body.Slug,
		Title:       body.Title,
		Description: body.Description,
		Price:       body.Price,
		Currency:    body.Currency,
		Capacity:    body.Capacity,
		IsPublic:    body.IsPublic,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, e)
}

// PUT /v1/experiences/:id (ADMIN)
func (h *ExperienceHandler) Update(c *gin.Context) {
	var body experienceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.svc.Update(c.Request.Context(), domain.Experience{
		ID:          c.Param("id"),
		Slug:        body.Slug,
		Title:       body.Title,
		Description: body.Description,
		Price:       body.Price,
		Currency:    body.Currency,
		Capacity:    body.Capacity,
		IsPublic:    body.IsPublic,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

// DELETE /v1/experiences/:id (ADMIN)
func (h *ExperienceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
