package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/ode-foodhall/services/booking-service/internal/service"
)

type ReminderScanner interface {
	Scan(ctx context.Context) (*service.ScanReport, error)
}

type ReminderHandler struct {
	svc ReminderScanner
}

func NewReminderHandler(svc ReminderScanner) *ReminderHandler {
	return &ReminderHandler{svc: svc}
}

// POST /v1/reminders/scan runs the same scan the in-process ticker
// runs, exposed for external schedulers.
func (h *ReminderHandler) Scan(c *gin.Context) {
	report, err := h.svc.Scan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
