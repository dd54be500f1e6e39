package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/service"
)

type ReminderHandler struct {
	reminderService *service.ReminderService
}

func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// Sweep handles GET /api/reminders/sweep. The worker runs the sweep on
// a schedule; this endpoint exists for external schedulers and manual
// triggering.
func (h *ReminderHandler) Sweep(c *gin.Context) {
	sent, err := h.reminderService.Sweep(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sweep failed", "reminders_sent": sent})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders_sent": sent})
}
