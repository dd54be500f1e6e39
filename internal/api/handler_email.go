package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/model"
)

// EmailHistoryStore is satisfied by repository.EmailLogRepository.
type EmailHistoryStore interface {
	ListByEvent(ctx context.Context, eventID int64) ([]model.EmailLog, error)
}

// EmailLogHandler exposes the append-only delivery log for an event, so
// a champion can see which approvals and reminders actually went out.
type EmailLogHandler struct {
	emailLogs EmailHistoryStore
}

func NewEmailLogHandler(emailLogs EmailHistoryStore) *EmailLogHandler {
	return &EmailLogHandler{emailLogs: emailLogs}
}

// History handles GET /api/events/:id/emails
func (h *EmailLogHandler) History(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	logs, err := h.emailLogs.ListByEvent(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch email history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"emails": logs})
}
