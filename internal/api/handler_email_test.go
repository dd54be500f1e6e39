package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/model"
)

type fakeEmailHistoryStore struct {
	logs []model.EmailLog
}

func (s *fakeEmailHistoryStore) ListByEvent(_ context.Context, eventID int64) ([]model.EmailLog, error) {
	var out []model.EmailLog
	for _, l := range s.logs {
		if l.EventID != nil && *l.EventID == eventID {
			out = append(out, l)
		}
	}
	return out, nil
}

func TestEmailHistoryListsOnlyEventLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	one, two := int64(1), int64(2)
	store := &fakeEmailHistoryStore{logs: []model.EmailLog{
		{ID: 1, ToEmail: "fran@example.com", Reason: model.ReasonApprovalRequest, Status: model.EmailSent, EventID: &one, SentAt: time.Now()},
		{ID: 2, ToEmail: "lee@example.com", Reason: model.ReasonTaskReminder, Status: model.EmailFailed, EventID: &two, SentAt: time.Now()},
	}}
	r := gin.New()
	r.GET("/api/events/:id/emails", NewEmailLogHandler(store).History)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/events/1/emails", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fran@example.com")
	assert.NotContains(t, w.Body.String(), "lee@example.com")
}
