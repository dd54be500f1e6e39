package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Assign handles POST /api/events/:id/tasks/assign
func (h *TaskHandler) Assign(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		TaskType   string `json:"task_type" binding:"required"`
		AssigneeID int64  `json:"assignee_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.taskService.Assign(c.Request.Context(), actorFrom(c), id, req.TaskType, req.AssigneeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "assigned"})
}

// Accept handles POST /api/events/:id/tasks/accept
func (h *TaskHandler) Accept(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		TaskType string `json:"task_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.taskService.Accept(c.Request.Context(), actorFrom(c), id, req.TaskType); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

// UpdateRoom handles PUT /api/events/:id/room
func (h *TaskHandler) UpdateRoom(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		RoomName       *string `json:"room_name"`
		ReservationURL *string `json:"reservation_url"`
		ConfirmationID *string `json:"confirmation_id"`
		Notes          *string `json:"notes"`
		Status         string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.taskService.UpdateRoom(c.Request.Context(), actorFrom(c), id, service.UpdateRoomParams{
		RoomName:       req.RoomName,
		ReservationURL: req.ReservationURL,
		ConfirmationID: req.ConfirmationID,
		Notes:          req.Notes,
		Status:         req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// UpdateFlyer handles PUT /api/events/:id/flyer
func (h *TaskHandler) UpdateFlyer(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		FlyerURL     *string `json:"flyer_url"`
		DesignStatus string  `json:"design_status"`
		DistPortal   bool    `json:"dist_portal"`
		DistEmail    bool    `json:"dist_email"`
		DistWhatsApp bool    `json:"dist_whatsapp"`
		DistTeams    bool    `json:"dist_teams"`
		DistOther    *string `json:"dist_other"`
		Notes        *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.taskService.UpdateFlyer(c.Request.Context(), actorFrom(c), id, service.UpdateFlyerParams{
		FlyerURL:     req.FlyerURL,
		DesignStatus: req.DesignStatus,
		DistPortal:   req.DistPortal,
		DistEmail:    req.DistEmail,
		DistWhatsApp: req.DistWhatsApp,
		DistTeams:    req.DistTeams,
		DistOther:    req.DistOther,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
