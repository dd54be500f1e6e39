package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventhub/internal/model"
	"eventhub/internal/repository"
)

type ChecklistHandler struct {
	checklistRepo *repository.ChecklistRepository
}

func NewChecklistHandler(checklistRepo *repository.ChecklistRepository) *ChecklistHandler {
	return &ChecklistHandler{checklistRepo: checklistRepo}
}

// List handles GET /api/events/:id/checklist
func (h *ChecklistHandler) List(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	items, err := h.checklistRepo.ListByEvent(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch checklist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Add handles POST /api/events/:id/checklist
func (h *ChecklistHandler) Add(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		Label     string `json:"label" binding:"required"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item := &model.ChecklistItem{
		EventID:   id,
		Label:     req.Label,
		SortOrder: req.SortOrder,
	}
	if err := h.checklistRepo.Add(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add checklist item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// Toggle handles POST /api/checklist/:id/toggle
func (h *ChecklistHandler) Toggle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req struct {
		Checked bool `json:"checked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.checklistRepo.SetChecked(c.Request.Context(), id, req.Checked); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checked": req.Checked})
}

// Delete handles DELETE /api/checklist/:id. Only custom items may be
// removed.
func (h *ChecklistHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	if err := h.checklistRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
