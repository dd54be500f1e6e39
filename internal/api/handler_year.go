package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventhub/internal/service"
)

type YearHandler struct {
	yearService *service.YearService
}

func NewYearHandler(yearService *service.YearService) *YearHandler {
	return &YearHandler{yearService: yearService}
}

// Create handles POST /api/years
func (h *YearHandler) Create(c *gin.Context) {
	var req struct {
		Label       string   `json:"label"`
		StartMonth  int      `json:"start_month"`
		StartYear   int      `json:"start_year" binding:"required"`
		Budget      *float64 `json:"budget"`
		MakeCurrent bool     `json:"make_current"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	year, err := h.yearService.Create(c.Request.Context(), actorFrom(c), service.CreateYearParams{
		Label:       req.Label,
		StartMonth:  req.StartMonth,
		StartYear:   req.StartYear,
		Budget:      req.Budget,
		MakeCurrent: req.MakeCurrent,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"year": year})
}

// Switch handles POST /api/years/:id/switch
func (h *YearHandler) Switch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year id"})
		return
	}
	if err := h.yearService.Switch(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "switched"})
}

// UpdateSettings handles PATCH /api/years/:id
func (h *YearHandler) UpdateSettings(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year id"})
		return
	}

	var req struct {
		StartMonth *int     `json:"start_month"`
		Budget     *float64 `json:"budget"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err = h.yearService.UpdateSettings(c.Request.Context(), actorFrom(c), id, service.UpdateYearParams{
		StartMonth: req.StartMonth,
		Budget:     req.Budget,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// List handles GET /api/years
func (h *YearHandler) List(c *gin.Context) {
	years, err := h.yearService.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}
