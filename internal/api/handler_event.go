package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"eventhub/internal/service"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func eventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
	}
	return id, true
}

type createEventRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Date        string  `json:"date" binding:"required"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	Semester    *string `json:"semester"`
	Tags        string  `json:"tags"`
	Format      string  `json:"format"`
	VirtualLink *string `json:"virtual_link"`

	BudgetAmount *float64 `json:"budget_amount"`

	SpeakerName  *string `json:"speaker_name"`
	SpeakerEmail *string `json:"speaker_email"`
	SpeakerPhone *string `json:"speaker_phone"`
	SpeakerOrg   *string `json:"speaker_org"`
	POCName      *string `json:"poc_name"`
	POCEmail     *string `json:"poc_email"`
	POCPhone     *string `json:"poc_phone"`

	HasCatering    bool     `json:"has_catering"`
	CateringVendor *string  `json:"catering_vendor"`
	CateringCost   *float64 `json:"catering_cost"`
	CateringMenu   *string  `json:"catering_menu"`
	CateringDiet   *string  `json:"catering_dietary_notes"`
	CateringHeads  *int     `json:"catering_headcount"`
	OrderLink      *string  `json:"order_link"`

	HasRoom  bool    `json:"has_room"`
	RoomName *string `json:"room_name"`

	HasFlyer bool `json:"has_flyer"`
}

// Create handles POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), actorFrom(c), service.CreateEventParams{
		Title:          req.Title,
		Description:    req.Description,
		Date:           date,
		Time:           req.Time,
		Location:       req.Location,
		Semester:       req.Semester,
		Tags:           req.Tags,
		Format:         req.Format,
		VirtualLink:    req.VirtualLink,
		BudgetAmount:   req.BudgetAmount,
		SpeakerName:    req.SpeakerName,
		SpeakerEmail:   req.SpeakerEmail,
		SpeakerPhone:   req.SpeakerPhone,
		SpeakerOrg:     req.SpeakerOrg,
		POCName:        req.POCName,
		POCEmail:       req.POCEmail,
		POCPhone:       req.POCPhone,
		HasCatering:    req.HasCatering,
		CateringVendor: req.CateringVendor,
		CateringCost:   req.CateringCost,
		CateringMenu:   req.CateringMenu,
		CateringDiet:   req.CateringDiet,
		CateringHeads:  req.CateringHeads,
		OrderLink:      req.OrderLink,
		HasRoom:        req.HasRoom,
		RoomName:       req.RoomName,
		HasFlyer:       req.HasFlyer,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

type updateEventRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Date         *string  `json:"date"`
	Time         *string  `json:"time"`
	Location     *string  `json:"location"`
	Semester     *string  `json:"semester"`
	Tags         *string  `json:"tags"`
	Format       *string  `json:"format"`
	VirtualLink  *string  `json:"virtual_link"`
	Status       *string  `json:"status"`
	Headcount    *int     `json:"headcount"`
	BudgetAmount *float64 `json:"budget_amount"`
	SpeakerName  *string  `json:"speaker_name"`
	SpeakerEmail *string  `json:"speaker_email"`
	SpeakerPhone *string  `json:"speaker_phone"`
	SpeakerOrg   *string  `json:"speaker_org"`
	POCName      *string  `json:"poc_name"`
	POCEmail     *string  `json:"poc_email"`
	POCPhone     *string  `json:"poc_phone"`
}

// Update handles PATCH /api/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	params := service.UpdateEventParams{
		Title:        req.Title,
		Description:  req.Description,
		Time:         req.Time,
		Location:     req.Location,
		Semester:     req.Semester,
		Tags:         req.Tags,
		Format:       req.Format,
		VirtualLink:  req.VirtualLink,
		Status:       req.Status,
		Headcount:    req.Headcount,
		BudgetAmount: req.BudgetAmount,
		SpeakerName:  req.SpeakerName,
		SpeakerEmail: req.SpeakerEmail,
		SpeakerPhone: req.SpeakerPhone,
		SpeakerOrg:   req.SpeakerOrg,
		POCName:      req.POCName,
		POCEmail:     req.POCEmail,
		POCPhone:     req.POCPhone,
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		params.Date = &date
	}

	if err := h.eventService.Update(c.Request.Context(), actorFrom(c), id, params); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// SetStatus handles POST /api/events/:id/status
func (h *EventHandler) SetStatus(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.eventService.SetStatus(c.Request.Context(), actorFrom(c), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// Retrospective handles POST /api/events/:id/retrospective
func (h *EventHandler) Retrospective(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		Headcount          *int    `json:"headcount"`
		DoAgain            *bool   `json:"do_again"`
		ReinviteSpeaker    *bool   `json:"reinvite_speaker"`
		RetrospectiveNotes *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.eventService.RecordRetrospective(c.Request.Context(), actorFrom(c), id, service.RetrospectiveParams{
		Headcount:          req.Headcount,
		DoAgain:            req.DoAgain,
		ReinviteSpeaker:    req.ReinviteSpeaker,
		RetrospectiveNotes: req.RetrospectiveNotes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// Archive handles POST /api/events/:id/archive
func (h *EventHandler) Archive(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if err := h.eventService.Archive(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "archived"})
}

// Delete handles DELETE /api/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Get handles GET /api/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	event, err := h.eventService.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

// List handles GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
