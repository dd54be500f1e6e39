package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/service"
)

type CateringHandler struct {
	cateringService *service.CateringService
}

func NewCateringHandler(cateringService *service.CateringService) *CateringHandler {
	return &CateringHandler{cateringService: cateringService}
}

// Submit handles POST /api/events/:id/catering/submit
func (h *CateringHandler) Submit(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if err := h.cateringService.Submit(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "submitted"})
}

// Decide handles POST /api/events/:id/catering/decide
func (h *CateringHandler) Decide(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		Decision    string `json:"decision" binding:"required"`
		ChangeNotes string `json:"change_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.cateringService.Decide(c.Request.Context(), actorFrom(c), id, req.Decision, req.ChangeNotes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"decision": req.Decision})
}

// UpdateDetails handles PATCH /api/events/:id/catering
func (h *CateringHandler) UpdateDetails(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		Vendor        *string  `json:"vendor"`
		EstimatedCost *float64 `json:"estimated_cost"`
		ActualCost    *float64 `json:"actual_cost"`
		MenuDetails   *string  `json:"menu_details"`
		DietaryNotes  *string  `json:"dietary_notes"`
		Headcount     *int     `json:"headcount"`
		OrderLink     *string  `json:"order_link"`
		InvoiceURL    *string  `json:"invoice_url"`
		InvoiceImgURL *string  `json:"invoice_img_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.cateringService.UpdateDetails(c.Request.Context(), actorFrom(c), id, service.UpdateCateringParams{
		Vendor:        req.Vendor,
		EstimatedCost: req.EstimatedCost,
		ActualCost:    req.ActualCost,
		MenuDetails:   req.MenuDetails,
		DietaryNotes:  req.DietaryNotes,
		Headcount:     req.Headcount,
		OrderLink:     req.OrderLink,
		InvoiceURL:    req.InvoiceURL,
		InvoiceImgURL: req.InvoiceImgURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// RequestPayment handles POST /api/events/:id/catering/request-payment
func (h *CateringHandler) RequestPayment(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	if err := h.cateringService.RequestPayment(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_status": "REQUESTED"})
}

// MarkPaid handles POST /api/events/:id/catering/mark-paid
func (h *CateringHandler) MarkPaid(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	// body is optional
	_ = c.ShouldBindJSON(&req)

	if err := h.cateringService.MarkPaid(c.Request.Context(), actorFrom(c), id, req.Note); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_status": "PAID"})
}
