package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"eventhub/internal/model"
)

// ExpenseStore is satisfied by repository.ExpenseRepository.
type ExpenseStore interface {
	Create(ctx context.Context, e *model.Expense) error
	FindByID(ctx context.Context, id int64) (*model.Expense, error)
	Save(ctx context.Context, e *model.Expense) error
	Delete(ctx context.Context, id int64) error
	ListByEvent(ctx context.Context, eventID int64) ([]model.Expense, error)
	SumByEvent(ctx context.Context, eventID int64) (float64, error)
}

type ExpenseHandler struct {
	expenseRepo ExpenseStore
}

func NewExpenseHandler(expenseRepo ExpenseStore) *ExpenseHandler {
	return &ExpenseHandler{expenseRepo: expenseRepo}
}

var validCategories = map[string]bool{
	model.ExpenseCatering:   true,
	model.ExpenseSupplies:   true,
	model.ExpenseSpeakerFee: true,
	model.ExpenseTravel:     true,
	model.ExpenseVenue:      true,
	model.ExpensePrinting:   true,
	model.ExpenseOther:      true,
}

// Create handles POST /api/events/:id/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	var req struct {
		Description string  `json:"description" binding:"required"`
		Amount      float64 `json:"amount" binding:"required"`
		Category    string  `json:"category"`
		Vendor      *string `json:"vendor"`
		Notes       *string `json:"notes"`
		IsPaid      bool    `json:"is_paid"`
		PaidDate    *string `json:"paid_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Category == "" {
		req.Category = model.ExpenseOther
	}
	if !validCategories[req.Category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	expense := &model.Expense{
		EventID:     id,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Vendor:      req.Vendor,
		Notes:       req.Notes,
		IsPaid:      req.IsPaid,
	}
	if req.PaidDate != nil {
		d, err := time.Parse("2006-01-02", *req.PaidDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paid_date, expected YYYY-MM-DD"})
			return
		}
		expense.PaidDate = &d
	}

	if err := h.expenseRepo.Create(c.Request.Context(), expense); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create expense"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// List handles GET /api/events/:id/expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	expenses, err := h.expenseRepo.ListByEvent(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch expenses"})
		return
	}
	total, err := h.expenseRepo.SumByEvent(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to total expenses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expenses": expenses,
		"total":    total,
	})
}

// TogglePaid handles POST /api/expenses/:id/toggle-paid. Flipping to
// paid stamps today's date unless one was recorded at creation;
// flipping back clears it.
func (h *ExpenseHandler) TogglePaid(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}

	ctx := c.Request.Context()
	expense, err := h.expenseRepo.FindByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	expense.IsPaid = !expense.IsPaid
	if expense.IsPaid {
		if expense.PaidDate == nil {
			now := time.Now()
			expense.PaidDate = &now
		}
	} else {
		expense.PaidDate = nil
	}

	if err := h.expenseRepo.Save(ctx, expense); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update expense"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// Delete handles DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense id"})
		return
	}
	if err := h.expenseRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
