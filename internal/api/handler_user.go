package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventhub/internal/model"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/pkg/rbac"
)

type UserHandler struct {
	userRepo *repository.UserRepository
}

func NewUserHandler(userRepo *repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// List handles GET /api/users. Pass ?assignable=true to get only the
// leads eligible for task assignment.
func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		users []model.User
		err   error
	)
	if c.Query("assignable") == "true" {
		users, err = h.userRepo.ListByRoles(ctx, rbac.RolesWith(rbac.CapAssignable)...)
	} else {
		users, err = h.userRepo.List(ctx)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": sanitize(users)})
}

// Delete handles DELETE /api/users/:id. Soft delete only, so email
// logs and decision stamps keep resolving.
func (h *UserHandler) Delete(c *gin.Context) {
	if !rbac.HasCapability(actorFrom(c).Role, rbac.CapManageUsers) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.userRepo.SoftDelete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type userView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// sanitize strips password hashes before the users cross the wire.
func sanitize(users []model.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return views
}
