package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/domain/user"
	"github.com/coursehub/coursehub/internal/http/middlewares"
	"github.com/coursehub/coursehub/internal/service/admin"
	"github.com/gin-gonic/gin"
)

type AdminUsersService interface {
	ToggleUserStatus(ctx context.Context, userID string) (user.User, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.User, error)
	UpdateUser(ctx context.Context, userID string, req user.UpdateUserRequest) (user.User, error)
	DeleteUser(ctx context.Context, userID, requesterID string) error
	GetAllUsers(ctx context.Context) ([]user.User, error)
}

type AdminUsersHandler struct {
	svc AdminUsersService
}

func NewAdminUsersHandler(svc AdminUsersService) *AdminUsersHandler {
	return &AdminUsersHandler{svc: svc}
}

// GET /admin/users
func (h *AdminUsersHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	users, err := h.svc.GetAllUsers(cctx)

	if err != nil {
		RespondInternal(ctx, "Error fetching users", err)
		return
	}

	RespondOK(ctx, "Users fetched successfully", gin.H{"users": users})
}

// POST /admin/users
func (h *AdminUsersHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	created, err := h.svc.CreateUser(cctx, req)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "User with this email already exists")
			return
		}

		RespondInternal(ctx, "Error creating user", err)
		return
	}

	RespondCreated(ctx, "User created successfully", gin.H{"user": created})
}

// PUT /admin/users/:userId
func (h *AdminUsersHandler) Update(ctx *gin.Context) {
	userID := ctx.Param("userId")

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	updated, err := h.svc.UpdateUser(cctx, userID, req)

	if err != nil {
		switch {
		case errors.Is(err, admin.ErrInvalidID):
			RespondBadRequest(ctx, "Invalid user ID", nil)
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, user.ErrEmailTaken):
			RespondConflict(ctx, "User with this email already exists")
		default:
			RespondInternal(ctx, "Error updating user", err)
		}
		return
	}

	RespondOK(ctx, "User updated successfully", gin.H{"user": updated})
}

// DELETE /admin/users/:userId
func (h *AdminUsersHandler) Delete(ctx *gin.Context) {
	userID := ctx.Param("userId")

	requesterID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || requesterID == "" {
		RespondUnAuthorized(ctx, "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	err := h.svc.DeleteUser(cctx, userID, requesterID)

	if err != nil {
		switch {
		case errors.Is(err, admin.ErrInvalidID):
			RespondBadRequest(ctx, "Invalid user ID", nil)
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, admin.ErrSelfDelete):
			RespondBadRequest(ctx, "Cannot delete your own account", nil)
		default:
			RespondInternal(ctx, "Error deleting user", err)
		}
		return
	}

	RespondOK(ctx, "User deleted successfully", nil)
}

// PUT /admin/users/:userId/toggle-status
func (h *AdminUsersHandler) ToggleStatus(ctx *gin.Context) {
	userID := ctx.Param("userId")

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	u, err := h.svc.ToggleUserStatus(cctx, userID)

	if err != nil {
		switch {
		case errors.Is(err, admin.ErrInvalidID):
			RespondBadRequest(ctx, "Invalid user ID", nil)
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		default:
			RespondInternal(ctx, "Error toggling user status", err)
		}
		return
	}

	message := "User deactivated successfully"
	if u.Active {
		message = "User activated successfully"
	}

	RespondOK(ctx, message, gin.H{"user": u})
}
