package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vocabuilder/api/internal/auth"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"go.uber.org/zap"
)

type AdminHandler struct {
	users *store.UserStore
	log   *zap.Logger
}

func NewAdminHandler(users *store.UserStore, log *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, log: log}
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Role      *string `json:"role" binding:"omitempty,oneof=user admin"`
	IsActive  *bool   `json:"isActive"`
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondInternal(c, h.log, "Error fetching users", err)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users, "total": len(users)})
}

// GetStats handles GET /admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context())
	if err != nil {
		respondInternal(c, h.log, "Error fetching stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// UpdateUser handles PUT /admin/users/:id. Admins cannot change their own role.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	session, _ := auth.CurrentSession(c)
	id := c.Param("id")

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user data")
		return
	}
	if id == session.UserID() {
		if req.Role != nil && *req.Role != session.User.Role {
			respondError(c, http.StatusBadRequest, "Cannot change your own role")
			return
		}
		if req.IsActive != nil && !*req.IsActive {
			respondError(c, http.StatusBadRequest, "Cannot deactivate your own account")
			return
		}
	}

	user, err := h.users.Update(c.Request.Context(), id, store.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Role:      req.Role,
		IsActive:  req.IsActive,
	})
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondInternal(c, h.log, "Error updating user", err)
		return
	}

	h.log.Info("user updated by admin", zap.String("admin_id", session.UserID()), zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated successfully", "user": user})
}

// DeleteUser handles DELETE /admin/users/:id, removing everything the user owns.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	session, _ := auth.CurrentSession(c)
	id := c.Param("id")

	if id == session.UserID() {
		respondError(c, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	user, err := h.users.DeleteCascade(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondInternal(c, h.log, "Error deleting user", err)
		return
	}

	h.log.Info("user deleted by admin", zap.String("admin_id", session.UserID()), zap.String("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User and all their vocabs deleted successfully"})
}
