package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/startrack/intake-backend/internal/models"
	"github.com/startrack/intake-backend/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// All lists every user
func (h *UserHandler) All(c *gin.Context) {
	users, err := h.userService.AllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Get returns one user by id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UserData lists users with their roles merged
func (h *UserHandler) UserData(c *gin.Context) {
	data, err := h.userService.UserManagementData(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// Delete removes the user with the email in the path
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("email")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nil)
}

// Activate enables the user with the email in the path
func (h *UserHandler) Activate(c *gin.Context) {
	h.mutate(c, h.userService.ActivateUser)
}

// ResetPassword restores the default password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	h.mutate(c, h.userService.ResetPassword)
}

// DeleteRequest flags the user for deletion
func (h *UserHandler) DeleteRequest(c *gin.Context) {
	h.mutate(c, h.userService.RequestDeletion)
}

func (h *UserHandler) mutate(c *gin.Context, fn func(ctx context.Context, email string) (*models.User, error)) {
	user, err := fn(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateRoles replaces the roles of a user with a comma separated list
func (h *UserHandler) UpdateRoles(c *gin.Context) {
	roles := strings.Split(c.Param("roleList"), ",")
	user, err := h.userService.UpdateRoles(c.Request.Context(), c.Param("email"), roles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdatePassword sets a new password for a user
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.PasswordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingError(err)})
		return
	}

	user, err := h.userService.UpdatePassword(c.Request.Context(), id, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile changes the name and email of a user
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingError(err)})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
