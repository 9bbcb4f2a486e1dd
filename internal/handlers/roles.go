package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/startrack/intake-backend/internal/services"
)

// Role admin answers with plain text bodies.
type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// RoleUpdateRequest is the body of PUT /role/update/{id}
type RoleUpdateRequest struct {
	Name string `json:"name"`
}

// Delete removes a role no user holds
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := h.roleService.DeleteRole(c.Request.Context(), id)
	switch {
	case err == nil:
		c.String(http.StatusOK, "Successfully deleted specified record")
	case errors.Is(err, services.ErrRoleInUse):
		c.String(http.StatusUnprocessableEntity, "Failed to delete, Please delete the users associated with this role")
	case errors.Is(err, services.ErrNotFound):
		c.String(http.StatusUnprocessableEntity, "No Records Found")
	default:
		slog.Error("delete role", "id", id, "error", err)
		c.String(http.StatusUnprocessableEntity, "Failed to delete the specified record")
	}
}

// Update renames a role
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Failed to update Role")
		return
	}

	_, err := h.roleService.UpdateRole(c.Request.Context(), id, req.Name)
	switch {
	case err == nil:
		c.String(http.StatusAccepted, "Role saved successfully")
	case errors.Is(err, services.ErrNotFound):
		c.String(http.StatusUnprocessableEntity, "Specified Role not found")
	default:
		slog.Warn("update role", "id", id, "error", err)
		c.String(http.StatusBadRequest, "Failed to update Role")
	}
}

// Details returns one role
func (h *RoleHandler) Details(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	role, err := h.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// All lists the role names
func (h *RoleHandler) All(c *gin.Context) {
	roles, err := h.roleService.AllRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}
