package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clubhub/clubhub-api/internal/dto"
	apierrors "github.com/clubhub/clubhub-api/internal/errors"
	"github.com/clubhub/clubhub-api/internal/middleware"
	"github.com/clubhub/clubhub-api/internal/permissions"
	"github.com/clubhub/clubhub-api/internal/services"
)

// RoleHandler coordinates role administration HTTP handlers.
type RoleHandler struct {
	roleService       *services.RoleService
	permissionService *services.PermissionService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roleService *services.RoleService, permissionService *services.PermissionService) *RoleHandler {
	return &RoleHandler{
		roleService:       roleService,
		permissionService: permissionService,
	}
}

// Catalogue returns the closed capability catalogue grouped by category.
func (h *RoleHandler) Catalogue(c *gin.Context) {
	apierrors.OK(c, h.permissionService.Catalogue(), "")
}

// ListRoles lists the club's roles.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	club, _ := middleware.CurrentClub(c)
	user, _ := middleware.Principal(c)

	roles, err := h.roleService.ListRoles(user.ID, club.ID)
	if err != nil {
		respondRoleError(c, err)
		return
	}

	apierrors.OK(c, dto.ToRoleDTOs(roles), "")
}

// GetRole returns a role with its stored grants.
func (h *RoleHandler) GetRole(c *gin.Context) {
	roleID, err := strconv.ParseUint(c.Param("roleId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid role ID")
		return
	}

	user, _ := middleware.Principal(c)

	role, grants, err := h.roleService.GetRoleWithGrants(user.ID, roleID)
	if err != nil {
		respondRoleError(c, err)
		return
	}

	apierrors.OK(c, dto.ToRoleDetailDTO(*role, grants), "")
}

// CreateRole creates a custom role in the club.
func (h *RoleHandler) CreateRole(c *gin.Context) {
	type CreateRoleRequest struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description" binding:"max=2000"`
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	club, _ := middleware.CurrentClub(c)
	user, _ := middleware.Principal(c)

	role, err := h.roleService.CreateRole(user.ID, club.ID, req.Name, req.Description)
	if err != nil {
		respondRoleError(c, err)
		return
	}

	apierrors.Created(c, dto.ToRoleDTO(*role), "Role created successfully")
}

// DeleteRole deletes an unused custom role.
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	roleID, err := strconv.ParseUint(c.Param("roleId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid role ID")
		return
	}

	club, _ := middleware.CurrentClub(c)
	user, _ := middleware.Principal(c)

	if err := h.roleService.DeleteRole(user.ID, club.ID, roleID); err != nil {
		respondRoleError(c, err)
		return
	}

	apierrors.OK(c, nil, "Role deleted successfully")
}

// SetPermission writes one grant on a custom role.
func (h *RoleHandler) SetPermission(c *gin.Context) {
	type SetPermissionRequest struct {
		Key   string `json:"key" binding:"required"`
		Value *bool  `json:"value" binding:"required"`
	}

	roleID, err := strconv.ParseUint(c.Param("roleId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid role ID")
		return
	}

	var req SetPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	club, _ := middleware.CurrentClub(c)
	user, _ := middleware.Principal(c)

	if err := h.permissionService.SetPermission(user.ID, club.ID, roleID, permissions.Capability(req.Key), *req.Value); err != nil {
		respondRoleError(c, err)
		return
	}

	apierrors.OK(c, nil, "Permission updated")
}

func respondRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoleNameRequired),
		errors.Is(err, services.ErrUnknownCapability),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOwnerRoleImmutable):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrRoleNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotAMember):
		apierrors.NotFound(c, "Club not found")
	case errors.Is(err, services.ErrRoleInUse):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
