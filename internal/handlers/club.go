package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/clubhub/clubhub-api/internal/dto"
	apierrors "github.com/clubhub/clubhub-api/internal/errors"
	"github.com/clubhub/clubhub-api/internal/middleware"
	"github.com/clubhub/clubhub-api/internal/permissions"
	"github.com/clubhub/clubhub-api/internal/services"
)

// ClubHandler coordinates club-related HTTP handlers.
type ClubHandler struct {
	clubService       *services.ClubService
	membershipService *services.MembershipService
	permissionService *services.PermissionService
}

// NewClubHandler creates a new ClubHandler.
func NewClubHandler(clubService *services.ClubService, membershipService *services.MembershipService, permissionService *services.PermissionService) *ClubHandler {
	return &ClubHandler{
		clubService:       clubService,
		membershipService: membershipService,
		permissionService: permissionService,
	}
}

// CreateClub creates a club owned by the caller.
func (h *ClubHandler) CreateClub(c *gin.Context) {
	type CreateClubRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description" binding:"max=2000"`
	}

	var req CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	club, err := h.clubService.CreateClub(user.ID, req.Name, req.Description)
	if err != nil {
		respondClubError(c, err)
		return
	}

	apierrors.Created(c, dto.ToClubDTO(*club, true), "Club created successfully")
}

// ListMyClubs lists the clubs the caller belongs to.
func (h *ClubHandler) ListMyClubs(c *gin.Context) {
	user, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	members, err := h.membershipService.ListMyClubs(user.ID)
	if err != nil {
		respondClubError(c, err)
		return
	}

	clubs := make([]dto.ClubWithRoleDTO, len(members))
	for i, member := range members {
		clubs[i] = dto.ToClubWithRoleDTO(member)
	}
	apierrors.OK(c, clubs, "")
}

// GetClub returns the club resolved by the access middleware. The access
// code is only included for callers who may share it.
func (h *ClubHandler) GetClub(c *gin.Context) {
	club, ok := middleware.CurrentClub(c)
	if !ok {
		apierrors.NotFound(c, "Club not found")
		return
	}
	user, _ := middleware.Principal(c)

	canShare, err := h.permissionService.HasCapability(user.ID, club.ID, permissions.CapManageMembers)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	apierrors.OK(c, dto.ToClubDTO(*club, canShare), "")
}

// UpdateClub changes the club's name and description.
func (h *ClubHandler) UpdateClub(c *gin.Context) {
	type UpdateClubRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description" binding:"max=2000"`
	}

	var req UpdateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	club, _ := middleware.CurrentClub(c)
	user, _ := middleware.Principal(c)

	updated, err := h.clubService.UpdateClub(user.ID, club.ID, req.Name, req.Description)
	if err != nil {
		respondClubError(c, err)
		return
	}

	apierrors.OK(c, dto.ToClubDTO(*updated, true), "Club updated successfully")
}

// RegenerateAccessCode replaces the club's join code.
func (h *ClubHandler) RegenerateAccessCode(c *gin.Context) {
	club, _ := middleware.CurrentClub(c)
	user, _ := middleware.Principal(c)

	updated, err := h.clubService.RegenerateAccessCode(user.ID, club.ID)
	if err != nil {
		respondClubError(c, err)
		return
	}

	apierrors.OK(c, dto.ToClubDTO(*updated, true), "Access code regenerated")
}

func respondClubError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrClubNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotAMember):
		apierrors.NotFound(c, "Club not found")
	case errors.Is(err, services.ErrClubNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCodeGenerationExhausted):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
