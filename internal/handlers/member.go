package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clubhub/clubhub-api/internal/dto"
	apierrors "github.com/clubhub/clubhub-api/internal/errors"
	"github.com/clubhub/clubhub-api/internal/middleware"
	"github.com/clubhub/clubhub-api/internal/services"
)

// MemberHandler coordinates member management HTTP handlers.
type MemberHandler struct {
	membershipService *services.MembershipService
	roleService       *services.RoleService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(membershipService *services.MembershipService, roleService *services.RoleService) *MemberHandler {
	return &MemberHandler{
		membershipService: membershipService,
		roleService:       roleService,
	}
}

// ListMembers lists the club's active members.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	club, _ := middleware.CurrentClub(c)
	user, _ := middleware.Principal(c)

	members, err := h.membershipService.ListMembers(user.ID, club.ID)
	if err != nil {
		respondMemberError(c, err)
		return
	}

	apierrors.OK(c, dto.ToMemberDTOs(members), "")
}

// RemoveMember removes an active member from the club.
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	club, _ := middleware.CurrentClub(c)
	user, _ := middleware.Principal(c)

	if err := h.membershipService.RemoveMember(user.ID, club.ID, targetID); err != nil {
		respondMemberError(c, err)
		return
	}

	apierrors.OK(c, nil, "Member removed")
}

// AssignRole reassigns a member to a non-owner role.
func (h *MemberHandler) AssignRole(c *gin.Context) {
	type AssignRoleRequest struct {
		RoleID uint64 `json:"role_id" binding:"required"`
	}

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	club, _ := middleware.CurrentClub(c)
	user, _ := middleware.Principal(c)

	if err := h.roleService.AssignRole(user.ID, club.ID, targetID, req.RoleID); err != nil {
		respondMemberError(c, err)
		return
	}

	apierrors.OK(c, nil, "Member role updated")
}

func respondMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSelfRemoval):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrOwnerRoleImmutable):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotAMember):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
