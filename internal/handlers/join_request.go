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

// JoinRequestHandler coordinates the join-request lifecycle over HTTP.
type JoinRequestHandler struct {
	membershipService *services.MembershipService
}

// NewJoinRequestHandler creates a new JoinRequestHandler.
func NewJoinRequestHandler(membershipService *services.MembershipService) *JoinRequestHandler {
	return &JoinRequestHandler{membershipService: membershipService}
}

// RequestJoin files a join request against the club matching the access code.
func (h *JoinRequestHandler) RequestJoin(c *gin.Context) {
	type JoinRequest struct {
		AccessCode string `json:"access_code" binding:"required,max=20"`
		Message    string `json:"message" binding:"max=2000"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	created, err := h.membershipService.RequestJoin(user.ID, req.AccessCode, req.Message)
	if err != nil {
		respondJoinError(c, err)
		return
	}

	apierrors.Created(c, dto.ToJoinRequestDTO(*created), "Join request submitted")
}

// ListPending lists the club's pending join requests for reviewers.
func (h *JoinRequestHandler) ListPending(c *gin.Context) {
	club, _ := middleware.CurrentClub(c)
	user, _ := middleware.Principal(c)

	requests, err := h.membershipService.ListPendingRequests(user.ID, club.ID)
	if err != nil {
		respondJoinError(c, err)
		return
	}

	apierrors.OK(c, dto.ToJoinRequestDTOs(requests), "")
}

// Approve approves a pending request, admitting the requester in the
// assigned role.
func (h *JoinRequestHandler) Approve(c *gin.Context) {
	type ApproveRequest struct {
		RoleID uint64 `json:"role_id" binding:"required"`
	}

	requestID, err := strconv.ParseUint(c.Param("requestId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request ID")
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, _ := middleware.Principal(c)

	if err := h.membershipService.ApproveJoinRequest(user.ID, requestID, req.RoleID); err != nil {
		respondJoinError(c, err)
		return
	}

	apierrors.OK(c, nil, "Join request approved")
}

// Reject rejects a pending request with an optional reason.
func (h *JoinRequestHandler) Reject(c *gin.Context) {
	type RejectRequest struct {
		Reason string `json:"reason" binding:"max=2000"`
	}

	requestID, err := strconv.ParseUint(c.Param("requestId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request ID")
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, _ := middleware.Principal(c)

	if err := h.membershipService.RejectJoinRequest(user.ID, requestID, req.Reason); err != nil {
		respondJoinError(c, err)
		return
	}

	apierrors.OK(c, nil, "Join request rejected")
}

func respondJoinError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidJoinCode):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRequestNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrDuplicatePending),
		errors.Is(err, services.ErrNotPendingRequest):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrOwnerRoleImmutable):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotAMember):
		apierrors.NotFound(c, "Club not found")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
