package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/permissions"
	"github.com/clubhub/clubhub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidJoinCode   = errors.New("no active club matches this access code")
	ErrAlreadyMember     = errors.New("you are already a member of this club")
	ErrDuplicatePending  = errors.New("you already have a pending request for this club")
	ErrRequestNotFound   = errors.New("join request not found")
	ErrNotPendingRequest = errors.New("join request has already been resolved")
	ErrSelfRemoval       = errors.New("you cannot remove yourself from a club")
	ErrCannotRemoveOwner = errors.New("the club owner cannot be removed")
)

// MembershipService runs the join-request lifecycle and member removal.
type MembershipService struct {
	clubRepo   repository.ClubRepository
	memberRepo repository.MembershipRepository
	joinRepo   repository.JoinRequestRepository
	roleRepo   repository.RoleRepository
	resolver   *PermissionService
	notifier   *NotificationService
	audit      *AuditService
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	clubRepo repository.ClubRepository,
	memberRepo repository.MembershipRepository,
	joinRepo repository.JoinRequestRepository,
	roleRepo repository.RoleRepository,
	resolver *PermissionService,
	notifier *NotificationService,
	audit *AuditService,
) *MembershipService {
	return &MembershipService{
		clubRepo:   clubRepo,
		memberRepo: memberRepo,
		joinRepo:   joinRepo,
		roleRepo:   roleRepo,
		resolver:   resolver,
		notifier:   notifier,
		audit:      audit,
	}
}

// RequestJoin files a pending join request against the club matching the
// access code. Active members and users with a pending request are rejected
// before anything is written.
func (s *MembershipService) RequestJoin(userID uint64, accessCode, message string) (*models.JoinRequest, error) {
	accessCode = strings.ToUpper(strings.TrimSpace(accessCode))
	club, err := s.clubRepo.FindActiveByAccessCode(accessCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidJoinCode
		}
		return nil, fmt.Errorf("failed to look up access code: %w", err)
	}

	if _, err := s.memberRepo.FindActive(club.ID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	pending, err := s.joinRepo.HasPending(club.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return nil, ErrDuplicatePending
	}

	req := &models.JoinRequest{
		ClubID:     club.ID,
		UserID:     userID,
		AccessCode: accessCode,
		Message:    strings.TrimSpace(message),
		Status:     models.JoinRequestStatusPending,
	}
	if err := s.joinRepo.Create(req); err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	s.audit.Record(userID, "request_join", map[string]any{"club_id": club.ID})
	return req, nil
}

// ListPendingRequests lists a club's pending requests for reviewers.
func (s *MembershipService) ListPendingRequests(actorID, clubID uint64) ([]models.JoinRequest, error) {
	if err := s.resolver.requireCapability(actorID, clubID, permissions.CapManageMembers); err != nil {
		return nil, err
	}

	requests, err := s.joinRepo.ListPendingByClub(clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return requests, nil
}

// ApproveJoinRequest approves a pending request and creates the member in
// the assigned role. The flip is conditional on the pending status, so of
// two concurrent approvers exactly one wins and exactly one membership is
// created.
func (s *MembershipService) ApproveJoinRequest(actorID, requestID, roleID uint64) error {
	req, err := s.findRequest(requestID)
	if err != nil {
		return err
	}

	if err := s.resolver.requireCapability(actorID, req.ClubID, permissions.CapManageMembers); err != nil {
		return err
	}

	if req.Status != models.JoinRequestStatusPending {
		return ErrNotPendingRequest
	}

	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidRole
		}
		return fmt.Errorf("failed to find role: %w", err)
	}
	if role.ClubID != req.ClubID {
		return ErrInvalidRole
	}
	if role.IsOwner() {
		return ErrOwnerRoleImmutable
	}

	member := &models.Membership{
		ClubID:   req.ClubID,
		UserID:   req.UserID,
		RoleID:   roleID,
		Status:   models.MembershipStatusActive,
		JoinedAt: time.Now(),
	}
	if err := s.joinRepo.Approve(requestID, actorID, member); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return ErrNotPendingRequest
		}
		return fmt.Errorf("failed to approve join request: %w", err)
	}

	s.notifier.Notify(req.UserID, "Join request approved",
		"Your request to join the club has been approved.", "success")
	s.audit.Record(actorID, "approve_join_request", map[string]any{
		"club_id":    req.ClubID,
		"request_id": requestID,
		"user_id":    req.UserID,
		"role_id":    roleID,
	})
	return nil
}

// RejectJoinRequest rejects a pending request with an optional reason.
func (s *MembershipService) RejectJoinRequest(actorID, requestID uint64, reason string) error {
	req, err := s.findRequest(requestID)
	if err != nil {
		return err
	}

	if err := s.resolver.requireCapability(actorID, req.ClubID, permissions.CapManageMembers); err != nil {
		return err
	}

	if req.Status != models.JoinRequestStatusPending {
		return ErrNotPendingRequest
	}

	if err := s.joinRepo.Reject(requestID, actorID, strings.TrimSpace(reason)); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return ErrNotPendingRequest
		}
		return fmt.Errorf("failed to reject join request: %w", err)
	}

	s.notifier.Notify(req.UserID, "Join request declined",
		"Your request to join the club was declined.", "info")
	s.audit.Record(actorID, "reject_join_request", map[string]any{
		"club_id":    req.ClubID,
		"request_id": requestID,
		"user_id":    req.UserID,
	})
	return nil
}

// RemoveMember removes an active member from the club. Self-removal is
// refused before the permission gate so an authorized actor targeting
// themselves learns the real reason. The owner holder can never be removed.
func (s *MembershipService) RemoveMember(actorID, clubID, targetUserID uint64) error {
	if actorID == targetUserID {
		return ErrSelfRemoval
	}

	if err := s.resolver.requireCapability(actorID, clubID, permissions.CapManageMembers); err != nil {
		return err
	}

	target, err := s.memberRepo.FindActive(clubID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		return fmt.Errorf("failed to find member: %w", err)
	}
	if target.IsOwnerHolder {
		return ErrCannotRemoveOwner
	}

	rows, err := s.memberRepo.MarkRemoved(clubID, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if rows == 0 {
		return ErrNotAMember
	}

	s.notifier.Notify(targetUserID, "Removed from club",
		"You have been removed from a club.", "warning")
	s.audit.Record(actorID, "remove_member", map[string]any{
		"club_id":        clubID,
		"target_user_id": targetUserID,
	})
	return nil
}

// ListMembers lists a club's active members for any active member.
func (s *MembershipService) ListMembers(actorID, clubID uint64) ([]models.Membership, error) {
	if _, err := s.memberRepo.FindActive(clubID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAMember
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	members, err := s.memberRepo.ListActiveByClub(clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// ListMyClubs lists the clubs the user is an active member of.
func (s *MembershipService) ListMyClubs(userID uint64) ([]models.Membership, error) {
	members, err := s.memberRepo.ListActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return members, nil
}

func (s *MembershipService) findRequest(requestID uint64) (*models.JoinRequest, error) {
	req, err := s.joinRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find join request: %w", err)
	}
	return req, nil
}
