package services

import (
	"errors"
	"fmt"

	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/permissions"
	"github.com/clubhub/clubhub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrInvalidRole        = errors.New("invalid role for this club")
	ErrOwnerRoleImmutable = errors.New("the owner role cannot be modified")
	ErrUnknownCapability  = errors.New("unknown capability key")
)

// PermissionService resolves and administers per-role capability grants.
type PermissionService struct {
	memberRepo repository.MembershipRepository
	roleRepo   repository.RoleRepository
	audit      *AuditService
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(memberRepo repository.MembershipRepository, roleRepo repository.RoleRepository, audit *AuditService) *PermissionService {
	return &PermissionService{
		memberRepo: memberRepo,
		roleRepo:   roleRepo,
		audit:      audit,
	}
}

// HasCapability resolves whether the user holds the capability in the club.
// No active membership, no grant row, or a false grant all resolve to false
// (default-deny). The owner role grants every capability unconditionally.
func (s *PermissionService) HasCapability(userID, clubID uint64, key permissions.Capability) (bool, error) {
	if !permissions.IsValid(key) {
		return false, nil
	}

	member, err := s.memberRepo.FindActiveWithRole(clubID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve membership: %w", err)
	}

	if member.Role.IsOwner() {
		return true, nil
	}

	grants, err := s.roleRepo.GetPermissions(member.RoleID)
	if err != nil {
		return false, fmt.Errorf("failed to load grants: %w", err)
	}
	return grants[key], nil
}

// requireCapability is the shared authorization gate for mutating operations.
func (s *PermissionService) requireCapability(actorID, clubID uint64, key permissions.Capability) error {
	ok, err := s.HasCapability(actorID, clubID, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// requireAnyCapability passes when the actor holds at least one of the keys.
func (s *PermissionService) requireAnyCapability(actorID, clubID uint64, keys ...permissions.Capability) error {
	for _, key := range keys {
		ok, err := s.HasCapability(actorID, clubID, key)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrForbidden
}

// SetPermission upserts a grant on a custom role. Setting the same value
// twice is observably a no-op. Owner role grants are fixed and not editable.
func (s *PermissionService) SetPermission(actorID, clubID, roleID uint64, key permissions.Capability, value bool) error {
	if err := s.requireCapability(actorID, clubID, permissions.CapManageRoles); err != nil {
		return err
	}

	if !permissions.IsValid(key) {
		return ErrUnknownCapability
	}

	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidRole
		}
		return fmt.Errorf("failed to find role: %w", err)
	}
	if role.ClubID != clubID {
		return ErrInvalidRole
	}
	if role.IsOwner() {
		return ErrOwnerRoleImmutable
	}

	grant := &models.RolePermission{
		RoleID:        roleID,
		PermissionKey: key,
		Value:         value,
	}
	if err := s.roleRepo.UpsertPermission(grant); err != nil {
		return fmt.Errorf("failed to upsert grant: %w", err)
	}

	s.audit.Record(actorID, "update_role_permission", map[string]any{
		"club_id":          clubID,
		"role_id":          roleID,
		"permission_key":   string(key),
		"permission_value": value,
	})
	return nil
}

// Catalogue returns the closed capability catalogue.
func (s *PermissionService) Catalogue() []permissions.Category {
	return permissions.Catalogue()
}
