package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/permissions"
	"github.com/clubhub/clubhub-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRoleNameRequired = errors.New("role name is required")
	ErrRoleNotFound     = errors.New("role not found")
	ErrRoleInUse        = errors.New("cannot delete role with active members; reassign members first")
	ErrNotAMember       = errors.New("user is not a member of this club")
)

// RoleService administers a club's custom roles.
type RoleService struct {
	roleRepo   repository.RoleRepository
	memberRepo repository.MembershipRepository
	resolver   *PermissionService
	audit      *AuditService
}

// NewRoleService creates a new RoleService.
func NewRoleService(roleRepo repository.RoleRepository, memberRepo repository.MembershipRepository, resolver *PermissionService, audit *AuditService) *RoleService {
	return &RoleService{
		roleRepo:   roleRepo,
		memberRepo: memberRepo,
		resolver:   resolver,
		audit:      audit,
	}
}

// CreateRole creates a custom role. New roles start with no grants
// (default-deny) and are never the owner role.
func (s *RoleService) CreateRole(actorID, clubID uint64, name, description string) (*models.Role, error) {
	if err := s.resolver.requireCapability(actorID, clubID, permissions.CapManageRoles); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRoleNameRequired
	}

	role := &models.Role{
		ClubID:      clubID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Kind:        models.RoleKindCustom,
	}
	if err := s.roleRepo.Create(role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	s.audit.Record(actorID, "create_role", map[string]any{
		"club_id":   clubID,
		"role_name": name,
	})
	return role, nil
}

// DeleteRole deletes a custom role and its grants. The owner role can never
// be deleted, and a role still referenced by active members cannot be
// deleted regardless of the actor's privilege.
func (s *RoleService) DeleteRole(actorID, clubID, roleID uint64) error {
	if err := s.resolver.requireCapability(actorID, clubID, permissions.CapManageRoles); err != nil {
		return err
	}

	role, err := s.findClubRole(clubID, roleID)
	if err != nil {
		return err
	}
	if role.IsOwner() {
		return ErrOwnerRoleImmutable
	}

	memberCount, err := s.roleRepo.CountActiveMembers(roleID)
	if err != nil {
		return fmt.Errorf("failed to count role members: %w", err)
	}
	if memberCount > 0 {
		return ErrRoleInUse
	}

	if err := s.roleRepo.DeleteWithPermissions(roleID); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	s.audit.Record(actorID, "delete_role", map[string]any{
		"club_id": clubID,
		"role_id": roleID,
	})
	return nil
}

// AssignRole reassigns an active member to a non-owner role. Ownership
// transfer is a distinct, more privileged operation and is not served here.
func (s *RoleService) AssignRole(actorID, clubID, targetUserID, roleID uint64) error {
	if err := s.resolver.requireAnyCapability(actorID, clubID,
		permissions.CapEditMemberRoles, permissions.CapManageMembers); err != nil {
		return err
	}

	role, err := s.findClubRole(clubID, roleID)
	if err != nil {
		return err
	}
	if role.IsOwner() {
		return ErrOwnerRoleImmutable
	}

	target, err := s.memberRepo.FindActive(clubID, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAMember
		}
		return fmt.Errorf("failed to find member: %w", err)
	}
	if target.IsOwnerHolder {
		return ErrOwnerRoleImmutable
	}

	if err := s.memberRepo.UpdateRole(clubID, targetUserID, roleID); err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}

	s.audit.Record(actorID, "update_member_role", map[string]any{
		"club_id":        clubID,
		"target_user_id": targetUserID,
		"new_role_id":    roleID,
	})
	return nil
}

// ListRoles lists a club's roles for any active member.
func (s *RoleService) ListRoles(actorID, clubID uint64) ([]models.Role, error) {
	if _, err := s.memberRepo.FindActive(clubID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAMember
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	roles, err := s.roleRepo.ListByClub(clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// GetRoleWithGrants returns a role and its stored grant map for a member of
// the role's club.
func (s *RoleService) GetRoleWithGrants(actorID, roleID uint64) (*models.Role, map[permissions.Capability]bool, error) {
	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRoleNotFound
		}
		return nil, nil, fmt.Errorf("failed to find role: %w", err)
	}

	if _, err := s.memberRepo.FindActive(role.ClubID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotAMember
		}
		return nil, nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	grants, err := s.roleRepo.GetPermissions(roleID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load grants: %w", err)
	}
	return role, grants, nil
}

func (s *RoleService) findClubRole(clubID, roleID uint64) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRole
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	if role.ClubID != clubID {
		return nil, ErrInvalidRole
	}
	return role, nil
}
