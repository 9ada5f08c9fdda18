package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clubhub/clubhub-api/internal/constants"
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/permissions"
	"github.com/clubhub/clubhub-api/internal/repository"
	"github.com/clubhub/clubhub-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrClubNameRequired        = errors.New("club name is required")
	ErrClubNotFound            = errors.New("club not found")
	ErrCodeGenerationExhausted = errors.New("could not generate a unique access code")
)

// defaultMemberGrants is the baseline for the auto-created "Member" role.
// Everything else starts denied.
var defaultMemberGrants = []permissions.Capability{
	permissions.CapViewAnnouncements,
	permissions.CapViewEvents,
	permissions.CapViewMembers,
	permissions.CapAccessChat,
}

// ClubService creates clubs and manages their settings.
type ClubService struct {
	clubRepo   repository.ClubRepository
	memberRepo repository.MembershipRepository
	resolver   *PermissionService
	audit      *AuditService
}

// NewClubService creates a new ClubService.
func NewClubService(clubRepo repository.ClubRepository, memberRepo repository.MembershipRepository, resolver *PermissionService, audit *AuditService) *ClubService {
	return &ClubService{
		clubRepo:   clubRepo,
		memberRepo: memberRepo,
		resolver:   resolver,
		audit:      audit,
	}
}

// CreateClub creates a club with its owner role, a default "Member" role
// with baseline grants, and the creator as the owner holder. Everything is
// committed in one transaction so a club never exists without an owner.
func (s *ClubService) CreateClub(creatorID uint64, name, description string) (*models.Club, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrClubNameRequired
	}

	accessCode, err := s.uniqueAccessCode(name)
	if err != nil {
		return nil, err
	}

	club := &models.Club{
		Name:        name,
		Description: strings.TrimSpace(description),
		AccessCode:  accessCode,
		IsActive:    true,
	}
	ownerRole := &models.Role{
		Name:        "President",
		Description: "Club owner with full permissions",
		Kind:        models.RoleKindOwner,
	}
	defaultRole := &models.Role{
		Name:        "Member",
		Description: "Regular club member",
		Kind:        models.RoleKindCustom,
	}
	member := &models.Membership{
		UserID:        creatorID,
		IsOwnerHolder: true,
		Status:        models.MembershipStatusActive,
		JoinedAt:      time.Now(),
	}

	grants := make([]models.RolePermission, 0, len(defaultMemberGrants))
	for _, key := range defaultMemberGrants {
		grants = append(grants, models.RolePermission{PermissionKey: key, Value: true})
	}

	if err := s.clubRepo.CreateWithOwner(club, ownerRole, defaultRole, member, grants); err != nil {
		return nil, fmt.Errorf("failed to create club: %w", err)
	}

	s.audit.Record(creatorID, "create_club", map[string]any{
		"club_id":   club.ID,
		"club_name": name,
	})
	return club, nil
}

// GetClub returns a club for one of its active members.
func (s *ClubService) GetClub(actorID, clubID uint64) (*models.Club, error) {
	if _, err := s.memberRepo.FindActive(clubID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAMember
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	club, err := s.clubRepo.FindByID(clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to find club: %w", err)
	}
	return club, nil
}

// UpdateClub changes the club's name and description.
func (s *ClubService) UpdateClub(actorID, clubID uint64, name, description string) (*models.Club, error) {
	if err := s.resolver.requireCapability(actorID, clubID, permissions.CapModifyClubSettings); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrClubNameRequired
	}

	club, err := s.clubRepo.FindByID(clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to find club: %w", err)
	}

	club.Name = name
	club.Description = strings.TrimSpace(description)
	if err := s.clubRepo.Update(club); err != nil {
		return nil, fmt.Errorf("failed to update club: %w", err)
	}

	s.audit.Record(actorID, "update_club", map[string]any{"club_id": clubID})
	return club, nil
}

// RegenerateAccessCode replaces the club's join code. Pending requests filed
// under the old code are unaffected; only new requests need the new code.
func (s *ClubService) RegenerateAccessCode(actorID, clubID uint64) (*models.Club, error) {
	if err := s.resolver.requireCapability(actorID, clubID, permissions.CapModifyClubSettings); err != nil {
		return nil, err
	}

	club, err := s.clubRepo.FindByID(clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to find club: %w", err)
	}

	accessCode, err := s.uniqueAccessCode(club.Name)
	if err != nil {
		return nil, err
	}

	club.AccessCode = accessCode
	if err := s.clubRepo.Update(club); err != nil {
		return nil, fmt.Errorf("failed to update club: %w", err)
	}

	s.audit.Record(actorID, "regenerate_access_code", map[string]any{"club_id": clubID})
	return club, nil
}

// uniqueAccessCode retries generation a bounded number of times; the code
// space per prefix is small enough that collisions are expected under load.
func (s *ClubService) uniqueAccessCode(clubName string) (string, error) {
	for i := 0; i < constants.AccessCodeMaxAttempts; i++ {
		code, err := utils.GenerateAccessCode(clubName)
		if err != nil {
			return "", fmt.Errorf("failed to generate access code: %w", err)
		}

		exists, err := s.clubRepo.AccessCodeExists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check access code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}
