package repository

import (
	"time"

	"github.com/clubhub/clubhub-api/internal/models"
	"gorm.io/gorm"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Create creates a new membership
func (r *GormMembershipRepository) Create(member *models.Membership) error {
	return r.db.Create(member).Error
}

// FindActive finds the active membership of a user in a club
func (r *GormMembershipRepository) FindActive(clubID, userID uint64) (*models.Membership, error) {
	var member models.Membership
	if err := r.db.Where("club_id = ? AND user_id = ? AND status = ?",
		clubID, userID, models.MembershipStatusActive).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindActiveWithRole finds the active membership with its role loaded
func (r *GormMembershipRepository) FindActiveWithRole(clubID, userID uint64) (*models.Membership, error) {
	var member models.Membership
	if err := r.db.Preload("Role").
		Where("club_id = ? AND user_id = ? AND status = ?",
			clubID, userID, models.MembershipStatusActive).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListActiveByClub lists a club's active members with user and role
func (r *GormMembershipRepository) ListActiveByClub(clubID uint64) ([]models.Membership, error) {
	var members []models.Membership
	if err := r.db.Preload("User").Preload("Role").
		Where("club_id = ? AND status = ?", clubID, models.MembershipStatusActive).
		Order("is_owner_holder DESC, joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListActiveByUser lists a user's active memberships with club and role
func (r *GormMembershipRepository) ListActiveByUser(userID uint64) ([]models.Membership, error) {
	var members []models.Membership
	if err := r.db.Preload("Club").Preload("Role").
		Where("user_id = ? AND status = ?", userID, models.MembershipStatusActive).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateRole reassigns the active membership's role
func (r *GormMembershipRepository) UpdateRole(clubID, userID, roleID uint64) error {
	return r.db.Model(&models.Membership{}).
		Where("club_id = ? AND user_id = ? AND status = ?",
			clubID, userID, models.MembershipStatusActive).
		Updates(map[string]any{
			"role_id":         roleID,
			"is_owner_holder": false,
		}).Error
}

// MarkRemoved flips the active membership to removed
func (r *GormMembershipRepository) MarkRemoved(clubID, userID uint64) (int64, error) {
	now := time.Now()
	result := r.db.Model(&models.Membership{}).
		Where("club_id = ? AND user_id = ? AND status = ?",
			clubID, userID, models.MembershipStatusActive).
		Updates(map[string]any{
			"status":     models.MembershipStatusRemoved,
			"removed_at": &now,
		})
	return result.RowsAffected, result.Error
}
