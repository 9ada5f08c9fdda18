package repository

import (
	"errors"
	"time"

	"github.com/clubhub/clubhub-api/internal/models"
	"gorm.io/gorm"
)

// ErrNotPending is returned when a resolution loses the race out of the
// pending state: the conditional update matched no row.
var ErrNotPending = errors.New("join request repository: request is not pending")

// GormJoinRequestRepository is a GORM implementation of JoinRequestRepository
type GormJoinRequestRepository struct {
	db *gorm.DB
}

// NewJoinRequestRepository creates a new JoinRequestRepository
func NewJoinRequestRepository(db *gorm.DB) JoinRequestRepository {
	return &GormJoinRequestRepository{db: db}
}

// Create creates a new pending join request
func (r *GormJoinRequestRepository) Create(req *models.JoinRequest) error {
	return r.db.Create(req).Error
}

// FindByID finds a join request by ID
func (r *GormJoinRequestRepository) FindByID(id uint64) (*models.JoinRequest, error) {
	var req models.JoinRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// HasPending reports whether the user already has a pending request
func (r *GormJoinRequestRepository) HasPending(clubID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.JoinRequest{}).
		Where("club_id = ? AND user_id = ? AND status = ?",
			clubID, userID, models.JoinRequestStatusPending).
		Count(&count).Error
	return count > 0, err
}

// ListPendingByClub lists pending requests for a club with users loaded
func (r *GormJoinRequestRepository) ListPendingByClub(clubID uint64) ([]models.JoinRequest, error) {
	var reqs []models.JoinRequest
	if err := r.db.Preload("User").
		Where("club_id = ? AND status = ?", clubID, models.JoinRequestStatusPending).
		Order("created_at ASC").
		Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Approve flips the request to approved and creates the membership in one
// transaction. The status flip only matches a row still in pending, so a
// concurrent duplicate approval rolls back with ErrNotPending.
func (r *GormJoinRequestRepository) Approve(requestID, resolvedBy uint64, member *models.Membership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.JoinRequest{}).
			Where("id = ? AND status = ?", requestID, models.JoinRequestStatusPending).
			Updates(map[string]any{
				"status":      models.JoinRequestStatusApproved,
				"resolved_by": resolvedBy,
				"resolved_at": &now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotPending
		}

		return tx.Create(member).Error
	})
}

// Reject flips the request to rejected, conditional on it still being pending
func (r *GormJoinRequestRepository) Reject(requestID, resolvedBy uint64, reason string) error {
	now := time.Now()
	result := r.db.Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", requestID, models.JoinRequestStatusPending).
		Updates(map[string]any{
			"status":        models.JoinRequestStatusRejected,
			"reject_reason": reason,
			"resolved_by":   resolvedBy,
			"resolved_at":   &now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}
