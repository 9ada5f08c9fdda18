package repository

import (
	"time"

	"github.com/clubhub/clubhub-api/internal/models"
	"gorm.io/gorm"
)

// GormRateLimitRepository is a GORM implementation of RateLimitRepository
type GormRateLimitRepository struct {
	db *gorm.DB
}

// NewRateLimitRepository creates a new RateLimitRepository
func NewRateLimitRepository(db *gorm.DB) RateLimitRepository {
	return &GormRateLimitRepository{db: db}
}

// PurgeExpired deletes counters whose window started before the cutoff
func (r *GormRateLimitRepository) PurgeExpired(actionType string, cutoff time.Time) error {
	return r.db.Where("action_type = ? AND window_start < ?", actionType, cutoff).
		Delete(&models.RateLimitCounter{}).Error
}

// Find returns the counter for (actionType, identity), if any
func (r *GormRateLimitRepository) Find(actionType, identity string) (*models.RateLimitCounter, error) {
	var counter models.RateLimitCounter
	if err := r.db.Where("action_type = ? AND identity = ?", actionType, identity).
		First(&counter).Error; err != nil {
		return nil, err
	}
	return &counter, nil
}

// Insert creates a fresh counter with attempt count 1
func (r *GormRateLimitRepository) Insert(counter *models.RateLimitCounter) error {
	return r.db.Create(counter).Error
}

// Reset restarts the counter with a fresh window and attempt count 1
func (r *GormRateLimitRepository) Reset(actionType, identity string, windowStart time.Time) error {
	return r.db.Model(&models.RateLimitCounter{}).
		Where("action_type = ? AND identity = ?", actionType, identity).
		Updates(map[string]any{
			"attempt_count": 1,
			"window_start":  windowStart,
			"last_attempt":  windowStart,
		}).Error
}

// Increment atomically adds one attempt to the counter
func (r *GormRateLimitRepository) Increment(actionType, identity string, at time.Time) error {
	return r.db.Model(&models.RateLimitCounter{}).
		Where("action_type = ? AND identity = ?", actionType, identity).
		Updates(map[string]any{
			"attempt_count": gorm.Expr("attempt_count + 1"),
			"last_attempt":  at,
		}).Error
}
