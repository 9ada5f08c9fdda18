package repository

import (
	"errors"
	"time"

	"github.com/clubhub/clubhub-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Upsert writes the session row, replacing any row with the same id
func (r *GormSessionRepository) Upsert(session *models.Session) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "ip_address", "user_agent", "last_activity",
		}),
	}).Create(session).Error
}

// FindByID finds a session by ID
func (r *GormSessionRepository) FindByID(id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// TouchActivity refreshes the session's last-activity timestamp
func (r *GormSessionRepository) TouchActivity(id string, at time.Time) error {
	return r.db.Model(&models.Session{}).Where("id = ?", id).
		Update("last_activity", at).Error
}

// SetCSRFToken stores the session's CSRF token
func (r *GormSessionRepository) SetCSRFToken(id, token string) error {
	return r.db.Model(&models.Session{}).Where("id = ?", id).
		Update("csrf_token", token).Error
}

// Delete removes the session row; deleting an absent row is not an error
func (r *GormSessionRepository) Delete(id string) error {
	err := r.db.Delete(&models.Session{}, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// DeleteExpired purges sessions idle since before the cutoff
func (r *GormSessionRepository) DeleteExpired(cutoff time.Time) error {
	return r.db.Where("last_activity < ?", cutoff).
		Delete(&models.Session{}).Error
}

// Replace writes the rotated session and removes the old id atomically
func (r *GormSessionRepository) Replace(oldID string, session *models.Session) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Session{}, "id = ?", oldID).Error
	})
}
