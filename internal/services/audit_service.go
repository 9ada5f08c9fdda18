package services

import (
	"encoding/json"

	"github.com/clubhub/clubhub-api/internal/logger"
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/repository"
)

// AuditService appends security-relevant actions to the activity log.
// Recording is best-effort: a failure here must never fail the action that
// triggered it, so errors are logged and swallowed.
type AuditService struct {
	logRepo repository.ActivityLogRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(logRepo repository.ActivityLogRepository) *AuditService {
	return &AuditService{logRepo: logRepo}
}

// Record appends one activity entry.
func (s *AuditService) Record(userID uint64, action string, metadata map[string]any) {
	payload := ""
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			logger.Warn("failed to encode audit metadata", "action", action, "error", err)
		} else {
			payload = string(raw)
		}
	}

	entry := &models.ActivityLog{
		UserID:   userID,
		Action:   action,
		Metadata: payload,
	}
	if err := s.logRepo.Create(entry); err != nil {
		logger.Warn("failed to record activity", "action", action, "user_id", userID, "error", err)
	}
}
