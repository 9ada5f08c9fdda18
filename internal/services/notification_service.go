package services

import (
	"fmt"

	"github.com/clubhub/clubhub-api/internal/logger"
	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/repository"
)

// NotificationService persists user notifications. Delivery is
// fire-and-forget: failure to notify never fails the triggering operation.
type NotificationService struct {
	noteRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(noteRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{noteRepo: noteRepo}
}

// Notify records a notification for the user.
func (s *NotificationService) Notify(userID uint64, title, message, kind string) {
	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Kind:    kind,
	}
	if err := s.noteRepo.Create(notification); err != nil {
		logger.Warn("failed to create notification", "user_id", userID, "title", title, "error", err)
	}
}

// ListUnread returns the user's unread notifications, newest first.
func (s *NotificationService) ListUnread(userID uint64, limit int) ([]models.Notification, error) {
	notifications, err := s.noteRepo.ListUnread(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(userID, notificationID uint64) error {
	if err := s.noteRepo.MarkRead(userID, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
