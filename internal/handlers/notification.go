package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/clubhub/clubhub-api/internal/errors"
	"github.com/clubhub/clubhub-api/internal/middleware"
	"github.com/clubhub/clubhub-api/internal/services"
)

const defaultNotificationLimit = 50

// NotificationHandler serves the caller's notifications.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListUnread lists the caller's unread notifications, newest first.
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	user, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	notifications, err := h.notificationService.ListUnread(user.ID, defaultNotificationLimit)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	apierrors.OK(c, notifications, "")
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := strconv.ParseUint(c.Param("notificationId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid notification ID")
		return
	}

	user, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.notificationService.MarkRead(user.ID, notificationID); err != nil {
		apierrors.InternalError(c, "")
		return
	}

	apierrors.OK(c, nil, "Notification marked read")
}
