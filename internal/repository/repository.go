package repository

import (
	"time"

	"github.com/clubhub/clubhub-api/internal/models"
	"github.com/clubhub/clubhub-api/internal/permissions"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// UpdatePassword replaces the stored credential hash
	UpdatePassword(id uint64, passwordHash string) error

	// TouchLastLogin stamps the user's last login time
	TouchLastLogin(id uint64) error
}

// ClubRepository defines the interface for club data access
type ClubRepository interface {
	// CreateWithOwner creates a club, its owner and default roles, the
	// creator's owner-holder membership, and the default role's baseline
	// grants within a single transaction.
	CreateWithOwner(club *models.Club, ownerRole, defaultRole *models.Role, member *models.Membership, grants []models.RolePermission) error

	// FindByID finds a club by ID
	FindByID(id uint64) (*models.Club, error)

	// FindActiveByAccessCode finds an active club by its join code
	FindActiveByAccessCode(code string) (*models.Club, error)

	// Update updates a club
	Update(club *models.Club) error

	// AccessCodeExists reports whether any club already holds the code
	AccessCodeExists(code string) (bool, error)
}

// RoleRepository defines the interface for role and grant data access
type RoleRepository interface {
	// Create creates a new role
	Create(role *models.Role) error

	// FindByID finds a role by ID
	FindByID(id uint64) (*models.Role, error)

	// ListByClub lists all roles of a club, owner role first
	ListByClub(clubID uint64) ([]models.Role, error)

	// DeleteWithPermissions deletes a role and its grants atomically
	DeleteWithPermissions(roleID uint64) error

	// CountActiveMembers counts active memberships referencing the role
	CountActiveMembers(roleID uint64) (int64, error)

	// UpsertPermission writes a grant, overwriting an existing value
	UpsertPermission(grant *models.RolePermission) error

	// GetPermissions returns the role's stored grants as a map keyed by capability
	GetPermissions(roleID uint64) (map[permissions.Capability]bool, error)
}

// MembershipRepository defines the interface for membership data access
type MembershipRepository interface {
	// Create creates a new membership
	Create(member *models.Membership) error

	// FindActive finds the active membership of a user in a club
	FindActive(clubID, userID uint64) (*models.Membership, error)

	// FindActiveWithRole finds the active membership with its role loaded
	FindActiveWithRole(clubID, userID uint64) (*models.Membership, error)

	// ListActiveByClub lists a club's active members with user and role
	ListActiveByClub(clubID uint64) ([]models.Membership, error)

	// ListActiveByUser lists a user's active memberships with club and role
	ListActiveByUser(userID uint64) ([]models.Membership, error)

	// UpdateRole reassigns the active membership's role
	UpdateRole(clubID, userID, roleID uint64) error

	// MarkRemoved flips the active membership to removed; returns the
	// number of rows affected so callers can detect a lost race
	MarkRemoved(clubID, userID uint64) (int64, error)
}

// JoinRequestRepository defines the interface for join request data access
type JoinRequestRepository interface {
	// Create creates a new pending join request
	Create(req *models.JoinRequest) error

	// FindByID finds a join request by ID
	FindByID(id uint64) (*models.JoinRequest, error)

	// HasPending reports whether the user already has a pending request
	HasPending(clubID, userID uint64) (bool, error)

	// ListPendingByClub lists pending requests for a club with users loaded
	ListPendingByClub(clubID uint64) ([]models.JoinRequest, error)

	// Approve flips the request to approved and creates the membership in
	// one transaction. The flip is conditional on the request still being
	// pending; a losing concurrent caller gets ErrNotPending and nothing
	// is written.
	Approve(requestID, resolvedBy uint64, member *models.Membership) error

	// Reject flips the request to rejected with an optional reason,
	// conditional on the request still being pending.
	Reject(requestID, resolvedBy uint64, reason string) error
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Upsert writes the session row, replacing any row with the same id
	Upsert(session *models.Session) error

	// FindByID finds a session by ID
	FindByID(id string) (*models.Session, error)

	// TouchActivity refreshes the session's last-activity timestamp
	TouchActivity(id string, at time.Time) error

	// SetCSRFToken stores the session's CSRF token
	SetCSRFToken(id, token string) error

	// Delete removes the session row; absent rows are not an error
	Delete(id string) error

	// DeleteExpired purges sessions idle since before the cutoff
	DeleteExpired(cutoff time.Time) error

	// Replace writes the rotated session and removes the old id in one
	// transaction; the old id stays valid until the commit.
	Replace(oldID string, session *models.Session) error
}

// RateLimitRepository defines the interface for rate limit counter access
type RateLimitRepository interface {
	// PurgeExpired deletes counters whose window started before the cutoff
	PurgeExpired(actionType string, cutoff time.Time) error

	// Find returns the counter for (actionType, identity), if any
	Find(actionType, identity string) (*models.RateLimitCounter, error)

	// Insert creates a fresh counter with attempt count 1
	Insert(counter *models.RateLimitCounter) error

	// Reset restarts the counter with a fresh window and attempt count 1
	Reset(actionType, identity string, windowStart time.Time) error

	// Increment atomically adds one attempt to the counter
	Increment(actionType, identity string, at time.Time) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a notification
	Create(notification *models.Notification) error

	// ListUnread lists the user's unread notifications, newest first
	ListUnread(userID uint64, limit int) ([]models.Notification, error)

	// MarkRead marks one of the user's notifications as read
	MarkRead(userID, notificationID uint64) error
}

// ActivityLogRepository defines the interface for the append-only audit log
type ActivityLogRepository interface {
	// Create appends one activity record
	Create(entry *models.ActivityLog) error
}
