package models

import (
	"time"
)

type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "pending"
	JoinRequestStatusApproved JoinRequestStatus = "approved"
	JoinRequestStatusRejected JoinRequestStatus = "rejected"
)

// JoinRequest is a pending application to a club. Once resolved it is
// immutable; approval and rejection are both terminal.
type JoinRequest struct {
	ID           uint64            `gorm:"primarykey" json:"id"`
	ClubID       uint64            `gorm:"not null;index" json:"club_id"`
	UserID       uint64            `gorm:"not null;index" json:"user_id"`
	AccessCode   string            `gorm:"type:varchar(20);not null" json:"access_code"`
	Message      string            `gorm:"type:text" json:"message"`
	Status       JoinRequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	RejectReason string            `gorm:"type:text" json:"reject_reason,omitempty"`
	ResolvedBy   *uint64           `json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time        `json:"resolved_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`

	// Relations
	Club Club `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
