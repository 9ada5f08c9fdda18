package models

import (
	"time"
)

// ActivityLog is an append-only record of a security-relevant action.
// Nothing in the core reads these rows back; they exist for audit.
type ActivityLog struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Action    string    `gorm:"type:varchar(50);not null" json:"action"`
	Metadata  string    `gorm:"type:text" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}
