package models

import (
	"time"
)

type MembershipStatus string

const (
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusRemoved MembershipStatus = "removed"
)

// Membership ties a user to a club with a role. Removal flips the status;
// the row is retained for history and re-joining creates a new row.
type Membership struct {
	ID            uint64           `gorm:"primarykey" json:"id"`
	ClubID        uint64           `gorm:"not null;index:idx_memberships_club_user" json:"club_id"`
	UserID        uint64           `gorm:"not null;index:idx_memberships_club_user" json:"user_id"`
	RoleID        uint64           `gorm:"not null;index" json:"role_id"`
	IsOwnerHolder bool             `gorm:"not null;default:false" json:"is_owner_holder"`
	Status        MembershipStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	JoinedAt      time.Time        `json:"joined_at"`
	RemovedAt     *time.Time       `json:"removed_at,omitempty"`

	// Relations
	Club Club `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}
