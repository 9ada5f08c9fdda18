package models

import (
	"time"
)

type RoleKind string

const (
	// RoleKindOwner marks the singular, immutable, all-capable role of a club.
	RoleKindOwner RoleKind = "owner"
	// RoleKindCustom marks a club-defined role resolved through stored grants.
	RoleKindCustom RoleKind = "custom"
)

type Role struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ClubID      uint64    `gorm:"not null;index" json:"club_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Kind        RoleKind  `gorm:"type:varchar(20);not null;default:'custom'" json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Club        Club             `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	Permissions []RolePermission `gorm:"foreignKey:RoleID" json:"permissions,omitempty"`
}

// IsOwner reports whether this is the club's owner role.
func (r *Role) IsOwner() bool {
	return r.Kind == RoleKindOwner
}
