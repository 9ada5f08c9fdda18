package models

import (
	"github.com/clubhub/clubhub-api/internal/permissions"
)

// RolePermission is one boolean grant of a capability to a role. A missing
// row evaluates to false (default-deny).
type RolePermission struct {
	RoleID        uint64                 `gorm:"primarykey" json:"role_id"`
	PermissionKey permissions.Capability `gorm:"primarykey;type:varchar(50)" json:"permission_key"`
	Value         bool                   `gorm:"not null;default:false" json:"value"`
}
