package models

import (
	"time"
)

// Session identifies one authenticated browser/device instance. One row per
// session id; re-authentication from the same client upserts the row.
type Session struct {
	ID           string    `gorm:"primarykey;type:varchar(64)" json:"id"`
	UserID       uint64    `gorm:"not null;index" json:"user_id"`
	IPAddress    string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent    string    `gorm:"type:varchar(255)" json:"user_agent"`
	CSRFToken    string    `gorm:"type:varchar(64)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `gorm:"index" json:"last_activity"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
