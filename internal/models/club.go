package models

import (
	"time"
)

type Club struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	AccessCode  string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"access_code"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Roles   []Role       `gorm:"foreignKey:ClubID" json:"roles,omitempty"`
	Members []Membership `gorm:"foreignKey:ClubID" json:"members,omitempty"`
}
