package models

import (
	"time"
)

// RateLimitCounter tracks attempts of one action by one identity within a
// rolling window. Identity is "u:<user id>" or "ip:<address>". Rows are
// purged once the window elapses.
type RateLimitCounter struct {
	ActionType   string    `gorm:"primarykey;type:varchar(50)" json:"action_type"`
	Identity     string    `gorm:"primarykey;type:varchar(100)" json:"identity"`
	AttemptCount int       `gorm:"not null;default:1" json:"attempt_count"`
	WindowStart  time.Time `gorm:"not null" json:"window_start"`
	LastAttempt  time.Time `json:"last_attempt"`
}
