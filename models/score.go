package models

import (
	"time"
)

// Score is one submission. Records are append-only.
type Score struct {
	ID         uint      `json:"id" gorm:"primaryKey;index:idx_scores_rank,priority:2"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	PlayerName string    `json:"player_name" gorm:"not null"`
	Score      int       `json:"score" gorm:"not null;index:idx_scores_rank,priority:1,sort:desc"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	User User `json:"-"`
}
