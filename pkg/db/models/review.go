package models

import (
	"time"

	"github.com/lib/pq"
)

// Review is a customer rating of a pulpería, one per user per store.
type Review struct {
	ID         string         `gorm:"column:id;primaryKey" json:"review_id"`
	PulperiaID string         `gorm:"column:pulperia_id;not null;index" json:"pulperia_id"`
	UserID     string         `gorm:"column:user_id;not null;index" json:"user_id"`
	UserName   string         `gorm:"column:user_name;not null" json:"user_name"`
	Rating     int            `gorm:"column:rating;not null" json:"rating"`
	Comment    *string        `gorm:"column:comment" json:"comment,omitempty"`
	Images     pq.StringArray `gorm:"column:images;type:text[]" json:"images"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
