package models

import (
	"time"

	"github.com/lapulperia/lapulperia-backend/pkg/types"
)

// Store represents a pulpería: a seller entity with one owner user.
type Store struct {
	ID              string         `gorm:"column:id;primaryKey" json:"pulperia_id"`
	OwnerUserID     string         `gorm:"column:owner_user_id;not null;index" json:"owner_user_id"`
	Name            string         `gorm:"column:name;not null" json:"name"`
	Description     *string        `gorm:"column:description" json:"description,omitempty"`
	Address         string         `gorm:"column:address;not null" json:"address"`
	Location        types.Location `gorm:"column:location;type:jsonb;serializer:json" json:"location"`
	Phone           *string        `gorm:"column:phone" json:"phone,omitempty"`
	Email           *string        `gorm:"column:email" json:"email,omitempty"`
	Website         *string        `gorm:"column:website" json:"website,omitempty"`
	Hours           *string        `gorm:"column:hours" json:"hours,omitempty"`
	ImageURL        *string        `gorm:"column:image_url" json:"image_url,omitempty"`
	LogoURL         *string        `gorm:"column:logo_url" json:"logo_url,omitempty"`
	Rating          float64        `gorm:"column:rating;not null;default:0" json:"rating"`
	ReviewCount     int            `gorm:"column:review_count;not null;default:0" json:"review_count"`
	TitleFont       string         `gorm:"column:title_font;not null;default:'default'" json:"title_font"`
	BackgroundColor string         `gorm:"column:background_color;not null;default:'#DC2626'" json:"background_color"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName keeps the historical collection name.
func (Store) TableName() string {
	return "pulperias"
}
