package models

import (
	"time"

	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	"github.com/lapulperia/lapulperia-backend/pkg/types"
)

// User represents the canonical identity entity. Profile fields come from the
// external identity provider; user_type is chosen in-app after first login.
type User struct {
	ID        string          `gorm:"column:id;primaryKey" json:"user_id"`
	Email     string          `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	Picture   *string         `gorm:"column:picture" json:"picture,omitempty"`
	UserType  *enums.UserType `gorm:"column:user_type" json:"user_type"`
	Location  *types.Location `gorm:"column:location;type:jsonb;serializer:json" json:"location"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}
