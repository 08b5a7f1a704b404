package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/lapulperia/lapulperia-backend/pkg/enums"
)

// ServiceListing is an offering posted by an independent service provider.
type ServiceListing struct {
	ID             string         `gorm:"column:id;primaryKey" json:"service_id"`
	ProviderUserID string         `gorm:"column:provider_user_id;not null;index" json:"provider_user_id"`
	ProviderName   string         `gorm:"column:provider_name;not null" json:"provider_name"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description;not null" json:"description"`
	Category       string         `gorm:"column:category;not null" json:"category"`
	HourlyRate     float64        `gorm:"column:hourly_rate;not null" json:"hourly_rate"`
	RateCurrency   enums.Currency `gorm:"column:rate_currency;not null" json:"rate_currency"`
	Location       string         `gorm:"column:location;not null" json:"location"`
	Contact        string         `gorm:"column:contact;not null" json:"contact"`
	Images         pq.StringArray `gorm:"column:images;type:text[]" json:"images"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName keeps the historical collection name.
func (ServiceListing) TableName() string {
	return "services"
}
