package models

import "time"

// Product belongs to exactly one pulpería.
type Product struct {
	ID          string    `gorm:"column:id;primaryKey" json:"product_id"`
	PulperiaID  string    `gorm:"column:pulperia_id;not null;index" json:"pulperia_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	Price       float64   `gorm:"column:price;not null" json:"price"`
	Stock       int       `gorm:"column:stock;not null;default:0" json:"stock"`
	Available   bool      `gorm:"column:available;not null;default:true" json:"available"`
	Category    *string   `gorm:"column:category" json:"category,omitempty"`
	ImageURL    *string   `gorm:"column:image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}
