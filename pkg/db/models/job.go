package models

import (
	"time"

	"github.com/lapulperia/lapulperia-backend/pkg/enums"
)

// Job is an employment listing, optionally attached to a pulpería.
type Job struct {
	ID             string         `gorm:"column:id;primaryKey" json:"job_id"`
	EmployerUserID string         `gorm:"column:employer_user_id;not null;index" json:"employer_user_id"`
	EmployerName   string         `gorm:"column:employer_name;not null" json:"employer_name"`
	PulperiaID     *string        `gorm:"column:pulperia_id;index" json:"pulperia_id"`
	PulperiaName   *string        `gorm:"column:pulperia_name" json:"pulperia_name"`
	PulperiaLogo   *string        `gorm:"column:pulperia_logo" json:"pulperia_logo"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description;not null" json:"description"`
	Category       string         `gorm:"column:category;not null" json:"category"`
	PayRate        float64        `gorm:"column:pay_rate;not null" json:"pay_rate"`
	PayCurrency    enums.Currency `gorm:"column:pay_currency;not null" json:"pay_currency"`
	Location       string         `gorm:"column:location;not null" json:"location"`
	Contact        string         `gorm:"column:contact;not null" json:"contact"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
