package models

import (
	"time"

	"github.com/lapulperia/lapulperia-backend/pkg/enums"
)

// Advertisement is a paid visibility purchase by a pulpería. Payment is a
// manual reference string; no processor integration.
type Advertisement struct {
	ID               string         `gorm:"column:id;primaryKey" json:"ad_id"`
	PulperiaID       string         `gorm:"column:pulperia_id;not null;index" json:"pulperia_id"`
	PulperiaName     string         `gorm:"column:pulperia_name;not null" json:"pulperia_name"`
	Plan             enums.AdPlan   `gorm:"column:plan;not null" json:"plan"`
	Status           enums.AdStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	PaymentMethod    string         `gorm:"column:payment_method;not null" json:"payment_method"`
	PaymentReference *string        `gorm:"column:payment_reference" json:"payment_reference"`
	Amount           float64        `gorm:"column:amount;not null" json:"amount"`
	DurationDays     int            `gorm:"column:duration_days;not null" json:"duration_days"`
	StartDate        *time.Time     `gorm:"column:start_date" json:"start_date"`
	EndDate          *time.Time     `gorm:"column:end_date" json:"end_date"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
