package models

import "time"

// JobApplication records one candidate applying to one job.
type JobApplication struct {
	ID              string    `gorm:"column:id;primaryKey" json:"application_id"`
	JobID           string    `gorm:"column:job_id;not null;index" json:"job_id"`
	ApplicantUserID string    `gorm:"column:applicant_user_id;not null;index" json:"applicant_user_id"`
	ApplicantName   string    `gorm:"column:applicant_name;not null" json:"applicant_name"`
	Contact         string    `gorm:"column:contact;not null" json:"contact"`
	CVURL           *string   `gorm:"column:cv_url" json:"cv_url"`
	Message         *string   `gorm:"column:message" json:"message"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
