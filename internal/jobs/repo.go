package jobs

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
)

const listLimit = 100

// ListQuery carries the optional board filters.
type ListQuery struct {
	Category string
	Search   string
}

// Repository handles job and application persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to job operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new job row.
func (r *Repository) Create(ctx context.Context, job *models.Job) error {
	if job == nil {
		return fmt.Errorf("job is required")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID loads a job by its id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns board jobs matching the query, newest first. Search matches
// title or description, case-insensitive.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Job, error) {
	q := r.db.WithContext(ctx).Model(&models.Job{})

	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var jobs []models.Job
	if err := q.Order("created_at DESC").Limit(listLimit).Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindByStore returns the jobs posted under one pulpería, newest first.
func (r *Repository) FindByStore(ctx context.Context, pulperiaID string) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.WithContext(ctx).
		Where("pulperia_id = ?", pulperiaID).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Delete removes the job row and all of its applications.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.JobApplication{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Job{}).Error
	})
}

// CreateApplication persists a new application row.
func (r *Repository) CreateApplication(ctx context.Context, application *models.JobApplication) error {
	if application == nil {
		return fmt.Errorf("application is required")
	}
	return r.db.WithContext(ctx).Create(application).Error
}

// FindApplication loads one user's application to one job.
func (r *Repository) FindApplication(ctx context.Context, jobID, applicantUserID string) (*models.JobApplication, error) {
	var application models.JobApplication
	if err := r.db.WithContext(ctx).
		Where("job_id = ? AND applicant_user_id = ?", jobID, applicantUserID).
		First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// FindApplications returns a job's applications, newest first.
func (r *Repository) FindApplications(ctx context.Context, jobID string) ([]models.JobApplication, error) {
	var applications []models.JobApplication
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}
