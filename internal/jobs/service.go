package jobs

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
)

type jobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context, query ListQuery) ([]models.Job, error)
	FindByStore(ctx context.Context, pulperiaID string) ([]models.Job, error)
	Delete(ctx context.Context, id string) error
	CreateApplication(ctx context.Context, application *models.JobApplication) error
	FindApplication(ctx context.Context, jobID, applicantUserID string) (*models.JobApplication, error)
	FindApplications(ctx context.Context, jobID string) ([]models.JobApplication, error)
}

type storeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Store, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CreateJobInput carries a new job posting.
type CreateJobInput struct {
	Title       string
	Description string
	Category    string
	PayRate     float64
	PayCurrency enums.Currency
	Location    string
	Contact     string
	PulperiaID  *string
}

// ApplyInput carries a candidate's application.
type ApplyInput struct {
	Contact string
	CVURL   *string
	Message *string
}

// Service exposes job board operations.
type Service interface {
	List(ctx context.Context, query ListQuery) ([]models.Job, error)
	ListByStore(ctx context.Context, pulperiaID string) ([]models.Job, error)
	Create(ctx context.Context, actorUserID string, input CreateJobInput) (*models.Job, error)
	Delete(ctx context.Context, actorUserID, jobID string) error
	Apply(ctx context.Context, actorUserID, jobID string, input ApplyInput) (*models.JobApplication, error)
	Applications(ctx context.Context, actorUserID, jobID string) ([]models.JobApplication, error)
}

type service struct {
	repo   jobRepository
	stores storeFinder
	users  userFinder
}

// NewService builds a job service with the provided collaborators.
func NewService(repo jobRepository, stores storeFinder, users userFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("job repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store finder required")
	}
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	return &service{repo: repo, stores: stores, users: users}, nil
}

func (s *service) List(ctx context.Context, query ListQuery) ([]models.Job, error) {
	jobs, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list jobs")
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

func (s *service) ListByStore(ctx context.Context, pulperiaID string) ([]models.Job, error) {
	jobs, err := s.repo.FindByStore(ctx, pulperiaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store jobs")
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

// Create posts a job. A pulpería link is only honored when the actor owns
// that pulpería; otherwise the job stays personal.
func (s *service) Create(ctx context.Context, actorUserID string, input CreateJobInput) (*models.Job, error) {
	actor, err := s.loadUser(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	if !input.PayCurrency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "moneda inválida")
	}

	job := &models.Job{
		ID:             ids.New("job"),
		EmployerUserID: actorUserID,
		EmployerName:   actor.Name,
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		PayRate:        input.PayRate,
		PayCurrency:    input.PayCurrency,
		Location:       input.Location,
		Contact:        input.Contact,
	}

	if input.PulperiaID != nil && *input.PulperiaID != "" {
		store, err := s.stores.FindByID(ctx, *input.PulperiaID)
		if err == nil && store.OwnerUserID == actorUserID {
			job.PulperiaID = input.PulperiaID
			job.PulperiaName = &store.Name
			job.PulperiaLogo = store.LogoURL
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pulperia")
		}
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create job")
	}
	return job, nil
}

func (s *service) Delete(ctx context.Context, actorUserID, jobID string) error {
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.EmployerUserID != actorUserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "No tienes permiso para eliminar este empleo")
	}

	if err := s.repo.Delete(ctx, jobID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete job")
	}
	return nil
}

// Apply records one application per user per job.
func (s *service) Apply(ctx context.Context, actorUserID, jobID string, input ApplyInput) (*models.JobApplication, error) {
	actor, err := s.loadUser(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadJob(ctx, jobID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindApplication(ctx, jobID, actorUserID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Ya aplicaste a este empleo")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing application")
	}

	application := &models.JobApplication{
		ID:              ids.New("app"),
		JobID:           jobID,
		ApplicantUserID: actorUserID,
		ApplicantName:   actor.Name,
		Contact:         input.Contact,
		CVURL:           input.CVURL,
		Message:         input.Message,
	}
	if err := s.repo.CreateApplication(ctx, application); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
	}
	return application, nil
}

func (s *service) Applications(ctx context.Context, actorUserID, jobID string) ([]models.JobApplication, error) {
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerUserID != actorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "No tienes permiso para ver las aplicaciones")
	}

	applications, err := s.repo.FindApplications(ctx, jobID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	if applications == nil {
		applications = []models.JobApplication{}
	}
	return applications, nil
}

func (s *service) loadJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Empleo no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
	}
	return job, nil
}

func (s *service) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
