package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
)

type listingRepository interface {
	Create(ctx context.Context, listing *models.ServiceListing) error
	FindByID(ctx context.Context, id string) (*models.ServiceListing, error)
	List(ctx context.Context, query ListQuery) ([]models.ServiceListing, error)
	Delete(ctx context.Context, id string) error
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CreateServiceInput carries a new service listing.
type CreateServiceInput struct {
	Title        string
	Description  string
	Category     string
	HourlyRate   float64
	RateCurrency enums.Currency
	Location     string
	Contact      string
	Images       []string
}

// Service exposes the service directory operations.
type Service interface {
	List(ctx context.Context, query ListQuery) ([]models.ServiceListing, error)
	Create(ctx context.Context, actorUserID string, input CreateServiceInput) (*models.ServiceListing, error)
	Delete(ctx context.Context, actorUserID, serviceID string) error
}

type service struct {
	repo  listingRepository
	users userFinder
}

// NewService builds a directory service with the provided collaborators.
func NewService(repo listingRepository, users userFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listing repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	return &service{repo: repo, users: users}, nil
}

func (s *service) List(ctx context.Context, query ListQuery) ([]models.ServiceListing, error) {
	listings, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}
	if listings == nil {
		listings = []models.ServiceListing{}
	}
	return listings, nil
}

func (s *service) Create(ctx context.Context, actorUserID string, input CreateServiceInput) (*models.ServiceListing, error) {
	actor, err := s.users.FindByID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if !input.RateCurrency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "moneda inválida")
	}

	listing := &models.ServiceListing{
		ID:             ids.New("service"),
		ProviderUserID: actorUserID,
		ProviderName:   actor.Name,
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		HourlyRate:     input.HourlyRate,
		RateCurrency:   input.RateCurrency,
		Location:       input.Location,
		Contact:        input.Contact,
		Images:         pq.StringArray(input.Images),
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service")
	}
	return listing, nil
}

func (s *service) Delete(ctx context.Context, actorUserID, serviceID string) error {
	listing, err := s.repo.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Servicio no encontrado")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	if listing.ProviderUserID != actorUserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "No tienes permiso para eliminar este servicio")
	}

	if err := s.repo.Delete(ctx, serviceID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete service")
	}
	return nil
}
