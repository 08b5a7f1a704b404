package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
)

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id string) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerUserID string) ([]models.Store, error)
	List(ctx context.Context, query ListQuery) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Service exposes pulpería operations.
type Service interface {
	List(ctx context.Context, query ListQuery) ([]models.Store, error)
	Get(ctx context.Context, id string) (*models.Store, error)
	Create(ctx context.Context, actorUserID string, input StoreInput) (*models.Store, error)
	Update(ctx context.Context, actorUserID, storeID string, input StoreInput) (*models.Store, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]models.Store, error)
}

type service struct {
	repo  storeRepository
	users userFinder
}

// NewService builds a pulpería service with the provided collaborators.
func NewService(repo storeRepository, users userFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	return &service{repo: repo, users: users}, nil
}

func (s *service) List(ctx context.Context, query ListQuery) ([]models.Store, error) {
	stores, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pulperias")
	}
	if stores == nil {
		stores = []models.Store{}
	}
	return stores, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pulpería no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pulperia")
	}
	return store, nil
}

func (s *service) Create(ctx context.Context, actorUserID string, input StoreInput) (*models.Store, error) {
	actor, err := s.users.FindByID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if actor.UserType == nil || *actor.UserType != enums.UserTypePulperia {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Solo usuarios tipo pulpería pueden crear pulperías")
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre requerido")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dirección requerida")
	}

	store := input.ToModel(actorUserID)
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pulperia")
	}
	return store, nil
}

func (s *service) Update(ctx context.Context, actorUserID, storeID string, input StoreInput) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pulpería no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pulperia")
	}
	if store.OwnerUserID != actorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "No tienes permiso para editar esta pulpería")
	}

	input.Apply(store)
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pulperia")
	}
	return store, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerUserID string) ([]models.Store, error) {
	stores, err := s.repo.FindByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned pulperias")
	}
	if stores == nil {
		stores = []models.Store{}
	}
	return stores, nil
}
