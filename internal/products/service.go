package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByStore(ctx context.Context, pulperiaID string) ([]models.Product, error)
	Search(ctx context.Context, query SearchQuery) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

type storeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Store, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Store, error)
}

// Service exposes product catalog operations.
type Service interface {
	Search(ctx context.Context, query SearchQuery) ([]CatalogProductDTO, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	ListByStore(ctx context.Context, pulperiaID string) ([]models.Product, error)
	Create(ctx context.Context, actorUserID, pulperiaID string, input ProductInput) (*models.Product, error)
	Update(ctx context.Context, actorUserID, productID string, input ProductInput) (*models.Product, error)
	Delete(ctx context.Context, actorUserID, productID string) error
	ToggleAvailability(ctx context.Context, actorUserID, productID string) (*models.Product, error)
}

type service struct {
	repo   productRepository
	stores storeFinder
}

// NewService builds a product service with the provided collaborators.
func NewService(repo productRepository, stores storeFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store finder required")
	}
	return &service{repo: repo, stores: stores}, nil
}

// Search lists catalog products enriched with each pulpería's name and logo.
// The store lookup is batched to one query.
func (s *service) Search(ctx context.Context, query SearchQuery) ([]CatalogProductDTO, error) {
	products, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}

	storeIDs := make([]string, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for _, product := range products {
		if _, ok := seen[product.PulperiaID]; ok {
			continue
		}
		seen[product.PulperiaID] = struct{}{}
		storeIDs = append(storeIDs, product.PulperiaID)
	}

	byID := make(map[string]models.Store, len(storeIDs))
	if len(storeIDs) > 0 {
		stores, err := s.stores.FindByIDs(ctx, storeIDs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pulperias for products")
		}
		for _, store := range stores {
			byID[store.ID] = store
		}
	}

	result := make([]CatalogProductDTO, 0, len(products))
	for _, product := range products {
		dto := CatalogProductDTO{Product: product}
		if store, ok := byID[product.PulperiaID]; ok {
			dto.PulperiaName = store.Name
			dto.PulperiaLogo = store.LogoURL
		}
		result = append(result, dto)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Producto no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListByStore(ctx context.Context, pulperiaID string) ([]models.Product, error) {
	products, err := s.repo.FindByStore(ctx, pulperiaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store products")
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *service) Create(ctx context.Context, actorUserID, pulperiaID string, input ProductInput) (*models.Product, error) {
	store, err := s.stores.FindByID(ctx, pulperiaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pulpería no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pulperia")
	}
	if store.OwnerUserID != actorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "No tienes permiso para agregar productos a esta pulpería")
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre requerido")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "precio inválido")
	}

	product := input.ToModel(pulperiaID)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, actorUserID, productID string, input ProductInput) (*models.Product, error) {
	product, err := s.loadOwned(ctx, actorUserID, productID, "No tienes permiso para editar este producto")
	if err != nil {
		return nil, err
	}

	input.Apply(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, actorUserID, productID string) error {
	product, err := s.loadOwned(ctx, actorUserID, productID, "No tienes permiso para eliminar este producto")
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) ToggleAvailability(ctx context.Context, actorUserID, productID string) (*models.Product, error) {
	product, err := s.loadOwned(ctx, actorUserID, productID, "No tienes permiso para editar este producto")
	if err != nil {
		return nil, err
	}

	product.Available = !product.Available
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle product availability")
	}
	return product, nil
}

// loadOwned fetches a product and checks the actor owns its pulpería.
func (s *service) loadOwned(ctx context.Context, actorUserID, productID, denied string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Producto no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	store, err := s.stores.FindByID(ctx, product.PulperiaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pulpería no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pulperia")
	}
	if store.OwnerUserID != actorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, denied)
	}
	return product, nil
}
