package ads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
)

type adRepository interface {
	Create(ctx context.Context, ad *models.Advertisement) error
	FindByID(ctx context.Context, id string) (*models.Advertisement, error)
	FindByStores(ctx context.Context, pulperiaIDs []string) ([]models.Advertisement, error)
	FindOpenByStore(ctx context.Context, pulperiaID string) (*models.Advertisement, error)
	FindActive(ctx context.Context, now time.Time) ([]models.Advertisement, error)
	Activate(ctx context.Context, id string, start, end time.Time) error
}

type storeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Store, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Store, error)
	FindByOwner(ctx context.Context, ownerUserID string) ([]models.Store, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CreateAdInput carries a new advertisement request. Payment is a manual
// reference string, not a processor call.
type CreateAdInput struct {
	Plan             enums.AdPlan
	PaymentMethod    string
	PaymentReference *string
}

// FeaturedStoreDTO is a pulpería promoted by an active ad.
type FeaturedStoreDTO struct {
	models.Store
	AdPlan enums.AdPlan `json:"ad_plan"`
}

// Service exposes advertising operations.
type Service interface {
	Plans(ctx context.Context) map[enums.AdPlan]PlanInfo
	Featured(ctx context.Context) ([]FeaturedStoreDTO, error)
	MyAds(ctx context.Context, actorUserID string) ([]models.Advertisement, error)
	Create(ctx context.Context, actorUserID string, input CreateAdInput) (*models.Advertisement, error)
	Activate(ctx context.Context, actorUserID, adID string) (*models.Advertisement, error)
}

type service struct {
	repo   adRepository
	stores storeFinder
	users  userFinder
	now    func() time.Time
}

// NewService builds an advertising service with the provided collaborators.
func NewService(repo adRepository, stores storeFinder, users userFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("advertisement repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store finder required")
	}
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	return &service{
		repo:   repo,
		stores: stores,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Plans(context.Context) map[enums.AdPlan]PlanInfo {
	return Plans
}

// Featured resolves active ads to their pulperías, preserving the plan-tier
// ordering. Ads whose store vanished are skipped.
func (s *service) Featured(ctx context.Context) ([]FeaturedStoreDTO, error) {
	active, err := s.repo.FindActive(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active ads")
	}

	storeIDs := make([]string, 0, len(active))
	for _, ad := range active {
		storeIDs = append(storeIDs, ad.PulperiaID)
	}

	byID := make(map[string]models.Store, len(storeIDs))
	if len(storeIDs) > 0 {
		stores, err := s.stores.FindByIDs(ctx, storeIDs)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load advertised pulperias")
		}
		for _, store := range stores {
			byID[store.ID] = store
		}
	}

	featured := make([]FeaturedStoreDTO, 0, len(active))
	for _, ad := range active {
		store, ok := byID[ad.PulperiaID]
		if !ok {
			continue
		}
		featured = append(featured, FeaturedStoreDTO{Store: store, AdPlan: ad.Plan})
	}
	return featured, nil
}

func (s *service) MyAds(ctx context.Context, actorUserID string) ([]models.Advertisement, error) {
	stores, err := s.stores.FindByOwner(ctx, actorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned pulperias")
	}

	storeIDs := make([]string, 0, len(stores))
	for _, store := range stores {
		storeIDs = append(storeIDs, store.ID)
	}

	ads, err := s.repo.FindByStores(ctx, storeIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ads")
	}
	if ads == nil {
		ads = []models.Advertisement{}
	}
	return ads, nil
}

// Create opens a pending ad for the actor's pulpería. One pending or active
// ad per store at a time.
func (s *service) Create(ctx context.Context, actorUserID string, input CreateAdInput) (*models.Advertisement, error) {
	actor, err := s.users.FindByID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if actor.UserType == nil || *actor.UserType != enums.UserTypePulperia {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Solo pulperías pueden crear anuncios")
	}

	stores, err := s.stores.FindByOwner(ctx, actorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned pulperias")
	}
	if len(stores) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "No tienes una pulpería registrada")
	}
	store := stores[0]

	if _, err := s.repo.FindOpenByStore(ctx, store.ID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Ya tienes un anuncio activo o pendiente")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check open ad")
	}

	plan, ok := Plans[input.Plan]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Plan inválido")
	}

	ad := &models.Advertisement{
		ID:               ids.New("ad"),
		PulperiaID:       store.ID,
		PulperiaName:     store.Name,
		Plan:             input.Plan,
		Status:           enums.AdStatusPending,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: input.PaymentReference,
		Amount:           plan.Price,
		DurationDays:     plan.Duration,
	}
	if err := s.repo.Create(ctx, ad); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ad")
	}
	return ad, nil
}

// Activate starts the ad's paid window, computing the end date from the plan
// duration.
func (s *service) Activate(ctx context.Context, actorUserID, adID string) (*models.Advertisement, error) {
	ad, err := s.repo.FindByID(ctx, adID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Anuncio no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ad")
	}

	store, err := s.stores.FindByID(ctx, ad.PulperiaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pulpería no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pulperia")
	}
	if store.OwnerUserID != actorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "No tienes permiso")
	}

	start := s.now()
	end := start.AddDate(0, 0, ad.DurationDays)
	if err := s.repo.Activate(ctx, ad.ID, start, end); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate ad")
	}

	ad.Status = enums.AdStatusActive
	ad.StartDate = &start
	ad.EndDate = &end
	return ad, nil
}
