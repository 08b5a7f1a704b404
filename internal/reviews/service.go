package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
)

// maxImages caps photos per review.
const maxImages = 2

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByStore(ctx context.Context, pulperiaID string) ([]models.Review, error)
	FindByStoreAndUser(ctx context.Context, pulperiaID, userID string) (*models.Review, error)
	Aggregate(ctx context.Context, pulperiaID string) (int, float64, error)
}

type storeRepository interface {
	FindByID(ctx context.Context, id string) (*models.Store, error)
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CreateReviewInput carries a new review request.
type CreateReviewInput struct {
	Rating  int
	Comment *string
	Images  []string
}

// Service exposes review operations.
type Service interface {
	ListByStore(ctx context.Context, pulperiaID string) ([]models.Review, error)
	Create(ctx context.Context, actorUserID, pulperiaID string, input CreateReviewInput) (*models.Review, error)
}

type service struct {
	repo   reviewRepository
	stores storeRepository
	users  userFinder
}

// NewService builds a review service with the provided collaborators.
func NewService(repo reviewRepository, stores storeRepository, users userFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user finder required")
	}
	return &service{repo: repo, stores: stores, users: users}, nil
}

func (s *service) ListByStore(ctx context.Context, pulperiaID string) ([]models.Review, error) {
	reviews, err := s.repo.FindByStore(ctx, pulperiaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// Create stores a cliente's review and refreshes the pulpería's aggregated
// rating. One review per user per store; extra images beyond the cap are
// silently dropped.
func (s *service) Create(ctx context.Context, actorUserID, pulperiaID string, input CreateReviewInput) (*models.Review, error) {
	actor, err := s.users.FindByID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if actor.UserType == nil || *actor.UserType != enums.UserTypeCliente {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Solo clientes pueden dejar reviews")
	}

	if _, err := s.stores.FindByID(ctx, pulperiaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pulpería no encontrada")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pulperia")
	}

	if _, err := s.repo.FindByStoreAndUser(ctx, pulperiaID, actorUserID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Ya has dejado una review para esta pulpería")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
	}

	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Rating debe estar entre 1 y 5")
	}

	images := input.Images
	if len(images) > maxImages {
		images = images[:maxImages]
	}

	review := &models.Review{
		ID:         ids.New("review"),
		PulperiaID: pulperiaID,
		UserID:     actorUserID,
		UserName:   actor.Name,
		Rating:     input.Rating,
		Comment:    input.Comment,
		Images:     pq.StringArray(images),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	count, avg, err := s.repo.Aggregate(ctx, pulperiaID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate reviews")
	}
	rounded := math.Round(avg*10) / 10
	if err := s.stores.UpdateRating(ctx, pulperiaID, rounded, count); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pulperia rating")
	}

	return review, nil
}
