package messages

import (
	"context"
	"fmt"
	"strings"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
)

type messageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindForUser(ctx context.Context, userID string) ([]models.Message, error)
}

// SendInput carries a new direct message.
type SendInput struct {
	ToUserID string
	OrderID  *string
	Body     string
}

// Service exposes direct messaging operations.
type Service interface {
	ListMine(ctx context.Context, actorUserID string) ([]models.Message, error)
	Send(ctx context.Context, actorUserID string, input SendInput) (*models.Message, error)
}

type service struct {
	repo messageRepository
}

// NewService builds a messaging service.
func NewService(repo messageRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("message repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMine(ctx context.Context, actorUserID string) ([]models.Message, error) {
	messages, err := s.repo.FindForUser(ctx, actorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

func (s *service) Send(ctx context.Context, actorUserID string, input SendInput) (*models.Message, error) {
	if strings.TrimSpace(input.ToUserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destinatario requerido")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mensaje requerido")
	}

	message := &models.Message{
		ID:         ids.New("message"),
		FromUserID: actorUserID,
		ToUserID:   input.ToUserID,
		OrderID:    input.OrderID,
		Body:       input.Body,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}
	return message, nil
}
