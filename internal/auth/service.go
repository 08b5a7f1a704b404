package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/identity"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
)

type identityExchanger interface {
	ExchangeSession(ctx context.Context, sessionID string) (*identity.SessionData, error)
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name string, picture *string) error
	SetUserType(ctx context.Context, id string, userType enums.UserType) error
}

type sessionWriter interface {
	Create(ctx context.Context, token, userID string) error
	Revoke(ctx context.Context, token string) error
}

// LoginResult is the outcome of a session exchange.
type LoginResult struct {
	User         *models.User
	SessionToken string
	IsNewUser    bool
}

// Service owns login, identity lookup, and the post-signup role choice.
type Service interface {
	Login(ctx context.Context, sessionID string) (*LoginResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	SetUserType(ctx context.Context, userID string, userType enums.UserType) (*models.User, error)
}

type service struct {
	identity identityExchanger
	users    userRepository
	sessions sessionWriter
}

// NewService builds an auth service with the provided collaborators.
func NewService(identityClient identityExchanger, users userRepository, sessions sessionWriter) (Service, error) {
	if identityClient == nil {
		return nil, fmt.Errorf("identity client required")
	}
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session writer required")
	}
	return &service{identity: identityClient, users: users, sessions: sessions}, nil
}

// Login exchanges the provider session id for profile data, upserts the user
// by email, and opens a session for the returned token. New users have no
// user_type until they pick one.
func (s *service) Login(ctx context.Context, sessionID string) (*LoginResult, error) {
	data, err := s.identity.ExchangeSession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Auth service error")
	}

	var picture *string
	if data.Picture != "" {
		picture = &data.Picture
	}

	var user *models.User
	isNew := false
	existing, err := s.users.FindByEmail(ctx, data.Email)
	switch {
	case err == nil:
		if err := s.users.UpdateProfile(ctx, existing.ID, data.Name, picture); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh user profile")
		}
		user, err = s.users.FindByID(ctx, existing.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &models.User{
			ID:      ids.New("user"),
			Email:   data.Email,
			Name:    data.Name,
			Picture: picture,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		isNew = true
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	if err := s.sessions.Create(ctx, data.SessionToken, user.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	return &LoginResult{User: user, SessionToken: data.SessionToken, IsNewUser: isNew}, nil
}

func (s *service) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// Logout revokes the session token; unknown tokens are a no-op.
func (s *service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// SetUserType records the cliente-or-pulperia role choice.
func (s *service) SetUserType(ctx context.Context, userID string, userType enums.UserType) (*models.User, error) {
	if !userType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tipo de usuario inválido")
	}

	if err := s.users.SetUserType(ctx, userID, userType); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set user type")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
