package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/identity"
)

type fakeIdentity struct {
	data *identity.SessionData
	err  error
}

func (f *fakeIdentity) ExchangeSession(context.Context, string) (*identity.SessionData, error) {
	return f.data, f.err
}

type fakeUsers struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}, byEmail: map[string]*models.User{}}
	for _, user := range users {
		f.byID[user.ID] = user
		f.byEmail[user.Email] = user
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id, name string, picture *string) error {
	user, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Name = name
	user.Picture = picture
	return nil
}

func (f *fakeUsers) SetUserType(_ context.Context, id string, userType enums.UserType) error {
	user, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.UserType = &userType
	return nil
}

type fakeSessions struct {
	created map[string]string
	revoked []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{created: map[string]string{}}
}

func (f *fakeSessions) Create(_ context.Context, token, userID string) error {
	f.created[token] = userID
	return nil
}

func (f *fakeSessions) Revoke(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

func sessionData() *identity.SessionData {
	return &identity.SessionData{
		Email:        "maria@example.com",
		Name:         "María",
		Picture:      "https://example.com/p.jpg",
		SessionToken: "tok_123",
	}
}

func TestLoginCreatesNewUser(t *testing.T) {
	users := newFakeUsers()
	sessions := newFakeSessions()
	svc, err := NewService(&fakeIdentity{data: sessionData()}, users, sessions)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.Login(context.Background(), "sess_abc")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !result.IsNewUser {
		t.Fatalf("expected new user")
	}
	if !strings.HasPrefix(result.User.ID, "user_") {
		t.Fatalf("id = %q", result.User.ID)
	}
	if result.User.UserType != nil {
		t.Fatalf("new user should have no type yet")
	}
	if sessions.created["tok_123"] != result.User.ID {
		t.Fatalf("session not stored for user")
	}
}

func TestLoginRefreshesExistingUser(t *testing.T) {
	existing := &models.User{ID: "user_abc123def456", Email: "maria@example.com", Name: "Vieja"}
	users := newFakeUsers(existing)
	sessions := newFakeSessions()
	svc, _ := NewService(&fakeIdentity{data: sessionData()}, users, sessions)

	result, err := svc.Login(context.Background(), "sess_abc")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.IsNewUser {
		t.Fatalf("should not be a new user")
	}
	if result.User.ID != existing.ID {
		t.Fatalf("id = %q", result.User.ID)
	}
	if result.User.Name != "María" {
		t.Fatalf("profile not refreshed: %q", result.User.Name)
	}
}

func TestLoginIdentityFailureIsDependencyError(t *testing.T) {
	svc, _ := NewService(&fakeIdentity{err: errors.New("upstream down")}, newFakeUsers(), newFakeSessions())

	_, err := svc.Login(context.Background(), "sess_abc")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestLogoutEmptyTokenIsNoOp(t *testing.T) {
	sessions := newFakeSessions()
	svc, _ := NewService(&fakeIdentity{data: sessionData()}, newFakeUsers(), sessions)

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 0 {
		t.Fatalf("nothing should have been revoked")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	sessions := newFakeSessions()
	svc, _ := NewService(&fakeIdentity{data: sessionData()}, newFakeUsers(), sessions)

	if err := svc.Logout(context.Background(), "tok_123"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "tok_123" {
		t.Fatalf("revoked = %v", sessions.revoked)
	}
}

func TestSetUserTypeValidatesEnum(t *testing.T) {
	user := &models.User{ID: "user_abc123def456", Email: "maria@example.com", Name: "María"}
	svc, _ := NewService(&fakeIdentity{data: sessionData()}, newFakeUsers(user), newFakeSessions())

	_, err := svc.SetUserType(context.Background(), user.ID, enums.UserType("admin"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	updated, err := svc.SetUserType(context.Background(), user.ID, enums.UserTypePulperia)
	if err != nil {
		t.Fatalf("SetUserType: %v", err)
	}
	if updated.UserType == nil || *updated.UserType != enums.UserTypePulperia {
		t.Fatalf("user type not persisted")
	}
}
