package stores

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
)

type fakeStoreRepo struct {
	stores map[string]*models.Store
	err    error
}

func newFakeStoreRepo(stores ...*models.Store) *fakeStoreRepo {
	repo := &fakeStoreRepo{stores: make(map[string]*models.Store)}
	for _, store := range stores {
		repo.stores[store.ID] = store
	}
	return repo
}

func (f *fakeStoreRepo) Create(_ context.Context, store *models.Store) error {
	if f.err != nil {
		return f.err
	}
	f.stores[store.ID] = store
	return nil
}

func (f *fakeStoreRepo) FindByID(_ context.Context, id string) (*models.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	store, ok := f.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *store
	return &cpy, nil
}

func (f *fakeStoreRepo) FindByOwner(_ context.Context, ownerUserID string) ([]models.Store, error) {
	var out []models.Store
	for _, store := range f.stores {
		if store.OwnerUserID == ownerUserID {
			out = append(out, *store)
		}
	}
	return out, nil
}

func (f *fakeStoreRepo) List(_ context.Context, _ ListQuery) ([]models.Store, error) {
	var out []models.Store
	for _, store := range f.stores {
		out = append(out, *store)
	}
	return out, nil
}

func (f *fakeStoreRepo) Update(_ context.Context, store *models.Store) error {
	if f.err != nil {
		return f.err
	}
	f.stores[store.ID] = store
	return nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func userOfType(id string, userType enums.UserType) *models.User {
	return &models.User{ID: id, Email: id + "@example.com", Name: "Test", UserType: &userType}
}

func validInput() StoreInput {
	return StoreInput{Name: "Pulpería Lempira", Address: "Col. Centro"}
}

func TestCreateRequiresPulperiaUserType(t *testing.T) {
	repo := newFakeStoreRepo()
	users := &fakeUsers{users: map[string]*models.User{
		"user_cliente": userOfType("user_cliente", enums.UserTypeCliente),
	}}
	svc, err := NewService(repo, users)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Create(context.Background(), "user_cliente", validInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(repo.stores) != 0 {
		t.Fatalf("store should not have been created")
	}
}

func TestCreateFillsDefaults(t *testing.T) {
	repo := newFakeStoreRepo()
	users := &fakeUsers{users: map[string]*models.User{
		"user_owner": userOfType("user_owner", enums.UserTypePulperia),
	}}
	svc, err := NewService(repo, users)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	store, err := svc.Create(context.Background(), "user_owner", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if store.ID == "" {
		t.Fatalf("expected generated id")
	}
	if store.OwnerUserID != "user_owner" {
		t.Fatalf("owner = %q", store.OwnerUserID)
	}
	if store.TitleFont != "default" || store.BackgroundColor != "#DC2626" {
		t.Fatalf("defaults not applied: font=%q color=%q", store.TitleFont, store.BackgroundColor)
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	repo := newFakeStoreRepo()
	users := &fakeUsers{users: map[string]*models.User{
		"user_owner": userOfType("user_owner", enums.UserTypePulperia),
	}}
	svc, _ := NewService(repo, users)

	input := validInput()
	input.Name = "  "
	_, err := svc.Create(context.Background(), "user_owner", input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	existing := &models.Store{ID: "pulperia_abc123def456", OwnerUserID: "user_owner", Name: "Mía", Address: "Addr"}
	repo := newFakeStoreRepo(existing)
	users := &fakeUsers{users: map[string]*models.User{
		"user_owner": userOfType("user_owner", enums.UserTypePulperia),
		"user_other": userOfType("user_other", enums.UserTypePulperia),
	}}
	svc, _ := NewService(repo, users)

	_, err := svc.Update(context.Background(), "user_other", existing.ID, validInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateOverwritesEditableFields(t *testing.T) {
	existing := &models.Store{ID: "pulperia_abc123def456", OwnerUserID: "user_owner", Name: "Vieja", Address: "Vieja Addr"}
	repo := newFakeStoreRepo(existing)
	users := &fakeUsers{users: map[string]*models.User{
		"user_owner": userOfType("user_owner", enums.UserTypePulperia),
	}}
	svc, _ := NewService(repo, users)

	input := validInput()
	input.Name = "Nueva"
	store, err := svc.Update(context.Background(), "user_owner", existing.ID, input)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if store.Name != "Nueva" {
		t.Fatalf("name = %q", store.Name)
	}
	if repo.stores[existing.ID].Name != "Nueva" {
		t.Fatalf("update not persisted")
	}
}

func TestGetUnknownStoreIsNotFound(t *testing.T) {
	svc, _ := NewService(newFakeStoreRepo(), &fakeUsers{users: map[string]*models.User{}})

	_, err := svc.Get(context.Background(), "pulperia_missing00000")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
