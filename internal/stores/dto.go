package stores

import (
	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/ids"
	"github.com/lapulperia/lapulperia-backend/pkg/types"
)

// StoreInput carries the caller-editable pulpería fields. Create and update
// share the shape; an update overwrites all of them.
type StoreInput struct {
	Name            string
	Description     *string
	Address         string
	Location        types.Location
	Phone           *string
	Email           *string
	Website         *string
	Hours           *string
	ImageURL        *string
	LogoURL         *string
	TitleFont       string
	BackgroundColor string
}

// ToModel prepares a new pulpería row, supplying defaults.
func (in StoreInput) ToModel(ownerUserID string) *models.Store {
	store := &models.Store{
		ID:              ids.New("pulperia"),
		OwnerUserID:     ownerUserID,
		Name:            in.Name,
		Description:     in.Description,
		Address:         in.Address,
		Location:        in.Location,
		Phone:           in.Phone,
		Email:           in.Email,
		Website:         in.Website,
		Hours:           in.Hours,
		ImageURL:        in.ImageURL,
		LogoURL:         in.LogoURL,
		Rating:          0,
		ReviewCount:     0,
		TitleFont:       in.TitleFont,
		BackgroundColor: in.BackgroundColor,
	}
	if store.TitleFont == "" {
		store.TitleFont = "default"
	}
	if store.BackgroundColor == "" {
		store.BackgroundColor = "#DC2626"
	}
	return store
}

// Apply overwrites the editable fields on an existing pulpería.
func (in StoreInput) Apply(store *models.Store) {
	store.Name = in.Name
	store.Description = in.Description
	store.Address = in.Address
	store.Location = in.Location
	store.Phone = in.Phone
	store.Email = in.Email
	store.Website = in.Website
	store.Hours = in.Hours
	store.ImageURL = in.ImageURL
	store.LogoURL = in.LogoURL
	if in.TitleFont != "" {
		store.TitleFont = in.TitleFont
	}
	if in.BackgroundColor != "" {
		store.BackgroundColor = in.BackgroundColor
	}
}
