package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lapulperia/lapulperia-backend/api/middleware"
	"github.com/lapulperia/lapulperia-backend/api/responses"
	"github.com/lapulperia/lapulperia-backend/api/validators"
	"github.com/lapulperia/lapulperia-backend/internal/stores"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
	"github.com/lapulperia/lapulperia-backend/pkg/types"
)

type storeRequest struct {
	Name            string         `json:"name" validate:"required"`
	Description     *string        `json:"description"`
	Address         string         `json:"address" validate:"required"`
	Location        types.Location `json:"location"`
	Phone           *string        `json:"phone"`
	Email           *string        `json:"email"`
	Website         *string        `json:"website"`
	Hours           *string        `json:"hours"`
	ImageURL        *string        `json:"image_url"`
	LogoURL         *string        `json:"logo_url"`
	TitleFont       string         `json:"title_font"`
	BackgroundColor string         `json:"background_color"`
}

func (req storeRequest) toInput() stores.StoreInput {
	return stores.StoreInput{
		Name:            req.Name,
		Description:     req.Description,
		Address:         req.Address,
		Location:        req.Location,
		Phone:           req.Phone,
		Email:           req.Email,
		Website:         req.Website,
		Hours:           req.Hours,
		ImageURL:        req.ImageURL,
		LogoURL:         req.LogoURL,
		TitleFont:       req.TitleFont,
		BackgroundColor: req.BackgroundColor,
	}
}

// ListStores returns pulperías matching the optional search and sort params.
func ListStores(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		query := stores.ListQuery{
			Search: r.URL.Query().Get("search"),
			SortBy: r.URL.Query().Get("sort_by"),
		}
		list, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetStore returns one pulpería by id.
func GetStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		store, err := svc.Get(r.Context(), chi.URLParam(r, "pulperiaID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// CreateStore registers a pulpería owned by the authenticated user.
func CreateStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		var req storeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Create(r.Context(), userID, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

// UpdateStore replaces the editable fields of an owned pulpería.
func UpdateStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		var req storeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Update(r.Context(), userID, chi.URLParam(r, "pulperiaID"), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

// MyStores lists the pulperías owned by the authenticated user.
func MyStores(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		list, err := svc.ListByOwner(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
