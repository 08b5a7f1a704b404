package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lapulperia/lapulperia-backend/api/middleware"
	"github.com/lapulperia/lapulperia-backend/api/responses"
	"github.com/lapulperia/lapulperia-backend/api/validators"
	"github.com/lapulperia/lapulperia-backend/internal/ads"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
)

type createAdRequest struct {
	Plan             string  `json:"plan" validate:"required"`
	PaymentMethod    string  `json:"payment_method" validate:"required"`
	PaymentReference *string `json:"payment_reference"`
}

// AdPlans returns the advertising plan catalog.
func AdPlans(svc ads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "ad service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Plans(r.Context()))
	}
}

// FeaturedStores returns the pulperías promoted by active ads, ordered by
// plan tier.
func FeaturedStores(svc ads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "ad service unavailable"))
			return
		}

		featured, err := svc.Featured(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, featured)
	}
}

// MyAds lists the ads belonging to the caller's pulperías.
func MyAds(svc ads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "ad service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		list, err := svc.MyAds(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CreateAd opens a pending ad for the caller's pulpería.
func CreateAd(svc ads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "ad service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		var req createAdRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ads.CreateAdInput{
			Plan:             enums.AdPlan(req.Plan),
			PaymentMethod:    req.PaymentMethod,
			PaymentReference: req.PaymentReference,
		}
		ad, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ad)
	}
}

// ActivateAd starts an ad's paid window.
func ActivateAd(svc ads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "ad service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		ad, err := svc.Activate(r.Context(), userID, chi.URLParam(r, "adID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ad)
	}
}
