package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lapulperia/lapulperia-backend/api/middleware"
	"github.com/lapulperia/lapulperia-backend/api/responses"
	"github.com/lapulperia/lapulperia-backend/api/validators"
	"github.com/lapulperia/lapulperia-backend/internal/jobs"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
)

type createJobRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	PayRate     float64 `json:"pay_rate" validate:"gte=0"`
	PayCurrency string  `json:"pay_currency"`
	Location    string  `json:"location"`
	Contact     string  `json:"contact" validate:"required"`
	PulperiaID  *string `json:"pulperia_id"`
}

type applyJobRequest struct {
	Contact string  `json:"contact" validate:"required"`
	CVURL   *string `json:"cv_url"`
	Message *string `json:"message"`
}

// ListJobs returns open job postings matching the optional filters.
func ListJobs(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		query := jobs.ListQuery{
			Category: r.URL.Query().Get("category"),
			Search:   r.URL.Query().Get("search"),
		}
		list, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// StoreJobs lists the postings linked to one pulpería.
func StoreJobs(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		list, err := svc.ListByStore(r.Context(), chi.URLParam(r, "pulperiaID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CreateJob posts a job, linked to the poster's pulpería when they own the
// one named.
func CreateJob(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		var req createJobRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := jobs.CreateJobInput{
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			PayRate:     req.PayRate,
			PayCurrency: enums.Currency(req.PayCurrency),
			Location:    req.Location,
			Contact:     req.Contact,
			PulperiaID:  req.PulperiaID,
		}
		job, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, job)
	}
}

// DeleteJob removes a posting and its applications.
func DeleteJob(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "jobID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Empleo eliminado"})
	}
}

// ApplyToJob records a candidate's application, once per job.
func ApplyToJob(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		var req applyJobRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := jobs.ApplyInput{
			Contact: req.Contact,
			CVURL:   req.CVURL,
			Message: req.Message,
		}
		application, err := svc.Apply(r.Context(), userID, chi.URLParam(r, "jobID"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, application)
	}
}

// JobApplications lists the applications on one of the caller's postings.
func JobApplications(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		list, err := svc.Applications(r.Context(), userID, chi.URLParam(r, "jobID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
