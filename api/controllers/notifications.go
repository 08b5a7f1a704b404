package controllers

import (
	"net/http"

	"github.com/lapulperia/lapulperia-backend/api/middleware"
	"github.com/lapulperia/lapulperia-backend/api/responses"
	"github.com/lapulperia/lapulperia-backend/internal/notifications"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
)

// NotificationFeed returns the caller's dropdown feed, derived from their
// open orders.
func NotificationFeed(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		feed, err := svc.Feed(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, feed)
	}
}
