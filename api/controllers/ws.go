package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lapulperia/lapulperia-backend/api/responses"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
)

type presenceChecker interface {
	IsConnected(userID string) (bool, int)
}

type wsStatusResponse struct {
	UserID          string `json:"user_id"`
	Connected       bool   `json:"connected"`
	ConnectionCount int    `json:"connection_count"`
}

// WSStatus reports whether a user currently holds open realtime connections.
func WSStatus(registry presenceChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "realtime registry unavailable"))
			return
		}

		userID := chi.URLParam(r, "userID")
		connected, count := registry.IsConnected(userID)
		responses.WriteSuccess(w, wsStatusResponse{
			UserID:          userID,
			Connected:       connected,
			ConnectionCount: count,
		})
	}
}
