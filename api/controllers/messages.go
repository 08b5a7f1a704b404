package controllers

import (
	"net/http"

	"github.com/lapulperia/lapulperia-backend/api/middleware"
	"github.com/lapulperia/lapulperia-backend/api/responses"
	"github.com/lapulperia/lapulperia-backend/api/validators"
	"github.com/lapulperia/lapulperia-backend/internal/messages"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
)

type sendMessageRequest struct {
	ToUserID string  `json:"to_user_id" validate:"required"`
	OrderID  *string `json:"order_id"`
	Body     string  `json:"body" validate:"required"`
}

// ListMessages returns the caller's conversation history, newest first.
func ListMessages(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		list, err := svc.ListMine(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SendMessage records a direct message between two users.
func SendMessage(svc messages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "message service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		var req sendMessageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := messages.SendInput{
			ToUserID: req.ToUserID,
			OrderID:  req.OrderID,
			Body:     req.Body,
		}
		message, err := svc.Send(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}
