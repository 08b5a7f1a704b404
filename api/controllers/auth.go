package controllers

import (
	"net/http"

	"github.com/lapulperia/lapulperia-backend/api/middleware"
	"github.com/lapulperia/lapulperia-backend/api/responses"
	"github.com/lapulperia/lapulperia-backend/api/validators"
	"github.com/lapulperia/lapulperia-backend/internal/auth"
	"github.com/lapulperia/lapulperia-backend/pkg/config"
	"github.com/lapulperia/lapulperia-backend/pkg/db/models"
	"github.com/lapulperia/lapulperia-backend/pkg/enums"
	pkgerrors "github.com/lapulperia/lapulperia-backend/pkg/errors"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
)

type loginRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type loginResponse struct {
	*models.User
	IsNewUser bool `json:"is_new_user"`
}

// Login exchanges a provider session id for a session cookie plus the user
// profile.
func Login(svc auth.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req loginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), req.SessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCfg.CookieName,
			Value:    result.SessionToken,
			Path:     "/",
			MaxAge:   int(sessionCfg.TTL.Seconds()),
			HttpOnly: true,
			Secure:   sessionCfg.Secure,
			SameSite: http.SameSiteNoneMode,
		})

		responses.WriteSuccess(w, loginResponse{User: result.User, IsNewUser: result.IsNewUser})
	}
}

// Me returns the authenticated user's profile.
func Me(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		user, err := svc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// Logout revokes the session and clears the cookie.
func Logout(svc auth.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		token := middleware.TokenFromRequest(r, sessionCfg.CookieName)
		if err := svc.Logout(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCfg.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   sessionCfg.Secure,
			SameSite: http.SameSiteNoneMode,
		})

		responses.WriteSuccess(w, map[string]string{"message": "Logged out successfully"})
	}
}

// SetUserType records the cliente-or-pulperia choice made after signup. The
// frontend sends the choice as a query parameter.
func SetUserType(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "No autenticado"))
			return
		}

		userType, err := enums.ParseUserType(r.URL.Query().Get("user_type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "tipo de usuario inválido"))
			return
		}

		user, err := svc.SetUserType(r.Context(), userID, userType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
