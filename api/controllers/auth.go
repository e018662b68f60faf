package controllers

import (
	"context"
	"net/http"

	"github.com/hsglabs/launchcopy-backend/api/middleware"
	"github.com/hsglabs/launchcopy-backend/api/responses"
	"github.com/hsglabs/launchcopy-backend/api/validators"
	"github.com/hsglabs/launchcopy-backend/internal/auth"
	pkgAuth "github.com/hsglabs/launchcopy-backend/pkg/auth"
	"github.com/hsglabs/launchcopy-backend/pkg/config"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
	"github.com/hsglabs/launchcopy-backend/pkg/logger"
)

type sessionRevoker interface {
	Revoke(ctx context.Context, accessID string) error
}

type loginResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Login authenticates an account and issues an access and refresh token pair.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, loginResponse{
			Status:       "ok",
			Message:      "logged in",
			Token:        result.AccessToken,
			RefreshToken: result.RefreshToken,
		})
	}
}

// Logout revokes the session tied to the presented access token. An expired
// token is still accepted so a stale client can always log out.
func Logout(manager sessionRevoker, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		token := middleware.BearerToken(r)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claims, err := pkgAuth.ParseAccessTokenAllowExpired(cfg, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}
		if claims.ID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		if err := manager.Revoke(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session"))
			return
		}

		responses.WriteMessage(w, http.StatusOK, "logged out")
	}
}
