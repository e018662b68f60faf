package controllers

import (
	"net/http"

	"github.com/hsglabs/launchcopy-backend/api/middleware"
	"github.com/hsglabs/launchcopy-backend/api/responses"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
	"github.com/hsglabs/launchcopy-backend/pkg/logger"
)

type statusResponse struct {
	Status string `json:"status"`
	Email  string `json:"email"`
}

// Status reports whether the caller's session is valid. The auth middleware
// has already done the work; this just echoes the identity back.
func Status(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := middleware.EmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		responses.WriteJSON(w, http.StatusOK, statusResponse{
			Status: "ok",
			Email:  email,
		})
	}
}
