package controllers

import (
	"net/http"

	"github.com/hsglabs/launchcopy-backend/api/responses"
	"github.com/hsglabs/launchcopy-backend/api/validators"
	"github.com/hsglabs/launchcopy-backend/internal/auth"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
	"github.com/hsglabs/launchcopy-backend/pkg/logger"
)

// Register handles account creation.
func Register(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := reg.Register(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusCreated, "account created")
	}
}
