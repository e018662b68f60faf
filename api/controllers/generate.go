package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hsglabs/launchcopy-backend/api/middleware"
	"github.com/hsglabs/launchcopy-backend/api/responses"
	"github.com/hsglabs/launchcopy-backend/api/validators"
	"github.com/hsglabs/launchcopy-backend/internal/generation"
	pkgerrors "github.com/hsglabs/launchcopy-backend/pkg/errors"
	"github.com/hsglabs/launchcopy-backend/pkg/logger"
)

type generateRequest struct {
	Features string `json:"features" validate:"required"`
}

type generateResponse struct {
	GeneratedText string `json:"generatedText"`
}

// Generate turns a feature description into landing-page copy.
func Generate(svc generation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "generation service unavailable"))
			return
		}

		accountID, err := uuid.Parse(middleware.AccountIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body generateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		text, err := svc.Generate(r.Context(), accountID, body.Features)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, generateResponse{GeneratedText: text})
	}
}
