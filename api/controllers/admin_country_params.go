package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/machbridge/machbridge-backend/api/responses"
	"github.com/machbridge/machbridge-backend/api/validators"
	"github.com/machbridge/machbridge-backend/internal/countries"
	pkgerrors "github.com/machbridge/machbridge-backend/pkg/errors"
	"github.com/machbridge/machbridge-backend/pkg/logger"
)

func countryFromURL(r *http.Request) (string, error) {
	country := strings.TrimSpace(chi.URLParam(r, "country"))
	if len(country) < 2 || len(country) > 100 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "country must be 2-100 characters")
	}
	return country, nil
}

// AdminGetCountryParams handles GET /api/admin/v1/countries/{country}/parameters.
func AdminGetCountryParams(svc countries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		country, err := countryFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), country)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AdminUpsertCountryParams handles PUT /api/admin/v1/countries/{country}/parameters.
func AdminUpsertCountryParams(svc countries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		country, err := countryFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload countries.UpsertInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Upsert(r.Context(), country, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
