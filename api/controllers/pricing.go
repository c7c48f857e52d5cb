package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/machbridge/machbridge-backend/api/responses"
	"github.com/machbridge/machbridge-backend/api/validators"
	"github.com/machbridge/machbridge-backend/internal/pricing"
	pkgerrors "github.com/machbridge/machbridge-backend/pkg/errors"
	"github.com/machbridge/machbridge-backend/pkg/logger"
)

type calculateRequest struct {
	ProductID          string  `json:"product_id" validate:"required,uuid"`
	Quantity           int     `json:"quantity" validate:"required,min=1"`
	DestinationCountry string  `json:"destination_country" validate:"required,min=2,max=100"`
	DestinationPort    *string `json:"destination_port,omitempty" validate:"omitempty,min=2,max=100"`
	OriginPort         *string `json:"origin_port,omitempty" validate:"omitempty,min=2,max=100"`
	BuyerID            *string `json:"buyer_id,omitempty" validate:"omitempty,uuid"`
}

func (p calculateRequest) toInput() (pricing.CalculateInput, error) {
	productID, err := uuid.Parse(p.ProductID)
	if err != nil {
		return pricing.CalculateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id")
	}

	input := pricing.CalculateInput{
		ProductID:          productID,
		Quantity:           p.Quantity,
		DestinationCountry: strings.TrimSpace(p.DestinationCountry),
	}
	if p.DestinationPort != nil {
		input.DestinationPort = strings.TrimSpace(*p.DestinationPort)
	}
	if p.OriginPort != nil {
		input.OriginPort = strings.TrimSpace(*p.OriginPort)
	}
	if p.BuyerID != nil {
		buyerID, err := uuid.Parse(*p.BuyerID)
		if err != nil {
			return pricing.CalculateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid buyer_id")
		}
		input.BuyerID = &buyerID
	}
	return input, nil
}

// CalculateLandedCost handles POST /api/v1/pricing/calculate.
func CalculateLandedCost(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload calculateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		calc, err := svc.Calculate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteCalculation(w, calc)
	}
}
