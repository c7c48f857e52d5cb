package countries

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/machbridge/machbridge-backend/pkg/errors"
	"github.com/machbridge/machbridge-backend/pkg/logger"
)

// UpsertInput carries per-country pricing parameters for the admin surface.
// All nine parameters must be provided together; partial updates would leave
// quotes mixing old and new rates mid-change.
type UpsertInput struct {
	FreightCostPerM3          decimal.Decimal `json:"freight_cost_per_m3"`
	MarineInsurancePercentage decimal.Decimal `json:"marine_insurance_percentage"`
	DestinationVariableCost   decimal.Decimal `json:"destination_variable_cost"`
	DestinationFixedCost      decimal.Decimal `json:"destination_fixed_cost"`
	DUACost                   decimal.Decimal `json:"dua_cost"`
	TariffPercentage          decimal.Decimal `json:"tariff_percentage"`
	VATPercentage             decimal.Decimal `json:"vat_percentage"`
	OriginExpenses            decimal.Decimal `json:"origin_expenses"`
	LocalDeliveryCost         decimal.Decimal `json:"local_delivery_cost"`
}

// ParamsView is the admin-facing representation of a country's parameters.
type ParamsView struct {
	Country string   `json:"country"`
	Params  Params   `json:"parameters"`
	Missing []string `json:"missing_parameters,omitempty"`
}

// Service manages country pricing parameters for the admin surface.
type Service interface {
	Get(ctx context.Context, country string) (*ParamsView, error)
	Upsert(ctx context.Context, country string, input UpsertInput) (*ParamsView, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds the country parameter admin service.
func NewService(repo *Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func (s *service) Get(ctx context.Context, country string) (*ParamsView, error) {
	res, err := s.repo.Resolve(ctx, country)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "resolve country parameters")
	}
	if res.Found == 0 {
		return nil, errors.New(errors.CodeNotFound, "no parameters configured for country")
	}
	return &ParamsView{Country: country, Params: res.Params, Missing: res.Missing}, nil
}

func (s *service) Upsert(ctx context.Context, country string, input UpsertInput) (*ParamsView, error) {
	for name, value := range map[string]decimal.Decimal{
		ParamFreightCostPerM3:          input.FreightCostPerM3,
		ParamMarineInsurancePercentage: input.MarineInsurancePercentage,
		ParamDestinationVariableCost:   input.DestinationVariableCost,
		ParamDestinationFixedCost:      input.DestinationFixedCost,
		ParamDUACost:                   input.DUACost,
		ParamTariffPercentage:          input.TariffPercentage,
		ParamVATPercentage:             input.VATPercentage,
		ParamOriginExpenses:            input.OriginExpenses,
		ParamLocalDeliveryCost:         input.LocalDeliveryCost,
	} {
		if value.IsNegative() {
			return nil, errors.New(errors.CodeValidation, name+" cannot be negative")
		}
	}

	params := Params{
		FreightCostPerM3:          input.FreightCostPerM3,
		MarineInsurancePercentage: input.MarineInsurancePercentage,
		DestinationVariableCost:   input.DestinationVariableCost,
		DestinationFixedCost:      input.DestinationFixedCost,
		DUACost:                   input.DUACost,
		TariffPercentage:          input.TariffPercentage,
		VATPercentage:             input.VATPercentage,
		OriginExpenses:            input.OriginExpenses,
		LocalDeliveryCost:         input.LocalDeliveryCost,
	}

	if err := s.repo.ReplaceParams(ctx, country, params); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "store country parameters")
	}

	s.logg.Info(s.logg.WithCountry(ctx, country), "country parameters updated")

	return &ParamsView{Country: country, Params: params}, nil
}
