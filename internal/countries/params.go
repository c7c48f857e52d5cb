package countries

import "github.com/shopspring/decimal"

// Canonical per-country parameter names. Every destination is configured as
// "{country}_{name}" rows in country_settings.
const (
	ParamFreightCostPerM3          = "freight_cost_per_m3"
	ParamMarineInsurancePercentage = "marine_insurance_percentage"
	ParamDestinationVariableCost   = "destination_variable_cost"
	ParamDestinationFixedCost      = "destination_fixed_cost"
	ParamDUACost                   = "dua_cost"
	ParamTariffPercentage          = "tariff_percentage"
	ParamVATPercentage             = "vat_percentage"
	ParamOriginExpenses            = "origin_expenses"
	ParamLocalDeliveryCost         = "local_delivery_cost"
)

// ParamNames lists the nine canonical parameters in display order.
var ParamNames = []string{
	ParamFreightCostPerM3,
	ParamMarineInsurancePercentage,
	ParamDestinationVariableCost,
	ParamDestinationFixedCost,
	ParamDUACost,
	ParamTariffPercentage,
	ParamVATPercentage,
	ParamOriginExpenses,
	ParamLocalDeliveryCost,
}

// Params is the typed per-country logistics parameter set. The key-value
// settings rows are resolved into this struct at the data-access boundary;
// nothing downstream touches untyped pairs. Absent parameters are zero.
type Params struct {
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

// Resolution carries the typed parameters plus the data-quality view of the
// lookup: how many configured rows matched and which parameters fell back to
// zero.
type Resolution struct {
	Params  Params
	Missing []string
	Found   int
}
