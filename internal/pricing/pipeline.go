package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/machbridge/machbridge-backend/internal/countries"
	"github.com/machbridge/machbridge-backend/pkg/db/models"
)

// BuyerFeePercentage is the fixed platform fee applied to every quote.
var BuyerFeePercentage = decimal.NewFromInt(2)

var oneHundred = decimal.NewFromInt(100)

// pipelineInput is everything the monetary derivation needs, assembled before
// the first stage runs.
type pipelineInput struct {
	priceUnit       decimal.Decimal
	volumePerUnit   decimal.Decimal
	quantity        int
	discountRate    decimal.Decimal
	discountTier    string
	params          countries.Params
	freightOverride *decimal.Decimal
	surchargeTier   *models.VolumeSurcharge
}

type pipelineResult struct {
	breakdown           Breakdown
	surchargeTierLabel  string
	requiresManualQuote bool
}

func round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// derive runs the landed-cost pipeline. Every stage rounds to two decimal
// places immediately; intermediate rounding is load-bearing, so reordering or
// deferring rounding changes totals by cents.
func derive(in pipelineInput) pipelineResult {
	qty := decimal.NewFromInt(int64(in.quantity))

	// FOB: goods value after the volume discount.
	discountFactor := decimal.NewFromInt(1).Sub(in.discountRate.Div(oneHundred))
	fob := round2(in.priceUnit.Mul(qty).Mul(discountFactor))

	// Total volume stays unrounded; it feeds later per-m3 stages as a real
	// number.
	totalVolume := in.volumePerUnit.Mul(qty)

	freightRate := in.params.FreightCostPerM3
	if in.freightOverride != nil {
		freightRate = *in.freightOverride
	}
	freightBase := round2(totalVolume.Mul(freightRate))

	surcharge := decimal.Zero
	surchargeLabel := ""
	requiresQuote := false
	freight := freightBase
	if in.surchargeTier != nil {
		surcharge = in.surchargeTier.SurchargeAmount
		surchargeLabel = surchargeTierLabel(in.surchargeTier)
		requiresQuote = in.surchargeTier.RequiresManualQuote
		freight = round2(freightBase.Add(surcharge))
	}

	originExpenses := in.params.OriginExpenses

	// Insured value covers goods plus freight only; origin-side handling is
	// excluded from the insurance base.
	insuranceBase := round2(fob.Add(freight))
	insurance := round2(insuranceBase.Mul(in.params.MarineInsurancePercentage.Div(oneHundred)))

	cif := round2(fob.Add(freight).Add(insurance))

	destinationVariableTotal := round2(in.params.DestinationVariableCost.Mul(totalVolume))
	destinationExpenses := destinationVariableTotal.
		Add(in.params.DestinationFixedCost).
		Add(in.params.DUACost)

	// Duty and VAT are assessed on goods plus freight plus landing charges;
	// the insurance premium itself is not part of the dutiable value even
	// though CIF is reported with it.
	taxableBase := round2(insuranceBase.Add(originExpenses).Add(destinationExpenses))

	// Duty applies the country rate; the product's own tariff field is
	// informational only.
	tariff := round2(taxableBase.Mul(in.params.TariffPercentage.Div(oneHundred)))

	vatBase := round2(taxableBase.Add(tariff))
	vat := round2(vatBase.Mul(in.params.VATPercentage.Div(oneHundred)))

	totalWithoutTaxes := round2(fob.Add(freight).Add(insurance).Add(destinationExpenses))
	buyerFee := round2(totalWithoutTaxes.Mul(BuyerFeePercentage.Div(oneHundred)))

	total := round2(taxableBase.Add(tariff).Add(vat).Add(buyerFee))

	subtotalShippingTaxes := round2(freight.Add(insurance).Add(destinationExpenses).Add(tariff).Add(vat))

	return pipelineResult{
		breakdown: Breakdown{
			PriceUnit:                in.priceUnit,
			TotalVolumeM3:            totalVolume,
			DiscountApplied:          in.discountRate,
			DiscountTier:             in.discountTier,
			FOB:                      fob,
			FreightBase:              freightBase,
			VolumeSurcharge:          surcharge,
			Freight:                  freight,
			OriginExpenses:           originExpenses,
			CIF:                      cif,
			Insurance:                insurance,
			DestinationVariableTotal: destinationVariableTotal,
			DestinationFixedCost:     in.params.DestinationFixedCost,
			DUACost:                  in.params.DUACost,
			DestinationExpenses:      destinationExpenses,
			TaxableBase:              taxableBase,
			Tariff:                   tariff,
			VAT:                      vat,
			SubtotalShippingTaxes:    subtotalShippingTaxes,
			TotalWithoutTaxes:        totalWithoutTaxes,
			BuyerFee:                 buyerFee,
			BuyerFeePercentage:       BuyerFeePercentage,
			Total:                    total,
		},
		surchargeTierLabel:  surchargeLabel,
		requiresManualQuote: requiresQuote,
	}
}

func surchargeTierLabel(tier *models.VolumeSurcharge) string {
	min := tier.MinVolume.String()
	if tier.MaxVolume == nil {
		return min + "+ m3"
	}
	return min + "-" + tier.MaxVolume.String() + " m3"
}
