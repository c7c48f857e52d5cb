package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/machbridge/machbridge-backend/internal/countries"
)

// CalculateInput is the validated quote request handed to the calculator.
type CalculateInput struct {
	ProductID          uuid.UUID
	Quantity           int
	DestinationCountry string
	DestinationPort    string
	OriginPort         string
	BuyerID            *uuid.UUID
}

// TransitInfo describes the shipping route a quote resolved, if any. A nil
// TransitInfo on the calculation means the timeline fell back to conservative
// defaults.
type TransitInfo struct {
	OriginPort      string    `json:"origin_port"`
	DestinationPort string    `json:"destination_port"`
	MinDays         int       `json:"min_days"`
	MaxDays         int       `json:"max_days"`
	LastUpdated     time.Time `json:"last_updated"`
	IsOutdated      bool      `json:"is_outdated"`
}

// DeliveryTimeline is the estimated door-to-door schedule. HasCompleteData is
// true only when both product lead times are known and a real route backed the
// transit leg.
type DeliveryTimeline struct {
	ProductionDays          int  `json:"production_days"`
	LogisticsToPortDays     int  `json:"logistics_to_port_days"`
	MaritimeTransitMinDays  int  `json:"maritime_transit_min_days"`
	MaritimeTransitMaxDays  int  `json:"maritime_transit_max_days"`
	CustomsClearanceMinDays int  `json:"customs_clearance_min_days"`
	CustomsClearanceMaxDays int  `json:"customs_clearance_max_days"`
	TotalMinDays            int  `json:"total_min_days"`
	TotalMaxDays            int  `json:"total_max_days"`
	HasCompleteData         bool `json:"has_complete_data"`
}

// Breakdown holds every intermediate monetary figure of the landed-cost
// derivation. Figures are rounded stage by stage; the struct snapshots each
// stage so the result is auditable line by line.
type Breakdown struct {
	PriceUnit                decimal.Decimal `json:"price_unit"`
	TotalVolumeM3            decimal.Decimal `json:"total_volume_m3"`
	DiscountApplied          decimal.Decimal `json:"discount_applied"`
	DiscountTier             string          `json:"discount_tier"`
	FOB                      decimal.Decimal `json:"fob"`
	FreightBase              decimal.Decimal `json:"freight_base"`
	VolumeSurcharge          decimal.Decimal `json:"volume_surcharge"`
	Freight                  decimal.Decimal `json:"freight"`
	OriginExpenses           decimal.Decimal `json:"origin_expenses"`
	CIF                      decimal.Decimal `json:"cif"`
	Insurance                decimal.Decimal `json:"insurance"`
	DestinationVariableTotal decimal.Decimal `json:"destination_variable_total"`
	DestinationFixedCost     decimal.Decimal `json:"destination_fixed_cost"`
	DUACost                  decimal.Decimal `json:"dua_cost"`
	DestinationExpenses      decimal.Decimal `json:"destination_expenses"`
	TaxableBase              decimal.Decimal `json:"taxable_base"`
	Tariff                   decimal.Decimal `json:"tariff"`
	VAT                      decimal.Decimal `json:"vat"`
	SubtotalShippingTaxes    decimal.Decimal `json:"subtotal_shipping_taxes"`
	TotalWithoutTaxes        decimal.Decimal `json:"total_without_taxes"`
	BuyerFee                 decimal.Decimal `json:"buyer_fee"`
	BuyerFeePercentage       decimal.Decimal `json:"buyer_fee_percentage"`
	Total                    decimal.Decimal `json:"total"`
}

// Metadata carries the non-monetary facts a caller needs to render or audit a
// quote.
type Metadata struct {
	VolumePerUnit       decimal.Decimal `json:"volume_per_unit"`
	TotalVolumeM3       decimal.Decimal `json:"total_volume_m3"`
	MOQ                 int             `json:"moq"`
	MOQValidated        bool            `json:"moq_validated"`
	HSCode              *string         `json:"hs_code"`
	VolumeSurchargeTier string          `json:"volume_surcharge_tier"`
	RequiresManualQuote bool            `json:"requires_manual_quote"`
}

// Calculation is the complete quote response body.
type Calculation struct {
	ProductID          uuid.UUID        `json:"product_id"`
	ProductName        string           `json:"product_name"`
	Quantity           int              `json:"quantity"`
	DestinationCountry string           `json:"destination_country"`
	CalculatedAt       time.Time        `json:"calculated_at"`
	Parameters         countries.Params `json:"parameters"`
	TransitInfo        *TransitInfo     `json:"transit_info"`
	DeliveryTimeline   DeliveryTimeline `json:"delivery_timeline"`
	Breakdown          Breakdown        `json:"breakdown"`
	Metadata           Metadata         `json:"metadata"`
}
