package pricing

import "github.com/machbridge/machbridge-backend/pkg/db/models"

const (
	// FallbackTransitMinDays and FallbackTransitMaxDays are the conservative
	// maritime transit estimates used when no route resolves.
	FallbackTransitMinDays = 30
	FallbackTransitMaxDays = 35

	// Customs clearance is a fixed window, not configurable per country.
	CustomsClearanceMinDays = 5
	CustomsClearanceMaxDays = 7
)

// deriveTimeline builds the delivery estimate. route is nil when no real
// route backed the quote, in which case transit falls back to the defaults
// and the estimate is marked incomplete.
func deriveTimeline(product *models.Product, route *models.ShippingRoute) DeliveryTimeline {
	production := 0
	if product.ProductionDays != nil {
		production = *product.ProductionDays
	}
	logistics := 0
	if product.LogisticsDays != nil {
		logistics = *product.LogisticsDays
	}

	transitMin := FallbackTransitMinDays
	transitMax := FallbackTransitMaxDays
	if route != nil {
		transitMin = route.MinDays
		transitMax = route.MaxDays
	}

	return DeliveryTimeline{
		ProductionDays:          production,
		LogisticsToPortDays:     logistics,
		MaritimeTransitMinDays:  transitMin,
		MaritimeTransitMaxDays:  transitMax,
		CustomsClearanceMinDays: CustomsClearanceMinDays,
		CustomsClearanceMaxDays: CustomsClearanceMaxDays,
		TotalMinDays:            production + logistics + transitMin + CustomsClearanceMinDays,
		TotalMaxDays:            production + logistics + transitMax + CustomsClearanceMaxDays,
		HasCompleteData:         production > 0 && logistics > 0 && route != nil,
	}
}
