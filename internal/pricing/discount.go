package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/machbridge/machbridge-backend/pkg/db/models"
)

// DiscountTierNone labels a quote that qualified for no volume discount.
const DiscountTierNone = "none"

type discountTier struct {
	threshold int
	label     string
	rate      func(*models.Product) *float64
}

// Tiers are evaluated highest threshold first. A higher quantity always takes
// the higher tier even when a lower tier's configured percentage is larger.
var discountTiers = []discountTier{
	{10, "10_units", func(p *models.Product) *float64 { return p.DiscountQty10 }},
	{8, "8_units", func(p *models.Product) *float64 { return p.DiscountQty8 }},
	{5, "5_units", func(p *models.Product) *float64 { return p.DiscountQty5 }},
	{3, "3_units", func(p *models.Product) *float64 { return p.DiscountQty3 }},
}

// resolveDiscount picks the discount percentage for the quantity: the first
// tier, descending by threshold, whose threshold the quantity meets and whose
// percentage the product actually configures. Unconfigured tiers are skipped
// rather than treated as zero.
func resolveDiscount(product *models.Product, quantity int) (decimal.Decimal, string) {
	for _, tier := range discountTiers {
		if quantity < tier.threshold {
			continue
		}
		if pct := tier.rate(product); pct != nil {
			return decimal.NewFromFloat(*pct), tier.label
		}
	}
	return decimal.Zero, DiscountTierNone
}
