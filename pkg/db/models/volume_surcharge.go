package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VolumeSurcharge is a shipment-volume bracket that adds a flat fee to
// freight. MinVolume is inclusive, MaxVolume exclusive-by-intent and
// open-ended when null. Administrators are expected to keep tiers
// non-overlapping; the selection logic tie-breaks on the highest MinVolume
// when they fail to.
type VolumeSurcharge struct {
	ID                  uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MinVolume           decimal.Decimal  `gorm:"column:min_volume;type:numeric(10,4);not null"`
	MaxVolume           *decimal.Decimal `gorm:"column:max_volume;type:numeric(10,4)"`
	SurchargeAmount     decimal.Decimal  `gorm:"column:surcharge_amount;type:numeric(12,2);not null"`
	RequiresManualQuote bool             `gorm:"column:requires_manual_quote;not null;default:false"`
	IsActive            bool             `gorm:"column:is_active;not null;default:true"`
	DisplayOrder        int              `gorm:"column:display_order;not null;default:0"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
}
