package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingRoute maps an origin port to a destination country (and optionally
// a specific destination port) with transit bounds. Routes are maintained by
// administrators; LastUpdated drives the staleness flag surfaced to callers.
type ShippingRoute struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OriginPort         string           `gorm:"column:origin_port;not null"`
	DestinationCountry string           `gorm:"column:destination_country;not null"`
	DestinationPort    *string          `gorm:"column:destination_port"`
	MinDays            int              `gorm:"column:min_days;not null"`
	MaxDays            int              `gorm:"column:max_days;not null"`
	FreightCostPerM3   *decimal.Decimal `gorm:"column:freight_cost_per_m3;type:numeric(12,2)"`
	IsActive           bool             `gorm:"column:is_active;not null;default:true"`
	LastUpdated        time.Time        `gorm:"column:last_updated;not null"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
}
