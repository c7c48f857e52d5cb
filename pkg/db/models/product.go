package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/machbridge/machbridge-backend/pkg/enums"
)

// Product represents the canonical manufacturer listing. The pricing engine
// reads it and never mutates it.
type Product struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ManufacturerID uuid.UUID               `gorm:"column:manufacturer_id;type:uuid;not null"`
	SKU            string                  `gorm:"column:sku;not null"`
	Name           string                  `gorm:"column:name;not null"`
	Description    *string                 `gorm:"column:description"`
	Category       enums.EquipmentCategory `gorm:"column:category;type:equipment_category;not null"`
	Status         enums.ProductStatus     `gorm:"column:status;type:product_status;not null;default:'draft'"`

	PriceUnit decimal.Decimal `gorm:"column:price_unit;type:numeric(12,2);not null"`
	VolumeM3  decimal.Decimal `gorm:"column:volume_m3;type:numeric(10,4);not null"`
	MOQ       int             `gorm:"column:moq;not null;default:1"`

	// Optional discount percentages keyed by the 3/5/8/10 unit breakpoints.
	DiscountQty3  *float64 `gorm:"column:discount_qty_3;type:numeric(5,2)"`
	DiscountQty5  *float64 `gorm:"column:discount_qty_5;type:numeric(5,2)"`
	DiscountQty8  *float64 `gorm:"column:discount_qty_8;type:numeric(5,2)"`
	DiscountQty10 *float64 `gorm:"column:discount_qty_10;type:numeric(5,2)"`

	// TariffPercentage is fetched alongside the rest of the record but the
	// duty stage applies the country-level rate; the field is reserved for
	// per-product overrides.
	TariffPercentage *float64 `gorm:"column:tariff_percentage;type:numeric(5,2)"`
	HSCode           *string  `gorm:"column:hs_code"`

	ProductionDays *int `gorm:"column:production_days"`
	LogisticsDays  *int `gorm:"column:logistics_days"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
