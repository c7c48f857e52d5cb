package models

import "time"

// CountrySetting is one row of the loosely-typed logistics parameter table.
// Keys follow the "{country}_{param}" convention, e.g. "spain_vat_percentage".
// The countries repository resolves these rows into a typed parameter set
// before anything reaches the calculation core.
type CountrySetting struct {
	Key         string    `gorm:"column:key;primaryKey"`
	Value       string    `gorm:"column:value;not null"`
	Description *string   `gorm:"column:description"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy table name.
func (CountrySetting) TableName() string {
	return "country_settings"
}
