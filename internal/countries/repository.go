package countries

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/machbridge/machbridge-backend/pkg/db/models"
)

// Repository reads and writes the country_settings key-value table.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CountryToken normalizes a destination country into the settings key prefix.
// "South Korea" and "south korea" address the same parameter set.
func CountryToken(country string) string {
	token := strings.ToLower(strings.TrimSpace(country))
	token = strings.ReplaceAll(token, " ", "_")
	token = strings.ReplaceAll(token, "-", "_")
	return token
}

// BuildKeys returns the nine expected settings keys for the country.
func BuildKeys(country string) []string {
	token := CountryToken(country)
	keys := make([]string, 0, len(ParamNames))
	for _, name := range ParamNames {
		keys = append(keys, token+"_"+name)
	}
	return keys
}

// Resolve loads the configured parameter rows for the country and assembles
// the typed set. Missing parameters stay zero and are reported back so the
// caller can log the data-quality warning; a country with no rows at all
// resolves with Found == 0 and the caller decides what that means.
func (r *Repository) Resolve(ctx context.Context, country string) (*Resolution, error) {
	keys := BuildKeys(country)

	var rows []models.CountrySetting
	if err := r.db.WithContext(ctx).
		Where("key IN ?", keys).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query country settings: %w", err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	token := CountryToken(country)
	resolution := &Resolution{Found: len(rows)}
	for _, name := range ParamNames {
		raw, ok := values[token+"_"+name]
		if !ok {
			resolution.Missing = append(resolution.Missing, name)
			continue
		}
		value, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("parse country setting %s_%s=%q: %w", token, name, raw, err)
		}
		setParam(&resolution.Params, name, value)
	}
	return resolution, nil
}

func setParam(params *Params, name string, value decimal.Decimal) {
	switch name {
	case ParamFreightCostPerM3:
		params.FreightCostPerM3 = value
	case ParamMarineInsurancePercentage:
		params.MarineInsurancePercentage = value
	case ParamDestinationVariableCost:
		params.DestinationVariableCost = value
	case ParamDestinationFixedCost:
		params.DestinationFixedCost = value
	case ParamDUACost:
		params.DUACost = value
	case ParamTariffPercentage:
		params.TariffPercentage = value
	case ParamVATPercentage:
		params.VATPercentage = value
	case ParamOriginExpenses:
		params.OriginExpenses = value
	case ParamLocalDeliveryCost:
		params.LocalDeliveryCost = value
	}
}

func paramValue(params Params, name string) decimal.Decimal {
	switch name {
	case ParamFreightCostPerM3:
		return params.FreightCostPerM3
	case ParamMarineInsurancePercentage:
		return params.MarineInsurancePercentage
	case ParamDestinationVariableCost:
		return params.DestinationVariableCost
	case ParamDestinationFixedCost:
		return params.DestinationFixedCost
	case ParamDUACost:
		return params.DUACost
	case ParamTariffPercentage:
		return params.TariffPercentage
	case ParamVATPercentage:
		return params.VATPercentage
	case ParamOriginExpenses:
		return params.OriginExpenses
	case ParamLocalDeliveryCost:
		return params.LocalDeliveryCost
	}
	return decimal.Zero
}

// ReplaceParams upserts the full nine-parameter set for a country.
func (r *Repository) ReplaceParams(ctx context.Context, country string, params Params) error {
	token := CountryToken(country)
	for _, name := range ParamNames {
		row := models.CountrySetting{
			Key:   token + "_" + name,
			Value: paramValue(params, name).String(),
		}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).
			Create(&row).Error
		if err != nil {
			return fmt.Errorf("upsert country setting %s: %w", row.Key, err)
		}
	}
	return nil
}
