package surcharges

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/machbridge/machbridge-backend/pkg/db/models"
)

// Repository exposes volume surcharge persistence.
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

// Match returns the surcharge tier covering the given total volume. Tiers are
// matched against an inclusive lower bound and an inclusive upper bound when
// one is set; overlapping tiers resolve to the one with the highest
// min_volume. A nil result means no tier applies.
func (r *Repository) Match(ctx context.Context, totalVolume decimal.Decimal) (*models.VolumeSurcharge, error) {
	var tiers []models.VolumeSurcharge
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("min_volume DESC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}

	for i := range tiers {
		tier := &tiers[i]
		if totalVolume.LessThan(tier.MinVolume) {
			continue
		}
		if tier.MaxVolume != nil && totalVolume.GreaterThan(*tier.MaxVolume) {
			continue
		}
		return tier, nil
	}
	return nil, nil
}

// FindByID loads a surcharge tier regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VolumeSurcharge, error) {
	var tier models.VolumeSurcharge
	if err := r.db.WithContext(ctx).First(&tier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

// Create inserts the surcharge tier.
func (r *Repository) Create(ctx context.Context, tier *models.VolumeSurcharge) (*models.VolumeSurcharge, error) {
	if err := r.db.WithContext(ctx).Create(tier).Error; err != nil {
		return nil, err
	}
	return tier, nil
}

// Update persists all fields of the surcharge tier.
func (r *Repository) Update(ctx context.Context, tier *models.VolumeSurcharge) (*models.VolumeSurcharge, error) {
	if err := r.db.WithContext(ctx).Save(tier).Error; err != nil {
		return nil, err
	}
	return tier, nil
}

// Delete removes the surcharge tier.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.VolumeSurcharge{}, "id = ?", id).Error
}

// ListAll returns every tier ordered for display.
func (r *Repository) ListAll(ctx context.Context) ([]models.VolumeSurcharge, error) {
	var tiers []models.VolumeSurcharge
	err := r.db.WithContext(ctx).
		Order("display_order ASC, min_volume ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}
