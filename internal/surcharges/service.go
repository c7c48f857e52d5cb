package surcharges

import (
	"context"
	errs "errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/machbridge/machbridge-backend/pkg/db/models"
	"github.com/machbridge/machbridge-backend/pkg/errors"
	"github.com/machbridge/machbridge-backend/pkg/logger"
)

// CreateInput carries the fields required to register a surcharge tier.
type CreateInput struct {
	MinVolume           decimal.Decimal  `json:"min_volume" validate:"required"`
	MaxVolume           *decimal.Decimal `json:"max_volume" validate:"-"`
	SurchargeAmount     decimal.Decimal  `json:"surcharge_amount" validate:"required"`
	RequiresManualQuote bool             `json:"requires_manual_quote"`
	IsActive            *bool            `json:"is_active" validate:"-"`
	DisplayOrder        int              `json:"display_order" validate:"min=0"`
}

// UpdateInput carries partial surcharge tier changes.
type UpdateInput struct {
	MinVolume           *decimal.Decimal `json:"min_volume" validate:"-"`
	MaxVolume           *decimal.Decimal `json:"max_volume" validate:"-"`
	SurchargeAmount     *decimal.Decimal `json:"surcharge_amount" validate:"-"`
	RequiresManualQuote *bool            `json:"requires_manual_quote" validate:"-"`
	IsActive            *bool            `json:"is_active" validate:"-"`
	DisplayOrder        *int             `json:"display_order" validate:"omitempty,min=0"`
}

// TierView is the admin-facing representation of a surcharge tier.
type TierView struct {
	ID                  uuid.UUID        `json:"id"`
	MinVolume           decimal.Decimal  `json:"min_volume"`
	MaxVolume           *decimal.Decimal `json:"max_volume,omitempty"`
	SurchargeAmount     decimal.Decimal  `json:"surcharge_amount"`
	RequiresManualQuote bool             `json:"requires_manual_quote"`
	IsActive            bool             `json:"is_active"`
	DisplayOrder        int              `json:"display_order"`
	CreatedAt           time.Time        `json:"created_at"`
}

func toTierView(tier *models.VolumeSurcharge) TierView {
	return TierView{
		ID:                  tier.ID,
		MinVolume:           tier.MinVolume,
		MaxVolume:           tier.MaxVolume,
		SurchargeAmount:     tier.SurchargeAmount,
		RequiresManualQuote: tier.RequiresManualQuote,
		IsActive:            tier.IsActive,
		DisplayOrder:        tier.DisplayOrder,
		CreatedAt:           tier.CreatedAt,
	}
}

// Service manages volume surcharge tiers for the admin surface.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*TierView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*TierView, error)
	Get(ctx context.Context, id uuid.UUID) (*TierView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]TierView, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds the surcharge admin service.
func NewService(repo *Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

func validateRange(minVolume decimal.Decimal, maxVolume *decimal.Decimal) error {
	if minVolume.IsNegative() {
		return errors.New(errors.CodeValidation, "min_volume cannot be negative")
	}
	if maxVolume != nil && maxVolume.LessThanOrEqual(minVolume) {
		return errors.New(errors.CodeValidation, "max_volume must be greater than min_volume")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*TierView, error) {
	if err := validateRange(input.MinVolume, input.MaxVolume); err != nil {
		return nil, err
	}
	if input.SurchargeAmount.IsNegative() {
		return nil, errors.New(errors.CodeValidation, "surcharge_amount cannot be negative")
	}

	tier := &models.VolumeSurcharge{
		ID:                  uuid.New(),
		MinVolume:           input.MinVolume,
		MaxVolume:           input.MaxVolume,
		SurchargeAmount:     input.SurchargeAmount,
		RequiresManualQuote: input.RequiresManualQuote,
		IsActive:            true,
		DisplayOrder:        input.DisplayOrder,
	}
	if input.IsActive != nil {
		tier.IsActive = *input.IsActive
	}

	created, err := s.repo.Create(ctx, tier)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "create volume surcharge")
	}

	s.logg.Info(s.logg.WithField(ctx, "surcharge_id", created.ID.String()), "volume surcharge created")

	view := toTierView(created)
	return &view, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*TierView, error) {
	tier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errs.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "volume surcharge not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load volume surcharge")
	}

	if input.MinVolume != nil {
		tier.MinVolume = *input.MinVolume
	}
	if input.MaxVolume != nil {
		tier.MaxVolume = input.MaxVolume
	}
	if input.SurchargeAmount != nil {
		if input.SurchargeAmount.IsNegative() {
			return nil, errors.New(errors.CodeValidation, "surcharge_amount cannot be negative")
		}
		tier.SurchargeAmount = *input.SurchargeAmount
	}
	if input.RequiresManualQuote != nil {
		tier.RequiresManualQuote = *input.RequiresManualQuote
	}
	if input.IsActive != nil {
		tier.IsActive = *input.IsActive
	}
	if input.DisplayOrder != nil {
		tier.DisplayOrder = *input.DisplayOrder
	}

	if err := validateRange(tier.MinVolume, tier.MaxVolume); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, tier)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "update volume surcharge")
	}

	view := toTierView(updated)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TierView, error) {
	tier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errs.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "volume surcharge not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load volume surcharge")
	}
	view := toTierView(tier)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errs.Is(err, gorm.ErrRecordNotFound) {
			return errors.New(errors.CodeNotFound, "volume surcharge not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "load volume surcharge")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "delete volume surcharge")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]TierView, error) {
	tiers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list volume surcharges")
	}
	views := make([]TierView, 0, len(tiers))
	for i := range tiers {
		views = append(views, toTierView(&tiers[i]))
	}
	return views, nil
}
