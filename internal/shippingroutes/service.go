package shippingroutes

import (
	"context"
	errs "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/machbridge/machbridge-backend/pkg/db/models"
	"github.com/machbridge/machbridge-backend/pkg/errors"
	"github.com/machbridge/machbridge-backend/pkg/logger"
	"github.com/machbridge/machbridge-backend/pkg/pagination"
)

// StaleAfter is how long a route's rate may go without a refresh before it is
// flagged as outdated on quotes and admin views.
const StaleAfter = 90 * 24 * time.Hour

// IsOutdated reports whether a route last updated at the given time should be
// flagged as stale.
func IsOutdated(lastUpdated, now time.Time) bool {
	return now.Sub(lastUpdated) > StaleAfter
}

// Service manages shipping routes for the admin surface.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*RouteView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*RouteView, error)
	Get(ctx context.Context, id uuid.UUID) (*RouteView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the route admin service.
func NewService(repo *Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg, now: time.Now}
}

func validateDays(minDays, maxDays int) error {
	if minDays <= 0 || maxDays <= 0 {
		return errors.New(errors.CodeValidation, "transit days must be positive")
	}
	if minDays > maxDays {
		return errors.New(errors.CodeValidation, "min_days cannot exceed max_days")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*RouteView, error) {
	if err := validateDays(input.MinDays, input.MaxDays); err != nil {
		return nil, err
	}
	if input.FreightCostPerM3 != nil && !input.FreightCostPerM3.IsPositive() {
		return nil, errors.New(errors.CodeValidation, "freight_cost_per_m3 must be greater than zero")
	}

	now := s.now().UTC()
	route := &models.ShippingRoute{
		ID:                 uuid.New(),
		OriginPort:         input.OriginPort,
		DestinationCountry: input.DestinationCountry,
		DestinationPort:    input.DestinationPort,
		MinDays:            input.MinDays,
		MaxDays:            input.MaxDays,
		FreightCostPerM3:   input.FreightCostPerM3,
		IsActive:           true,
		LastUpdated:        now,
	}
	if input.IsActive != nil {
		route.IsActive = *input.IsActive
	}

	created, err := s.repo.Create(ctx, route)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "create shipping route")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"route_id":            created.ID.String(),
		"origin_port":         created.OriginPort,
		"destination_country": created.DestinationCountry,
	})
	s.logg.Info(logCtx, "shipping route created")

	view := toRouteView(created, now)
	return &view, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*RouteView, error) {
	route, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errs.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "shipping route not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load shipping route")
	}

	rateChanged := false
	if input.OriginPort != nil {
		route.OriginPort = *input.OriginPort
	}
	if input.DestinationCountry != nil {
		route.DestinationCountry = *input.DestinationCountry
	}
	if input.DestinationPort != nil {
		route.DestinationPort = input.DestinationPort
	}
	if input.MinDays != nil {
		route.MinDays = *input.MinDays
	}
	if input.MaxDays != nil {
		route.MaxDays = *input.MaxDays
	}
	if input.FreightCostPerM3 != nil {
		if !input.FreightCostPerM3.IsPositive() {
			return nil, errors.New(errors.CodeValidation, "freight_cost_per_m3 must be greater than zero")
		}
		route.FreightCostPerM3 = input.FreightCostPerM3
		rateChanged = true
	}
	if input.IsActive != nil {
		route.IsActive = *input.IsActive
	}

	if err := validateDays(route.MinDays, route.MaxDays); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if rateChanged {
		route.LastUpdated = now
	}

	updated, err := s.repo.Update(ctx, route)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "update shipping route")
	}

	view := toRouteView(updated, now)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RouteView, error) {
	route, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errs.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "shipping route not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "load shipping route")
	}
	view := toRouteView(route, s.now().UTC())
	return &view, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errs.Is(err, gorm.ErrRecordNotFound) {
			return errors.New(errors.CodeNotFound, "shipping route not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "load shipping route")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "delete shipping route")
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	routes, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "list shipping routes")
	}

	now := s.now().UTC()
	views := make([]RouteView, 0, len(routes))
	for i := range routes {
		views = append(views, toRouteView(&routes[i], now))
	}
	return &ListResult{Routes: views, NextCursor: nextCursor}, nil
}
