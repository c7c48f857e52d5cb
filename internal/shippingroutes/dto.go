package shippingroutes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/machbridge/machbridge-backend/pkg/db/models"
)

// CreateInput carries the fields required to register a route.
type CreateInput struct {
	OriginPort         string           `json:"origin_port" validate:"required,min=2,max=100"`
	DestinationCountry string           `json:"destination_country" validate:"required,min=2,max=100"`
	DestinationPort    *string          `json:"destination_port" validate:"omitempty,min=2,max=100"`
	MinDays            int              `json:"min_days" validate:"required,min=1"`
	MaxDays            int              `json:"max_days" validate:"required,min=1"`
	FreightCostPerM3   *decimal.Decimal `json:"freight_cost_per_m3" validate:"-"`
	IsActive           *bool            `json:"is_active" validate:"-"`
}

// UpdateInput carries partial route changes. Nil fields are left untouched.
type UpdateInput struct {
	OriginPort         *string          `json:"origin_port" validate:"omitempty,min=2,max=100"`
	DestinationCountry *string          `json:"destination_country" validate:"omitempty,min=2,max=100"`
	DestinationPort    *string          `json:"destination_port" validate:"omitempty,min=2,max=100"`
	MinDays            *int             `json:"min_days" validate:"omitempty,min=1"`
	MaxDays            *int             `json:"max_days" validate:"omitempty,min=1"`
	FreightCostPerM3   *decimal.Decimal `json:"freight_cost_per_m3" validate:"-"`
	IsActive           *bool            `json:"is_active" validate:"-"`
}

// RouteView is the admin-facing representation of a route, including a
// staleness flag for rates that have not been refreshed recently.
type RouteView struct {
	ID                 uuid.UUID        `json:"id"`
	OriginPort         string           `json:"origin_port"`
	DestinationCountry string           `json:"destination_country"`
	DestinationPort    *string          `json:"destination_port,omitempty"`
	MinDays            int              `json:"min_days"`
	MaxDays            int              `json:"max_days"`
	FreightCostPerM3   *decimal.Decimal `json:"freight_cost_per_m3,omitempty"`
	IsActive           bool             `json:"is_active"`
	LastUpdated        time.Time        `json:"last_updated"`
	Outdated           bool             `json:"outdated"`
	CreatedAt          time.Time        `json:"created_at"`
}

// ListResult bundles a page of routes with the cursor for the next page.
type ListResult struct {
	Routes     []RouteView `json:"routes"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func toRouteView(route *models.ShippingRoute, now time.Time) RouteView {
	return RouteView{
		ID:                 route.ID,
		OriginPort:         route.OriginPort,
		DestinationCountry: route.DestinationCountry,
		DestinationPort:    route.DestinationPort,
		MinDays:            route.MinDays,
		MaxDays:            route.MaxDays,
		FreightCostPerM3:   route.FreightCostPerM3,
		IsActive:           route.IsActive,
		LastUpdated:        route.LastUpdated,
		Outdated:           IsOutdated(route.LastUpdated, now),
		CreatedAt:          route.CreatedAt,
	}
}
