package shippingroutes

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/machbridge/machbridge-backend/pkg/db/models"
	"github.com/machbridge/machbridge-backend/pkg/pagination"
)

// Repository exposes shipping route persistence.
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

func normalizePort(port string) string {
	return strings.ToLower(strings.TrimSpace(port))
}

func normalizeCountry(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}

// FindFastest returns the active route for (origin port, destination country)
// with the lowest min_days. Fastest wins; cost is never considered.
func (r *Repository) FindFastest(ctx context.Context, originPort, destinationCountry string) (*models.ShippingRoute, error) {
	var route models.ShippingRoute
	err := r.db.WithContext(ctx).
		Where("LOWER(origin_port) = ? AND LOWER(destination_country) = ? AND is_active = ?",
			normalizePort(originPort), normalizeCountry(destinationCountry), true).
		Order("min_days ASC").
		First(&route).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// FindExact returns the single active route matching origin port, destination
// port, and destination country.
func (r *Repository) FindExact(ctx context.Context, originPort, destinationPort, destinationCountry string) (*models.ShippingRoute, error) {
	var route models.ShippingRoute
	err := r.db.WithContext(ctx).
		Where("LOWER(origin_port) = ? AND LOWER(destination_port) = ? AND LOWER(destination_country) = ? AND is_active = ?",
			normalizePort(originPort), normalizePort(destinationPort), normalizeCountry(destinationCountry), true).
		First(&route).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// FindByID loads a route regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShippingRoute, error) {
	var route models.ShippingRoute
	if err := r.db.WithContext(ctx).First(&route, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

// Create inserts the route.
func (r *Repository) Create(ctx context.Context, route *models.ShippingRoute) (*models.ShippingRoute, error) {
	if err := r.db.WithContext(ctx).Create(route).Error; err != nil {
		return nil, err
	}
	return route, nil
}

// Update persists all fields of the route.
func (r *Repository) Update(ctx context.Context, route *models.ShippingRoute) (*models.ShippingRoute, error) {
	if err := r.db.WithContext(ctx).Save(route).Error; err != nil {
		return nil, err
	}
	return route, nil
}

// Delete removes the route.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ShippingRoute{}, "id = ?", id).Error
}

// List pages routes by creation time, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.ShippingRoute, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var routes []models.ShippingRoute
	if err := query.Find(&routes).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(routes) > limit {
		routes = routes[:limit]
		last := routes[len(routes)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return routes, nextCursor, nil
}
