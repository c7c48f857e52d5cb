package pricing

import (
	"context"
	errs "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/machbridge/machbridge-backend/internal/countries"
	"github.com/machbridge/machbridge-backend/internal/shippingroutes"
	"github.com/machbridge/machbridge-backend/pkg/db/models"
	"github.com/machbridge/machbridge-backend/pkg/enums"
	"github.com/machbridge/machbridge-backend/pkg/errors"
	"github.com/machbridge/machbridge-backend/pkg/logger"
	"github.com/machbridge/machbridge-backend/pkg/metrics"
)

// Service computes landed-cost quotes.
type Service interface {
	Calculate(ctx context.Context, input CalculateInput) (*Calculation, error)
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type countryResolver interface {
	Resolve(ctx context.Context, country string) (*countries.Resolution, error)
}

type routeReader interface {
	FindFastest(ctx context.Context, originPort, destinationCountry string) (*models.ShippingRoute, error)
	FindExact(ctx context.Context, originPort, destinationPort, destinationCountry string) (*models.ShippingRoute, error)
}

type surchargeMatcher interface {
	Match(ctx context.Context, totalVolume decimal.Decimal) (*models.VolumeSurcharge, error)
}

type service struct {
	products   productReader
	countries  countryResolver
	routes     routeReader
	surcharges surchargeMatcher
	logg       *logger.Logger
	calcs      *metrics.CalculationMetrics
	now        func() time.Time
}

// NewService wires the calculator to its lookups. metrics may be nil in tests.
func NewService(
	products productReader,
	countryParams countryResolver,
	routes routeReader,
	surcharges surchargeMatcher,
	logg *logger.Logger,
	calcs *metrics.CalculationMetrics,
) Service {
	return &service{
		products:   products,
		countries:  countryParams,
		routes:     routes,
		surcharges: surcharges,
		logg:       logg,
		calcs:      calcs,
		now:        time.Now,
	}
}

// routeMatch is the outcome of route resolution. found distinguishes a real
// route from the fallback so the timeline can report estimate confidence.
type routeMatch struct {
	route           *models.ShippingRoute
	freightOverride *decimal.Decimal
	found           bool
}

func (s *service) Calculate(ctx context.Context, input CalculateInput) (*Calculation, error) {
	started := s.now()
	calc, err := s.calculate(ctx, input)
	s.calcs.ObserveDuration(input.DestinationCountry, s.now().Sub(started))
	if err != nil {
		if appErr := errors.As(err); appErr != nil {
			s.calcs.IncFailure(string(appErr.Code()))
		} else {
			s.calcs.IncFailure(string(errors.CodeInternal))
		}
		return nil, err
	}
	s.calcs.IncSuccess(input.DestinationCountry)
	return calc, nil
}

func (s *service) calculate(ctx context.Context, input CalculateInput) (*Calculation, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	ctx = s.logg.WithProductID(ctx, input.ProductID.String())
	ctx = s.logg.WithCountry(ctx, input.DestinationCountry)

	product, err := s.fetchProduct(ctx, input)
	if err != nil {
		return nil, err
	}

	resolution, err := s.countries.Resolve(ctx, input.DestinationCountry)
	if err != nil {
		return nil, errors.Wrap(errors.CodeCalculation, err, "resolve country parameters")
	}
	if resolution.Found == 0 {
		return nil, errors.New(errors.CodeUnsupportedDestination,
			fmt.Sprintf("no parameters configured for %q", input.DestinationCountry))
	}
	if len(resolution.Missing) > 0 {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"missing_parameters": resolution.Missing,
			"found":              resolution.Found,
		})
		s.logg.Warn(warnCtx, "country parameters incomplete, missing keys default to zero")
	}
	params := resolution.Params

	match, err := s.resolveRoute(ctx, input)
	if err != nil {
		return nil, err
	}

	discountRate, discountTier := resolveDiscount(product, input.Quantity)

	totalVolume := product.VolumeM3.Mul(decimal.NewFromInt(int64(input.Quantity)))
	surchargeTier, err := s.surcharges.Match(ctx, totalVolume)
	if err != nil {
		return nil, errors.Wrap(errors.CodeCalculation, err, "match volume surcharge")
	}

	result := derive(pipelineInput{
		priceUnit:       product.PriceUnit,
		volumePerUnit:   product.VolumeM3,
		quantity:        input.Quantity,
		discountRate:    discountRate,
		discountTier:    discountTier,
		params:          params,
		freightOverride: match.freightOverride,
		surchargeTier:   surchargeTier,
	})

	now := s.now().UTC()
	calc := &Calculation{
		ProductID:          product.ID,
		ProductName:        product.Name,
		Quantity:           input.Quantity,
		DestinationCountry: input.DestinationCountry,
		CalculatedAt:       now,
		Parameters:         params,
		TransitInfo:        transitInfoFor(input, match, now),
		DeliveryTimeline:   deriveTimeline(product, match.route),
		Breakdown:          result.breakdown,
		Metadata: Metadata{
			VolumePerUnit:       product.VolumeM3,
			TotalVolumeM3:       totalVolume,
			MOQ:                 product.MOQ,
			MOQValidated:        input.Quantity >= product.MOQ,
			HSCode:              product.HSCode,
			VolumeSurchargeTier: result.surchargeTierLabel,
			RequiresManualQuote: result.requiresManualQuote,
		},
	}

	s.logg.Info(s.logg.WithField(ctx, "total", calc.Breakdown.Total.String()), "landed cost calculated")
	return calc, nil
}

func (s *service) fetchProduct(ctx context.Context, input CalculateInput) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errs.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "Product not found")
		}
		return nil, errors.Wrap(errors.CodeCalculation, err, "fetch product")
	}

	if product.Status != enums.ProductStatusActive {
		return nil, errors.New(errors.CodeInvalidState,
			fmt.Sprintf("product status is %q, must be active", product.Status))
	}
	if !product.VolumeM3.IsPositive() {
		return nil, errors.New(errors.CodeInvalidProductData, "product volume_m3 must be positive")
	}
	if !product.PriceUnit.IsPositive() {
		return nil, errors.New(errors.CodeInvalidProductData, "product price_unit must be positive")
	}
	if input.Quantity < product.MOQ {
		return nil, errors.New(errors.CodeBelowMinimumOrder,
			fmt.Sprintf("quantity %d is below minimum order of %d", input.Quantity, product.MOQ))
	}
	return product, nil
}

// resolveRoute finds the route backing the quote. Without an origin port the
// quote skips routing entirely. With only an origin port the fastest active
// route wins; with both ports only an exact match counts, and a miss is not
// an error.
func (s *service) resolveRoute(ctx context.Context, input CalculateInput) (routeMatch, error) {
	if input.OriginPort == "" {
		return routeMatch{}, nil
	}

	var (
		route *models.ShippingRoute
		err   error
	)
	if input.DestinationPort == "" {
		route, err = s.routes.FindFastest(ctx, input.OriginPort, input.DestinationCountry)
	} else {
		route, err = s.routes.FindExact(ctx, input.OriginPort, input.DestinationPort, input.DestinationCountry)
	}
	if err != nil {
		if errs.Is(err, gorm.ErrRecordNotFound) {
			return routeMatch{}, nil
		}
		return routeMatch{}, errors.Wrap(errors.CodeCalculation, err, "resolve shipping route")
	}

	return routeMatch{
		route:           route,
		freightOverride: route.FreightCostPerM3,
		found:           true,
	}, nil
}

func transitInfoFor(input CalculateInput, match routeMatch, now time.Time) *TransitInfo {
	if !match.found {
		return nil
	}
	route := match.route

	destPort := input.DestinationPort
	if destPort == "" && route.DestinationPort != nil {
		destPort = *route.DestinationPort
	}

	return &TransitInfo{
		OriginPort:      route.OriginPort,
		DestinationPort: destPort,
		MinDays:         route.MinDays,
		MaxDays:         route.MaxDays,
		LastUpdated:     route.LastUpdated,
		IsOutdated:      shippingroutes.IsOutdated(route.LastUpdated, now),
	}
}
