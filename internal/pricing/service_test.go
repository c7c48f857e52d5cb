package pricing

import (
	"context"
	"encoding/json"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/machbridge/machbridge-backend/internal/countries"
	"github.com/machbridge/machbridge-backend/pkg/db/models"
	"github.com/machbridge/machbridge-backend/pkg/enums"
	pkgerrors "github.com/machbridge/machbridge-backend/pkg/errors"
	"github.com/machbridge/machbridge-backend/pkg/logger"
)

type stubProducts struct {
	findFn func(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

func (s *stubProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.findFn(ctx, id)
}

type stubCountries struct {
	resolveFn func(ctx context.Context, country string) (*countries.Resolution, error)
}

func (s *stubCountries) Resolve(ctx context.Context, country string) (*countries.Resolution, error) {
	return s.resolveFn(ctx, country)
}

type stubRoutes struct {
	fastestFn func(ctx context.Context, originPort, destinationCountry string) (*models.ShippingRoute, error)
	exactFn   func(ctx context.Context, originPort, destinationPort, destinationCountry string) (*models.ShippingRoute, error)
}

func (s *stubRoutes) FindFastest(ctx context.Context, originPort, destinationCountry string) (*models.ShippingRoute, error) {
	if s.fastestFn != nil {
		return s.fastestFn(ctx, originPort, destinationCountry)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRoutes) FindExact(ctx context.Context, originPort, destinationPort, destinationCountry string) (*models.ShippingRoute, error) {
	if s.exactFn != nil {
		return s.exactFn(ctx, originPort, destinationPort, destinationCountry)
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSurcharges struct {
	matchFn func(ctx context.Context, totalVolume decimal.Decimal) (*models.VolumeSurcharge, error)
}

func (s *stubSurcharges) Match(ctx context.Context, totalVolume decimal.Decimal) (*models.VolumeSurcharge, error) {
	if s.matchFn != nil {
		return s.matchFn(ctx, totalVolume)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "pricing-test", Output: io.Discard})
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func activeProduct() *models.Product {
	return &models.Product{
		ID:        uuid.New(),
		Name:      "CNC Milling Machine X200",
		Status:    enums.ProductStatusActive,
		PriceUnit: dec("100"),
		VolumeM3:  dec("0.5"),
		MOQ:       1,
	}
}

func spainParams() *countries.Resolution {
	return &countries.Resolution{
		Params: countries.Params{
			FreightCostPerM3:          dec("50"),
			MarineInsurancePercentage: dec("1"),
			DestinationVariableCost:   dec("5"),
			DestinationFixedCost:      dec("40"),
			DUACost:                   dec("20"),
			TariffPercentage:          dec("5"),
			VATPercentage:             dec("21"),
			OriginExpenses:            dec("30"),
			LocalDeliveryCost:         dec("0"),
		},
		Found: 9,
	}
}

func newTestService(product *models.Product, resolution *countries.Resolution, routes *stubRoutes, surcharges *stubSurcharges) Service {
	if routes == nil {
		routes = &stubRoutes{}
	}
	if surcharges == nil {
		surcharges = &stubSurcharges{}
	}
	return NewService(
		&stubProducts{findFn: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			if product == nil {
				return nil, gorm.ErrRecordNotFound
			}
			return product, nil
		}},
		&stubCountries{resolveFn: func(ctx context.Context, country string) (*countries.Resolution, error) {
			return resolution, nil
		}},
		routes,
		surcharges,
		testLogger(),
		nil,
	)
}

func validInput(productID uuid.UUID) CalculateInput {
	return CalculateInput{
		ProductID:          productID,
		Quantity:           10,
		DestinationCountry: "Spain",
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: got %s, want %s", name, got, want)
	}
}

func TestCalculateEndToEnd(t *testing.T) {
	product := activeProduct()
	svc := newTestService(product, spainParams(), nil, nil)

	calc, err := svc.Calculate(context.Background(), validInput(product.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := calc.Breakdown
	assertDecimal(t, "fob", b.FOB, "1000")
	assertDecimal(t, "total_volume_m3", b.TotalVolumeM3, "5")
	assertDecimal(t, "freight_base", b.FreightBase, "250")
	assertDecimal(t, "freight", b.Freight, "250")
	assertDecimal(t, "insurance", b.Insurance, "12.50")
	assertDecimal(t, "cif", b.CIF, "1262.50")
	assertDecimal(t, "destination_variable_total", b.DestinationVariableTotal, "25")
	assertDecimal(t, "destination_expenses", b.DestinationExpenses, "85")
	assertDecimal(t, "taxable_base", b.TaxableBase, "1365")
	assertDecimal(t, "tariff", b.Tariff, "68.25")
	assertDecimal(t, "vat", b.VAT, "301.08")
	assertDecimal(t, "total_without_taxes", b.TotalWithoutTaxes, "1347.50")
	assertDecimal(t, "buyer_fee", b.BuyerFee, "26.95")
	assertDecimal(t, "total", b.Total, "1761.28")

	if b.DiscountTier != DiscountTierNone {
		t.Fatalf("expected no discount tier, got %q", b.DiscountTier)
	}
	if calc.TransitInfo != nil {
		t.Fatalf("expected nil transit info without origin port")
	}
	if !calc.Metadata.MOQValidated {
		t.Fatal("expected moq_validated true")
	}
}

func TestCalculateDiscountHighestTierWins(t *testing.T) {
	product := activeProduct()
	product.DiscountQty3 = floatPtr(2)
	product.DiscountQty5 = floatPtr(5)
	product.DiscountQty8 = floatPtr(8)
	product.DiscountQty10 = floatPtr(12)
	svc := newTestService(product, spainParams(), nil, nil)

	input := validInput(product.ID)
	input.Quantity = 9

	calc, err := svc.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calc.Breakdown.DiscountTier != "8_units" {
		t.Fatalf("expected 8_units tier, got %q", calc.Breakdown.DiscountTier)
	}
	assertDecimal(t, "discount_applied", calc.Breakdown.DiscountApplied, "8")
	// 100 x 9 x 0.92
	assertDecimal(t, "fob", calc.Breakdown.FOB, "828")
}

func TestCalculateMOQBoundary(t *testing.T) {
	product := activeProduct()
	product.MOQ = 10
	svc := newTestService(product, spainParams(), nil, nil)

	input := validInput(product.ID)
	input.Quantity = 10
	if _, err := svc.Calculate(context.Background(), input); err != nil {
		t.Fatalf("quantity equal to moq should succeed, got %v", err)
	}

	input.Quantity = 9
	_, err := svc.Calculate(context.Background(), input)
	if err == nil {
		t.Fatal("expected error below moq")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeBelowMinimumOrder {
		t.Fatalf("expected below-minimum-order error, got %v", err)
	}
}

func TestCalculateProductNotFound(t *testing.T) {
	svc := newTestService(nil, spainParams(), nil, nil)
	_, err := svc.Calculate(context.Background(), validInput(uuid.New()))
	if err == nil {
		t.Fatal("expected error for missing product")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCalculateProductNotPriceable(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.Product)
		code   pkgerrors.Code
	}{
		{"inactive status", func(p *models.Product) { p.Status = enums.ProductStatusDraft }, pkgerrors.CodeInvalidState},
		{"zero volume", func(p *models.Product) { p.VolumeM3 = decimal.Zero }, pkgerrors.CodeInvalidProductData},
		{"zero price", func(p *models.Product) { p.PriceUnit = decimal.Zero }, pkgerrors.CodeInvalidProductData},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := activeProduct()
			tc.mutate(product)
			svc := newTestService(product, spainParams(), nil, nil)

			_, err := svc.Calculate(context.Background(), validInput(product.ID))
			if err == nil {
				t.Fatal("expected error")
			}
			if pkgerrors.As(err).Code() != tc.code {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
		})
	}
}

func TestCalculateUnsupportedDestination(t *testing.T) {
	product := activeProduct()
	svc := newTestService(product, &countries.Resolution{Missing: countries.ParamNames}, nil, nil)

	_, err := svc.Calculate(context.Background(), validInput(product.ID))
	if err == nil {
		t.Fatal("expected error for unconfigured country")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnsupportedDestination {
		t.Fatalf("expected unsupported-destination error, got %v", err)
	}
}

func TestCalculateMissingParamsLenient(t *testing.T) {
	product := activeProduct()
	resolution := spainParams()
	resolution.Found = 5
	resolution.Missing = []string{
		countries.ParamDestinationFixedCost,
		countries.ParamDUACost,
		countries.ParamOriginExpenses,
		countries.ParamLocalDeliveryCost,
	}
	resolution.Params.DestinationFixedCost = decimal.Zero
	resolution.Params.DUACost = decimal.Zero
	resolution.Params.OriginExpenses = decimal.Zero
	resolution.Params.LocalDeliveryCost = decimal.Zero
	svc := newTestService(product, resolution, nil, nil)

	calc, err := svc.Calculate(context.Background(), validInput(product.ID))
	if err != nil {
		t.Fatalf("partial configuration should still quote, got %v", err)
	}
	// taxable base drops to 1250 + 25 with all fixed costs zeroed
	assertDecimal(t, "taxable_base", calc.Breakdown.TaxableBase, "1275")
}

func TestCalculateInsuranceExcludesOriginExpenses(t *testing.T) {
	product := activeProduct()
	product.VolumeM3 = dec("0.2")
	resolution := spainParams()
	resolution.Params.OriginExpenses = dec("50")
	svc := newTestService(product, resolution, nil, nil)

	calc, err := svc.Calculate(context.Background(), validInput(product.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// fob 1000, freight 2m3 x 50 = 100; insured value is 1100, not 1150
	assertDecimal(t, "insurance", calc.Breakdown.Insurance, "11.00")
}

func TestCalculateSurchargeApplied(t *testing.T) {
	product := activeProduct()
	surcharges := &stubSurcharges{
		matchFn: func(ctx context.Context, totalVolume decimal.Decimal) (*models.VolumeSurcharge, error) {
			return &models.VolumeSurcharge{
				ID:                  uuid.New(),
				MinVolume:           dec("5"),
				MaxVolume:           nil,
				SurchargeAmount:     dec("40"),
				RequiresManualQuote: true,
				IsActive:            true,
			}, nil
		},
	}
	svc := newTestService(product, spainParams(), nil, surcharges)

	calc, err := svc.Calculate(context.Background(), validInput(product.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "volume_surcharge", calc.Breakdown.VolumeSurcharge, "40")
	assertDecimal(t, "freight", calc.Breakdown.Freight, "290")
	if calc.Metadata.VolumeSurchargeTier != "5+ m3" {
		t.Fatalf("unexpected tier label %q", calc.Metadata.VolumeSurchargeTier)
	}
	if !calc.Metadata.RequiresManualQuote {
		t.Fatal("expected requires_manual_quote true")
	}
}

func TestCalculateFastestRouteSelected(t *testing.T) {
	product := activeProduct()
	product.ProductionDays = intPtr(15)
	product.LogisticsDays = intPtr(3)
	override := dec("60")
	route := &models.ShippingRoute{
		ID:                 uuid.New(),
		OriginPort:         "Shanghai",
		DestinationCountry: "Spain",
		DestinationPort:    strPtr("Valencia"),
		MinDays:            20,
		MaxDays:            28,
		FreightCostPerM3:   &override,
		IsActive:           true,
		LastUpdated:        time.Now().UTC(),
	}
	routes := &stubRoutes{
		fastestFn: func(ctx context.Context, originPort, destinationCountry string) (*models.ShippingRoute, error) {
			return route, nil
		},
	}
	svc := newTestService(product, spainParams(), routes, nil)

	input := validInput(product.ID)
	input.OriginPort = "Shanghai"

	calc, err := svc.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// route override 60/m3 replaces the country default 50/m3
	assertDecimal(t, "freight_base", calc.Breakdown.FreightBase, "300")

	if calc.TransitInfo == nil {
		t.Fatal("expected transit info for resolved route")
	}
	if calc.TransitInfo.DestinationPort != "Valencia" {
		t.Fatalf("expected resolved destination port Valencia, got %q", calc.TransitInfo.DestinationPort)
	}
	if calc.TransitInfo.IsOutdated {
		t.Fatal("fresh route should not be outdated")
	}

	tl := calc.DeliveryTimeline
	if tl.TotalMinDays != 15+3+20+5 {
		t.Fatalf("unexpected total min days %d", tl.TotalMinDays)
	}
	if tl.TotalMaxDays != 15+3+28+7 {
		t.Fatalf("unexpected total max days %d", tl.TotalMaxDays)
	}
	if !tl.HasCompleteData {
		t.Fatal("expected complete timeline data")
	}
}

func TestCalculateOutdatedRouteFlagged(t *testing.T) {
	product := activeProduct()
	route := &models.ShippingRoute{
		ID:                 uuid.New(),
		OriginPort:         "Shanghai",
		DestinationCountry: "Spain",
		MinDays:            20,
		MaxDays:            28,
		IsActive:           true,
		LastUpdated:        time.Now().UTC().Add(-120 * 24 * time.Hour),
	}
	routes := &stubRoutes{
		fastestFn: func(ctx context.Context, originPort, destinationCountry string) (*models.ShippingRoute, error) {
			return route, nil
		},
	}
	svc := newTestService(product, spainParams(), routes, nil)

	input := validInput(product.ID)
	input.OriginPort = "Shanghai"

	calc, err := svc.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calc.TransitInfo == nil || !calc.TransitInfo.IsOutdated {
		t.Fatal("expected route to be flagged outdated")
	}
	// stale route still prices with the country default rate
	assertDecimal(t, "freight_base", calc.Breakdown.FreightBase, "250")
}

func TestCalculateExactRouteMissIsNotAnError(t *testing.T) {
	product := activeProduct()
	routes := &stubRoutes{
		exactFn: func(ctx context.Context, originPort, destinationPort, destinationCountry string) (*models.ShippingRoute, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(product, spainParams(), routes, nil)

	input := validInput(product.ID)
	input.OriginPort = "Shanghai"
	input.DestinationPort = "Valencia"

	calc, err := svc.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("unmapped route should still quote, got %v", err)
	}
	if calc.TransitInfo != nil {
		t.Fatal("expected nil transit info for unmapped route")
	}
	tl := calc.DeliveryTimeline
	if tl.MaritimeTransitMinDays != FallbackTransitMinDays || tl.MaritimeTransitMaxDays != FallbackTransitMaxDays {
		t.Fatalf("expected fallback transit, got %d/%d", tl.MaritimeTransitMinDays, tl.MaritimeTransitMaxDays)
	}
	if tl.HasCompleteData {
		t.Fatal("fallback transit should not be complete data")
	}
}

func TestCalculateNoDiscountBelowAllTiers(t *testing.T) {
	product := activeProduct()
	svc := newTestService(product, spainParams(), nil, nil)

	input := validInput(product.ID)
	input.Quantity = 2

	calc, err := svc.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calc.Breakdown.DiscountTier != DiscountTierNone {
		t.Fatalf("expected none tier, got %q", calc.Breakdown.DiscountTier)
	}
	assertDecimal(t, "discount_applied", calc.Breakdown.DiscountApplied, "0")
}

func assertDecimalFieldsSurvive(t *testing.T, name string, want, got any) {
	t.Helper()
	wv := reflect.ValueOf(want)
	gv := reflect.ValueOf(got)
	for i := 0; i < wv.NumField(); i++ {
		w, ok := wv.Field(i).Interface().(decimal.Decimal)
		if !ok {
			continue
		}
		g := gv.Field(i).Interface().(decimal.Decimal)
		if !w.Equal(g) {
			t.Fatalf("%s.%s changed across JSON round trip: %s != %s",
				name, wv.Type().Field(i).Name, w, g)
		}
	}
}

func richQuoteFixtures() (*models.Product, *stubRoutes, *stubSurcharges) {
	product := activeProduct()
	product.DiscountQty10 = floatPtr(10)
	product.HSCode = strPtr("8457.10")
	product.ProductionDays = intPtr(15)
	product.LogisticsDays = intPtr(3)

	override := dec("60")
	routes := &stubRoutes{
		exactFn: func(ctx context.Context, originPort, destinationPort, destinationCountry string) (*models.ShippingRoute, error) {
			return &models.ShippingRoute{
				ID:                 uuid.New(),
				OriginPort:         "Shanghai",
				DestinationCountry: "Spain",
				DestinationPort:    strPtr("Valencia"),
				MinDays:            20,
				MaxDays:            28,
				FreightCostPerM3:   &override,
				IsActive:           true,
				LastUpdated:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	surcharges := &stubSurcharges{
		matchFn: func(ctx context.Context, totalVolume decimal.Decimal) (*models.VolumeSurcharge, error) {
			return &models.VolumeSurcharge{
				ID:                  uuid.New(),
				MinVolume:           dec("5"),
				SurchargeAmount:     dec("40"),
				RequiresManualQuote: true,
				IsActive:            true,
			}, nil
		},
	}
	return product, routes, surcharges
}

func TestCalculationJSONRoundTrip(t *testing.T) {
	product, routes, surcharges := richQuoteFixtures()
	svc := newTestService(product, spainParams(), routes, surcharges)

	input := validInput(product.ID)
	input.Quantity = 12
	input.OriginPort = "Shanghai"
	input.DestinationPort = "Valencia"

	calc, err := svc.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, err := json.Marshal(calc)
	if err != nil {
		t.Fatalf("marshal calculation: %v", err)
	}
	var decoded Calculation
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal calculation: %v", err)
	}

	assertDecimalFieldsSurvive(t, "breakdown", calc.Breakdown, decoded.Breakdown)
	assertDecimalFieldsSurvive(t, "parameters", calc.Parameters, decoded.Parameters)
	assertDecimalFieldsSurvive(t, "metadata", calc.Metadata, decoded.Metadata)

	if decoded.ProductID != calc.ProductID || decoded.Quantity != calc.Quantity {
		t.Fatal("identity fields changed across JSON round trip")
	}
	if !decoded.CalculatedAt.Equal(calc.CalculatedAt) {
		t.Fatal("calculated_at changed across JSON round trip")
	}
	if decoded.DeliveryTimeline != calc.DeliveryTimeline {
		t.Fatalf("timeline changed across JSON round trip: %+v != %+v",
			decoded.DeliveryTimeline, calc.DeliveryTimeline)
	}
	if decoded.TransitInfo == nil || decoded.TransitInfo.DestinationPort != "Valencia" {
		t.Fatalf("transit info lost across JSON round trip: %+v", decoded.TransitInfo)
	}
	if decoded.Metadata.HSCode == nil || *decoded.Metadata.HSCode != "8457.10" {
		t.Fatal("hs_code lost across JSON round trip")
	}
	if decoded.Metadata.VolumeSurchargeTier != calc.Metadata.VolumeSurchargeTier {
		t.Fatal("surcharge tier label changed across JSON round trip")
	}
}

func TestCalculateDeterministic(t *testing.T) {
	product, routes, surcharges := richQuoteFixtures()
	svc := newTestService(product, spainParams(), routes, surcharges)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.(*service).now = func() time.Time { return fixed }

	input := validInput(product.ID)
	input.Quantity = 12
	input.OriginPort = "Shanghai"
	input.DestinationPort = "Valencia"

	first, err := svc.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input produced different quotes:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
