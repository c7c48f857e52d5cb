package pricing

import (
	"fmt"
	"regexp"

	"github.com/machbridge/machbridge-backend/pkg/errors"
)

const (
	// MaxQuantity is the hard ceiling on a single quote's quantity.
	MaxQuantity = 1_000_000

	minCountryLen = 2
	maxCountryLen = 100
)

var countryNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z \-]*$`)

// ValidateInput rejects malformed requests before any lookup runs. Field-level
// detail stays in the error message for logs; the public response only carries
// the generic validation text.
func ValidateInput(input CalculateInput) error {
	if input.Quantity <= 0 {
		return errors.New(errors.CodeValidation, "quantity must be a positive integer")
	}
	if input.Quantity > MaxQuantity {
		return errors.New(errors.CodeValidation, fmt.Sprintf("quantity exceeds maximum of %d", MaxQuantity))
	}
	if err := validateCountry(input.DestinationCountry); err != nil {
		return err
	}
	if input.DestinationPort != "" {
		if len(input.DestinationPort) < 2 || len(input.DestinationPort) > 100 {
			return errors.New(errors.CodeValidation, "destination_port must be 2-100 characters")
		}
	}
	if input.OriginPort != "" {
		if len(input.OriginPort) < 2 || len(input.OriginPort) > 100 {
			return errors.New(errors.CodeValidation, "origin_port must be 2-100 characters")
		}
	}
	return nil
}

func validateCountry(country string) error {
	if len(country) < minCountryLen || len(country) > maxCountryLen {
		return errors.New(errors.CodeValidation, "destination_country must be 2-100 characters")
	}
	if !countryNamePattern.MatchString(country) {
		return errors.New(errors.CodeValidation, "destination_country may only contain letters, spaces, and hyphens")
	}
	return nil
}
