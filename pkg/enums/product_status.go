package enums

import "fmt"

// ProductStatus tracks the lifecycle of a catalog listing. Only active
// products can be priced.
type ProductStatus string

const (
	ProductStatusDraft         ProductStatus = "draft"
	ProductStatusPendingReview ProductStatus = "pending_review"
	ProductStatusActive        ProductStatus = "active"
	ProductStatusPaused        ProductStatus = "paused"
	ProductStatusDiscontinued  ProductStatus = "discontinued"
)

var validProductStatuses = []ProductStatus{
	ProductStatusDraft,
	ProductStatusPendingReview,
	ProductStatusActive,
	ProductStatusPaused,
	ProductStatusDiscontinued,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
