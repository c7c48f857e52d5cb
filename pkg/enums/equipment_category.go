package enums

import "fmt"

// EquipmentCategory represents the canonical industrial equipment categories.
type EquipmentCategory string

const (
	EquipmentCategoryMachining      EquipmentCategory = "machining"
	EquipmentCategoryPackaging      EquipmentCategory = "packaging"
	EquipmentCategoryFoodProcessing EquipmentCategory = "food_processing"
	EquipmentCategoryTextile        EquipmentCategory = "textile"
	EquipmentCategoryConstruction   EquipmentCategory = "construction"
	EquipmentCategoryAgriculture    EquipmentCategory = "agriculture"
	EquipmentCategoryEnergy         EquipmentCategory = "energy"
	EquipmentCategoryOther          EquipmentCategory = "other"
)

var validEquipmentCategories = []EquipmentCategory{
	EquipmentCategoryMachining,
	EquipmentCategoryPackaging,
	EquipmentCategoryFoodProcessing,
	EquipmentCategoryTextile,
	EquipmentCategoryConstruction,
	EquipmentCategoryAgriculture,
	EquipmentCategoryEnergy,
	EquipmentCategoryOther,
}

// String implements fmt.Stringer.
func (c EquipmentCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known EquipmentCategory.
func (c EquipmentCategory) IsValid() bool {
	for _, candidate := range validEquipmentCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseEquipmentCategory converts raw input into an EquipmentCategory.
func ParseEquipmentCategory(value string) (EquipmentCategory, error) {
	for _, candidate := range validEquipmentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid equipment category %q", value)
}
