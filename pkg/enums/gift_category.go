package enums

import "fmt"

// GiftCategory represents the fixed catalog categories a gift can be listed under.
type GiftCategory string

const (
	GiftCategoryDrinkware GiftCategory = "Drinkware"
	GiftCategoryApparel   GiftCategory = "Apparel"
	GiftCategoryTech      GiftCategory = "Tech Accessories"
	GiftCategoryEco       GiftCategory = "Eco-Friendly"
	GiftCategoryOffice    GiftCategory = "Office Supplies"
	GiftCategoryWellness  GiftCategory = "Wellness"
	GiftCategoryFood      GiftCategory = "Food & Beverage"
	GiftCategoryTravel    GiftCategory = "Travel"
)

var validGiftCategories = []GiftCategory{
	GiftCategoryDrinkware,
	GiftCategoryApparel,
	GiftCategoryTech,
	GiftCategoryEco,
	GiftCategoryOffice,
	GiftCategoryWellness,
	GiftCategoryFood,
	GiftCategoryTravel,
}

// String implements fmt.Stringer.
func (c GiftCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known GiftCategory.
func (c GiftCategory) IsValid() bool {
	for _, candidate := range validGiftCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseGiftCategory converts raw input into a GiftCategory.
func ParseGiftCategory(value string) (GiftCategory, error) {
	for _, candidate := range validGiftCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gift category %q", value)
}

// GiftCategories returns the catalog categories in display order.
func GiftCategories() []GiftCategory {
	return append([]GiftCategory(nil), validGiftCategories...)
}
