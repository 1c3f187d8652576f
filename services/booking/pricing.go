package booking

import "putzelf/models"

// Hourly rates in EUR. Standard and apartment/hotel cleanings support up to
// two premium add-ons, each raising the rate a tier. Every other category is
// billed at the base rate regardless of add-ons.
const (
	BaseHourlyRate      = 30.0
	OneAddOnHourlyRate  = 42.0
	TwoAddOnsHourlyRate = 48.0
)

// HourlyRate returns the hourly rate for a category with the given number of
// selected add-ons.
func HourlyRate(category models.CleaningCategory, addOnCount int) float64 {
	if !category.SupportsAddOns() {
		return BaseHourlyRate
	}
	switch {
	case addOnCount <= 0:
		return BaseHourlyRate
	case addOnCount == 1:
		return OneAddOnHourlyRate
	default:
		return TwoAddOnsHourlyRate
	}
}

// TotalPrice computes the booking price as duration times the hourly rate.
// Callers are responsible for enforcing the minimum duration beforehand.
func TotalPrice(category models.CleaningCategory, addOns []models.AddOn, durationHours int) float64 {
	return float64(durationHours) * HourlyRate(category, len(addOns))
}
