package models

import "time"

// BookingStatus captures the booking lifecycle. A booking starts as Requested
// and moves to Confirmed exactly once; no later transition exists.
type BookingStatus string

const (
	StatusRequested BookingStatus = "Requested"
	StatusConfirmed BookingStatus = "Confirmed"
)

// CleaningCategory is the closed set of cleaning types offered.
// CategoryLegacy retains free-form labels submitted by older clients;
// those are priced at the base rate.
type CleaningCategory string

const (
	CategoryStandard         CleaningCategory = "Standard"
	CategoryOffice           CleaningCategory = "Office"
	CategoryApartmentOrHotel CleaningCategory = "ApartmentOrHotel"
	CategoryLegacy           CleaningCategory = "Legacy"
)

// ParseCategory maps a submitted cleaning-type label onto the enum. Labels from
// older clients ("Standard Cleaning", "Büroreinigung", ...) map onto the known
// categories where recognizable; anything else parses as CategoryLegacy.
func ParseCategory(label string) CleaningCategory {
	switch label {
	case "Standard", "Standard Cleaning", "standard":
		return CategoryStandard
	case "Office", "Office Cleaning", "office":
		return CategoryOffice
	case "ApartmentOrHotel", "Apartment/Hotel Cleaning", "apartmentHotel":
		return CategoryApartmentOrHotel
	default:
		return CategoryLegacy
	}
}

// SupportsAddOns reports whether add-ons affect the hourly rate for c.
func (c CleaningCategory) SupportsAddOns() bool {
	return c == CategoryStandard || c == CategoryApartmentOrHotel
}

// AddOn is a premium service component that raises the hourly rate for
// eligible categories.
type AddOn string

const (
	AddOnIntensive AddOn = "intensive"
	AddOnWindow    AddOn = "window"
)

// DisplayName returns the human-readable add-on name used in notifications.
func (a AddOn) DisplayName() string {
	switch a {
	case AddOnIntensive:
		return "Intensive Cleaning"
	case AddOnWindow:
		return "Window Cleaning"
	default:
		return string(a)
	}
}

// ValidAddOn reports whether a is a known add-on.
func ValidAddOn(a AddOn) bool {
	return a == AddOnIntensive || a == AddOnWindow
}

// MinDurationHours is the domain-enforced minimum booking duration.
const MinDurationHours = 3

// Booking represents a cleaning booking record through its lifecycle.
type Booking struct {
	ID            string           `bson:"id" json:"id"`
	Location      string           `bson:"location,omitempty" json:"location,omitempty"`
	Date          string           `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time          string           `bson:"time" json:"time"` // "HH:MM"
	DurationHours int              `bson:"duration_hours" json:"durationHours"`
	Category      CleaningCategory `bson:"category" json:"category"`
	CategoryLabel string           `bson:"category_label,omitempty" json:"categoryLabel,omitempty"` // raw label for legacy categories
	AddOns        []AddOn          `bson:"add_ons,omitempty" json:"addOns,omitempty"`
	Renegotiate   bool             `bson:"renegotiate" json:"renegotiate"`
	Price         float64          `bson:"price" json:"price"`
	Status        BookingStatus    `bson:"status" json:"status"`

	// Customer fields, populated at confirmation.
	CustomerName string `bson:"customer_name,omitempty" json:"customerName,omitempty"`
	Email        string `bson:"email,omitempty" json:"email,omitempty"`
	Address      string `bson:"address,omitempty" json:"address,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"` // E.164 normalized
	GDPRConsent  bool   `bson:"gdpr_consent" json:"gdprConsent"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CategoryDisplay returns the category label shown to customers, preferring
// the raw legacy label when one was recorded.
func (b *Booking) CategoryDisplay() string {
	if b.Category == CategoryLegacy && b.CategoryLabel != "" {
		return b.CategoryLabel
	}
	switch b.Category {
	case CategoryStandard:
		return "Standard Cleaning"
	case CategoryOffice:
		return "Office Cleaning"
	case CategoryApartmentOrHotel:
		return "Apartment/Hotel Cleaning"
	default:
		return string(b.Category)
	}
}

// CreateBookingInput carries the fields accepted when a booking is requested.
type CreateBookingInput struct {
	Location      string   `json:"location"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	DurationHours int      `json:"durationHours"`
	Category      string   `json:"typeOfCleaning"`
	AddOns        []string `json:"addOns"`
	Renegotiate   bool     `json:"renegotiate"`
}

// ConfirmBookingInput carries the customer fields attached at confirmation.
type ConfirmBookingInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	GDPRConsent bool   `json:"gdprConsent"`
}

// BookingFilter narrows list queries. Zero values mean "no filter".
// CategoryLabel carries the raw submitted label when Category is
// CategoryLegacy, so a legacy filter matches one label, not all of them.
type BookingFilter struct {
	Location      string
	Date          string
	Category      CleaningCategory
	CategoryLabel string
}
