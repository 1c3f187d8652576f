package bookingRepo

import (
	"context"

	"putzelf/models"
)

// BookingRepository is the keyed-record store for bookings. It carries no
// business rules; validation and pricing live in the booking service.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
}

// ErrNotFound is returned by GetByID and Update when no record matches the id.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "booking not found" }
