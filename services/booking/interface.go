package booking

import (
	"context"

	bookingRepo "putzelf/database/repository/booking"
	"putzelf/metrics"
	"putzelf/models"
	"putzelf/services/notification"

	"github.com/go-redis/redis/v8"
)

// BookingService manages the booking lifecycle: a booking is created in state
// Requested and confirmed exactly once with customer details and consent.
type BookingService interface {
	CreateBooking(ctx context.Context, input models.CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	// ConfirmBooking attaches customer fields, recomputes the price from the
	// stored category and add-ons, persists the Confirmed state and then
	// dispatches the confirmation notification. When dispatch fails the
	// returned error is a *NotificationError and the booking, already
	// Confirmed, is still returned.
	ConfirmBooking(ctx context.Context, id string, input models.ConfirmBookingInput) (*models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo            bookingRepo.BookingRepository
	NotificationSvc notification.NotificationService
	CacheClient     *redis.Client // optional; nil skips list caching
	Metrics         *metrics.Metrics
}
