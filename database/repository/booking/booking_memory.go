package bookingRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"putzelf/models"

	"github.com/google/uuid"
)

// InMemoryBookingRepo implements BookingRepository with an in-memory map.
// Used by tests and deps-free local runs; production uses the Mongo repo.
type InMemoryBookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
}

// NewInMemoryBookingRepo creates a new in-memory booking repository.
func NewInMemoryBookingRepo() *InMemoryBookingRepo {
	return &InMemoryBookingRepo{
		bookings: make(map[string]models.Booking),
	}
}

func (r *InMemoryBookingRepo) Create(ctx context.Context, booking *models.Booking) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	r.bookings[booking.ID] = *booking
	return booking.ID, nil
}

func (r *InMemoryBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &booking, nil
}

func (r *InMemoryBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if filter.Location != "" && b.Location != filter.Location {
			continue
		}
		if filter.Date != "" && b.Date != filter.Date {
			continue
		}
		if filter.Category != "" && b.Category != filter.Category {
			continue
		}
		if filter.CategoryLabel != "" && b.CategoryLabel != filter.CategoryLabel {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; !ok {
		return ErrNotFound
	}
	booking.UpdatedAt = time.Now()
	r.bookings[booking.ID] = *booking
	return nil
}
