package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bookingRepo "putzelf/database/repository/booking"
	"putzelf/models"
	"putzelf/utils"

	"go.uber.org/zap"
)

const (
	listCacheKey = "bookings:list"
	listCacheTTL = 30 * time.Second
)

// CreateBooking validates the request, prices it and persists a new booking
// in state Requested.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, input models.CreateBookingInput) (*models.Booking, error) {
	if input.Date == "" {
		return nil, NewValidationError("date", "is required")
	}
	if input.Time == "" {
		return nil, NewValidationError("time", "is required")
	}
	if input.DurationHours <= 0 {
		return nil, NewValidationError("durationHours", "is required")
	}
	if input.Category == "" {
		return nil, NewValidationError("typeOfCleaning", "is required")
	}

	category := models.ParseCategory(input.Category)
	var label string
	if category == models.CategoryLegacy {
		label = input.Category
	}

	// The booking form clamps short requests to the minimum; do the same here
	// so a bypassing client cannot book below it.
	duration := input.DurationHours
	if duration < models.MinDurationHours {
		duration = models.MinDurationHours
	}

	addOns, err := parseAddOns(category, input.AddOns)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Location:      input.Location,
		Date:          input.Date,
		Time:          input.Time,
		DurationHours: duration,
		Category:      category,
		CategoryLabel: label,
		AddOns:        addOns,
		Renegotiate:   input.Renegotiate,
		Price:         TotalPrice(category, addOns, duration),
		Status:        models.StatusRequested,
	}

	if _, err := s.Repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	s.invalidateListCache(ctx)
	if s.Metrics != nil {
		s.Metrics.BookingsCreated.Inc()
	}

	utils.GetLogger().Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("category", string(booking.Category)),
		zap.Float64("price", booking.Price),
	)
	return booking, nil
}

// GetBooking returns a booking by id.
func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return booking, nil
}

// ListBookings returns bookings matching the filter, newest first. Unfiltered
// lists are served from a short-lived cache when a cache client is wired.
func (s *DefaultBookingService) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	cacheable := filter == (models.BookingFilter{}) && s.CacheClient != nil

	if cacheable {
		if cached, err := s.CacheClient.Get(ctx, listCacheKey).Result(); err == nil {
			var bookings []models.Booking
			if err := json.Unmarshal([]byte(cached), &bookings); err == nil {
				return bookings, nil
			}
		}
	}

	bookings, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	if cacheable {
		if data, err := json.Marshal(bookings); err == nil {
			if err := s.CacheClient.Set(ctx, listCacheKey, data, listCacheTTL).Err(); err != nil {
				utils.GetLogger().Debug("failed to cache booking list", zap.Error(err))
			}
		}
	}
	return bookings, nil
}

func (s *DefaultBookingService) invalidateListCache(ctx context.Context) {
	if s.CacheClient == nil {
		return
	}
	if err := s.CacheClient.Del(ctx, listCacheKey).Err(); err != nil {
		utils.GetLogger().Debug("failed to invalidate booking list cache", zap.Error(err))
	}
}

func parseAddOns(category models.CleaningCategory, raw []string) ([]models.AddOn, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	// Add-ons only carry meaning for categories that price them.
	if !category.SupportsAddOns() {
		return nil, nil
	}
	seen := make(map[models.AddOn]bool, len(raw))
	var addOns []models.AddOn
	for _, r := range raw {
		a := models.AddOn(r)
		if !models.ValidAddOn(a) {
			return nil, NewValidationError("addOns", fmt.Sprintf("unknown add-on %q", r))
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		addOns = append(addOns, a)
	}
	return addOns, nil
}
