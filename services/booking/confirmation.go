package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "putzelf/database/repository/booking"
	"putzelf/models"
	"putzelf/utils"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
	"go.uber.org/zap"
)

// defaultPhoneRegion resolves national phone numbers submitted without a
// country prefix.
const defaultPhoneRegion = "AT"

var validate = validator.New()

// ConfirmBooking attaches verified customer details to a booking, finalizes
// its price from the stored category and add-ons, persists the Confirmed
// state and dispatches the confirmation notification synchronously.
//
// A dispatch failure does not roll the booking back: the customer's booking
// must not be lost merely because the mail relay is unreachable. In that case
// the already-Confirmed booking is returned together with a
// *NotificationError.
//
// Confirming an already-Confirmed booking is allowed and re-sends the
// notification; the stored record ends up identical.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, id string, input models.ConfirmBookingInput) (*models.Booking, error) {
	if s.Metrics != nil {
		defer s.Metrics.ObserveConfirm(time.Now())
	}

	booking, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}

	if input.Name == "" {
		return nil, NewValidationError("name", "is required")
	}
	if input.Address == "" {
		return nil, NewValidationError("address", "is required")
	}
	if !input.GDPRConsent {
		return nil, NewValidationError("gdprConsent", "consent is required to confirm a booking")
	}
	if err := validate.Var(input.Email, "required,email"); err != nil {
		return nil, NewValidationError("email", "must be a valid email address")
	}
	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	// Reprice from the stored category, add-ons and duration; client-submitted
	// prices are never trusted.
	booking.Price = TotalPrice(booking.Category, booking.AddOns, booking.DurationHours)
	booking.CustomerName = input.Name
	booking.Email = input.Email
	booking.Address = input.Address
	booking.Phone = phone
	booking.GDPRConsent = true
	booking.Status = models.StatusConfirmed

	if err := s.Repo.Update(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to confirm booking %s: %w", id, err)
	}
	s.invalidateListCache(ctx)
	if s.Metrics != nil {
		s.Metrics.BookingsConfirmed.Inc()
	}

	result, err := s.NotificationSvc.SendConfirmation(ctx, booking)
	if err != nil {
		utils.GetLogger().Error("confirmation notification failed",
			zap.String("booking_id", booking.ID),
			zap.String("to", booking.Email),
			zap.Error(err),
		)
		if s.Metrics != nil {
			s.Metrics.NotificationsFailed.Inc()
		}
		return booking, &NotificationError{BookingID: booking.ID, Err: err}
	}
	if s.Metrics != nil {
		s.Metrics.NotificationsSent.Inc()
	}
	utils.GetLogger().Info("booking confirmed",
		zap.String("booking_id", booking.ID),
		zap.String("message_id", result.MessageID),
	)
	return booking, nil
}

// normalizePhone validates the customer phone and normalizes it to E.164.
func normalizePhone(raw string) (string, error) {
	if raw == "" {
		return "", NewValidationError("phone", "is required")
	}
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", NewValidationError("phone", "must be a valid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", NewValidationError("phone", "must be a valid phone number")
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
