package notification

import (
	"context"

	"putzelf/models"
)

// Result reports a successful dispatch.
type Result struct {
	MessageID string `json:"messageId"`
	Endpoint  string `json:"endpoint"` // relay endpoint the message was handed to
}

// NotificationService can deliver a rendered confirmation for a booking.
// Implementations perform a single send attempt; retrying is the caller's
// decision.
type NotificationService interface {
	SendConfirmation(ctx context.Context, booking *models.Booking) (*Result, error)
}
