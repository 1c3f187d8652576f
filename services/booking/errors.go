package booking

import "fmt"

// ValidationError indicates bad or missing client input. Mapped to a 400 at
// the HTTP edge and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError indicates an unknown booking id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %s not found", e.ID)
}

// NotificationError reports that a booking was confirmed but the confirmation
// notification could not be delivered. The booking transition is never rolled
// back on this error; confirmation and notification are separate failure
// domains.
type NotificationError struct {
	BookingID string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("booking %s confirmed but notification failed: %v", e.BookingID, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
