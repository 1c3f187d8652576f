package notification

import (
	"fmt"
	"strings"
)

// ConfigurationError reports incomplete or unusable relay settings. It is
// detected before any network attempt so operators can tell a bad deployment
// from a bad relay. Missing lists absent settings; Detail describes a setting
// that is present but invalid.
type ConfigurationError struct {
	Missing []string
	Detail  string
}

func (e *ConfigurationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("mail relay configuration invalid: %s", e.Detail)
	}
	return fmt.Sprintf("mail relay configuration incomplete: missing %s", strings.Join(e.Missing, ", "))
}

// TransportResolutionError means the relay was unreachable under every
// fallback tier. The cached resolver keeps returning it until the process
// restarts.
type TransportResolutionError struct {
	Endpoint string // endpoint of the final attempt
	Err      error
}

func (e *TransportResolutionError) Error() string {
	return fmt.Sprintf("mail relay unreachable (last attempt %s): %v", e.Endpoint, e.Err)
}

func (e *TransportResolutionError) Unwrap() error { return e.Err }

// InvalidNotificationInputError reports booking data insufficient to notify,
// caught before any network I/O.
type InvalidNotificationInputError struct {
	Missing []string
}

func (e *InvalidNotificationInputError) Error() string {
	return fmt.Sprintf("booking data insufficient for notification: missing %s", strings.Join(e.Missing, ", "))
}

// DeliveryError means the relay was reachable but the send was rejected or
// aborted. Response carries the lower-level SMTP detail when available.
type DeliveryError struct {
	Response string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mail delivery failed: %s", e.Response)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
