package notification

import (
	"context"
	"errors"
	"fmt"

	"putzelf/models"
	"putzelf/utils"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// TransportProvider hands out the process-wide transport handle, resolving it
// lazily on first use.
type TransportProvider interface {
	Transport(ctx context.Context) (Transport, error)
}

// DefaultMailNotificationService renders booking confirmations and sends them
// through the resolved transport.
type DefaultMailNotificationService struct {
	Transports TransportProvider
	From       string // sender address
	OfficeCopy string // bcc'd on every confirmation; empty disables the copy
}

// SendConfirmation renders and sends the confirmation mail for a booking in a
// single attempt. Resolution errors, input errors and delivery errors all
// come back typed; the caller decides what, if anything, to retry.
func (s *DefaultMailNotificationService) SendConfirmation(ctx context.Context, booking *models.Booking) (*Result, error) {
	var missing []string
	if booking.Email == "" {
		missing = append(missing, "email")
	}
	if booking.Date == "" {
		missing = append(missing, "date")
	}
	if booking.Time == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return nil, &InvalidNotificationInputError{Missing: missing}
	}

	transport, err := s.Transports.Transport(ctx)
	if err != nil {
		return nil, err
	}

	msg, msgID, err := s.buildMessage(booking)
	if err != nil {
		return nil, err
	}

	if err := transport.Send(ctx, msg); err != nil {
		return nil, &DeliveryError{Response: smtpDetail(err), Err: err}
	}

	utils.GetLogger().Info("confirmation email sent",
		zap.String("booking_id", booking.ID),
		zap.String("to", booking.Email),
		zap.String("message_id", msgID),
		zap.String("endpoint", transport.Endpoint()),
	)
	return &Result{MessageID: msgID, Endpoint: transport.Endpoint()}, nil
}

func (s *DefaultMailNotificationService) buildMessage(booking *models.Booking) (*mail.Msg, string, error) {
	msg := mail.NewMsg()
	// Sender and office copy come from deployment config; a parse failure
	// there is an operator problem, not a booking-data problem.
	if err := msg.FromFormat("PutzELF", s.From); err != nil {
		return nil, "", &ConfigurationError{Detail: fmt.Sprintf("sender address %q: %v", s.From, err)}
	}
	if err := msg.To(booking.Email); err != nil {
		return nil, "", &InvalidNotificationInputError{Missing: []string{"email"}}
	}
	if s.OfficeCopy != "" {
		if err := msg.Bcc(s.OfficeCopy); err != nil {
			return nil, "", &ConfigurationError{Detail: fmt.Sprintf("office copy address %q: %v", s.OfficeCopy, err)}
		}
	}

	msgID := fmt.Sprintf("%s@putzelf.com", uuid.New().String())
	msg.SetMessageIDWithValue(msgID)
	msg.Subject(confirmationSubject)
	msg.SetBodyString(mail.TypeTextPlain, renderText(booking))
	msg.AddAlternativeString(mail.TypeTextHTML, renderHTML(booking))
	return msg, msgID, nil
}

// smtpDetail extracts the SMTP-level detail from a send failure when the
// library provides one.
func smtpDetail(err error) string {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		return sendErr.Error()
	}
	return err.Error()
}
