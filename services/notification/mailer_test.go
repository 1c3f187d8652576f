package notification

import (
	"context"
	"errors"
	"testing"

	"putzelf/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	transport Transport
	err       error
	calls     int
}

func (p *stubProvider) Transport(ctx context.Context) (Transport, error) {
	p.calls++
	return p.transport, p.err
}

func confirmedBooking() *models.Booking {
	return &models.Booking{
		ID:            "b-1",
		Location:      "Vienna",
		Date:          "2026-09-15",
		Time:          "09:00",
		DurationHours: 5,
		Category:      models.CategoryStandard,
		AddOns:        []models.AddOn{models.AddOnWindow},
		Renegotiate:   true,
		Price:         210,
		Status:        models.StatusConfirmed,
		CustomerName:  "Maria Musterfrau",
		Email:         "maria@example.com",
	}
}

func newTestMailer(provider TransportProvider) *DefaultMailNotificationService {
	return &DefaultMailNotificationService{
		Transports: provider,
		From:       "office@putzelf.com",
		OfficeCopy: "office@putzelf.com",
	}
}

func TestSendConfirmationFailsFastOnMissingInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Booking)
		missing []string
	}{
		{"missing recipient", func(b *models.Booking) { b.Email = "" }, []string{"email"}},
		{"missing date", func(b *models.Booking) { b.Date = "" }, []string{"date"}},
		{"missing time", func(b *models.Booking) { b.Time = "" }, []string{"time"}},
		{"missing everything", func(b *models.Booking) { b.Email = ""; b.Date = ""; b.Time = "" }, []string{"email", "date", "time"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{transport: &stubTransport{endpoint: "relay.test"}}
			svc := newTestMailer(provider)

			b := confirmedBooking()
			tt.mutate(b)

			_, err := svc.SendConfirmation(context.Background(), b)

			var inputErr *InvalidNotificationInputError
			require.ErrorAs(t, err, &inputErr)
			assert.ElementsMatch(t, tt.missing, inputErr.Missing)
			// No transport may be touched before input checks pass.
			assert.Zero(t, provider.calls)
		})
	}
}

func TestSendConfirmationBadRelayAddressIsConfigurationError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DefaultMailNotificationService)
		detail string
	}{
		{"bad sender", func(s *DefaultMailNotificationService) { s.From = "not an address" }, "sender address"},
		{"bad office copy", func(s *DefaultMailNotificationService) { s.OfficeCopy = "not an address" }, "office copy address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &stubTransport{endpoint: "relay.test"}
			svc := newTestMailer(&stubProvider{transport: transport})
			tt.mutate(svc)

			_, err := svc.SendConfirmation(context.Background(), confirmedBooking())

			// A malformed deployment address is an operator problem and must
			// not read as insufficient booking data.
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Detail, tt.detail)
			var inputErr *InvalidNotificationInputError
			assert.False(t, errors.As(err, &inputErr))
			assert.Zero(t, transport.sent)
		})
	}
}

func TestSendConfirmationPropagatesResolutionFailure(t *testing.T) {
	resErr := &TransportResolutionError{Endpoint: "192.0.2.10", Err: errors.New("refused")}
	svc := newTestMailer(&stubProvider{err: resErr})

	_, err := svc.SendConfirmation(context.Background(), confirmedBooking())

	var got *TransportResolutionError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, resErr, got)
}

func TestSendConfirmationSuccess(t *testing.T) {
	transport := &stubTransport{endpoint: "relay.test"}
	svc := newTestMailer(&stubProvider{transport: transport})

	result, err := svc.SendConfirmation(context.Background(), confirmedBooking())
	require.NoError(t, err)

	assert.Equal(t, 1, transport.sent)
	assert.NotEmpty(t, result.MessageID)
	assert.Equal(t, "relay.test", result.Endpoint)
}

func TestSendConfirmationWrapsDeliveryFailure(t *testing.T) {
	sendErr := errors.New("550 mailbox unavailable")
	transport := &stubTransport{endpoint: "relay.test", sendErr: sendErr}
	svc := newTestMailer(&stubProvider{transport: transport})

	_, err := svc.SendConfirmation(context.Background(), confirmedBooking())

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Contains(t, deliveryErr.Response, "550")
	assert.ErrorIs(t, err, sendErr)
}

func TestRenderTextContents(t *testing.T) {
	body := renderText(confirmedBooking())

	assert.Contains(t, body, "Dear Maria Musterfrau")
	assert.Contains(t, body, "2026-09-15")
	assert.Contains(t, body, "09:00")
	assert.Contains(t, body, "Standard Cleaning")
	assert.Contains(t, body, "Window Cleaning")
	assert.Contains(t, body, "5 hours")
	assert.Contains(t, body, "Renegotiate if longer: Yes")
	assert.Contains(t, body, "€210.00")
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	b := confirmedBooking()
	b.CustomerName = ""
	b.Location = ""
	b.AddOns = nil

	text := renderText(b)
	assert.Contains(t, text, "Dear Customer")
	assert.Contains(t, text, "Location:              N/A")

	html := renderHTML(b)
	assert.Contains(t, html, "Dear <strong>Customer</strong>")
	assert.Contains(t, html, "N/A")
}

func TestRenderLegacyCategoryLabel(t *testing.T) {
	b := confirmedBooking()
	b.Category = models.CategoryLegacy
	b.CategoryLabel = "Spring Deep Clean"

	assert.Contains(t, renderText(b), "Spring Deep Clean")
	assert.Contains(t, renderHTML(b), "Spring Deep Clean")
}
