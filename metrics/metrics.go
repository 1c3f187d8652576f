package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the booking and notification paths.
type Metrics struct {
	BookingsCreated     prometheus.Counter
	BookingsConfirmed   prometheus.Counter
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	ConfirmDuration     prometheus.Histogram
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "putzelf_bookings_created_total",
			Help: "Total number of bookings created",
		}),
		BookingsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "putzelf_bookings_confirmed_total",
			Help: "Total number of bookings confirmed",
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "putzelf_notifications_sent_total",
			Help: "Total number of confirmation emails delivered to the relay",
		}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "putzelf_notifications_failed_total",
			Help: "Total number of confirmation emails that failed to send",
		}),
		ConfirmDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "putzelf_confirm_duration_seconds",
			Help:    "Duration of ConfirmBooking operations including notification dispatch",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60},
		}),
	}
}

// ObserveConfirm records the duration of a ConfirmBooking operation.
// Call with time.Now() taken at the start of the operation.
func (m *Metrics) ObserveConfirm(start time.Time) {
	m.ConfirmDuration.Observe(time.Since(start).Seconds())
}
