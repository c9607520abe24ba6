package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labslot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labslot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PracticesScheduledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labslot_practices_scheduled_total",
			Help: "Total number of practice scheduling attempts",
		},
		[]string{"outcome"},
	)

	ScheduleConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "labslot_schedule_conflicts_total",
			Help: "Total number of rejected overlapping bookings",
		},
	)

	LoansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labslot_loans_total",
			Help: "Total number of equipment loan operations",
		},
		[]string{"action", "outcome"},
	)

	ShiftEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labslot_shift_events_total",
			Help: "Total number of monitor shift transitions",
		},
		[]string{"type", "outcome"},
	)

	AttendanceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labslot_attendance_total",
			Help: "Total number of attendance registration attempts",
		},
		[]string{"outcome"},
	)

	EmailsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labslot_emails_queued_total",
			Help: "Total number of notification emails queued",
		},
		[]string{"type"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "labslot_email_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPracticeScheduled(outcome string) {
	PracticesScheduledTotal.WithLabelValues(outcome).Inc()
}

func RecordScheduleConflict() {
	ScheduleConflictsTotal.Inc()
}

func RecordLoan(action, outcome string) {
	LoansTotal.WithLabelValues(action, outcome).Inc()
}

func RecordShiftEvent(eventType, outcome string) {
	ShiftEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

func RecordAttendance(outcome string) {
	AttendanceTotal.WithLabelValues(outcome).Inc()
}

func RecordEmailQueued(emailType string) {
	EmailsQueuedTotal.WithLabelValues(emailType).Inc()
}
