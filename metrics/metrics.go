package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var RegistrationStepCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "inc_registration_steps_total",
	Help: "The number of registration steps submitted by event, step and outcome",
}, []string{"event", "step", "outcome"})

var RegistrationsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "inc_registrations_completed_total",
	Help: "The number of registrations that reached the final step",
}, []string{"event"})

var EvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "inc_evaluations_total",
	Help: "The number of evaluation submissions by outcome",
}, []string{"event", "outcome"})

var NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "inc_notifications_total",
	Help: "The number of notifications by kind and final status",
}, []string{"kind", "status"})

var NotificationQueueGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "inc_notification_queue_size",
	Help: "Current number of notification ids buffered in the in-process queue",
})

var RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "inc_rate_limited_total",
	Help: "The number of requests rejected by the rate limiter",
}, []string{"path"})

var UploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "inc_upload_duration_seconds",
	Help: "Duration of file uploads to object storage",
	Buckets: []float64{
		0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10,
	},
})

var BackupRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "inc_backup_rows_total",
	Help: "The number of ticket rows copied to the backup database",
})
