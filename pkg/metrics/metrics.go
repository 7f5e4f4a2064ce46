package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Custom histogram buckets for API response times ranging from milliseconds to 30+ seconds
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics (PostgreSQL)
	DBClientOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBClientOperationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Storage Client Metrics (S3-compatible object storage)
	StorageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Session Metrics
	SessionGateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certiswift_session_gate_decisions_total",
			Help: "Admin session gate decisions",
		},
		[]string{"decision"}, // "pass", "missing", "malformed", "invalid"
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "certiswift_admin_sessions_active",
			Help: "Number of admin sessions held in the session store",
		},
	)

	// Business Metrics
	AdminLogins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certiswift_admin_logins_total",
			Help: "Total admin login attempts",
		},
		[]string{"status"},
	)

	CourseMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certiswift_course_mutations_total",
			Help: "Total course create/update/delete operations",
		},
		[]string{"operation", "status"},
	)

	RatingSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certiswift_rating_submissions_total",
			Help: "Total rating submissions",
		},
		[]string{"status"},
	)

	ImageUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certiswift_image_uploads_total",
			Help: "Total course image uploads",
		},
		[]string{"status"},
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// RecordDBOperation records duration and outcome of a database client call
func RecordDBOperation(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DBClientOperationDuration.WithLabelValues(operation, status).Observe(MeasureDuration(start))
	DBClientOperationTotal.WithLabelValues(operation, status).Inc()
}
