package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus коллекторов сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration   *prometheus.HistogramVec
	DBQueriesTotal    *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	// Бизнес-метрики
	AvailabilityDecisions *prometheus.CounterVec
	DiscountsApplied      *prometheus.CounterVec
	BookingsCreated       *prometheus.CounterVec
}

// New создает и регистрирует коллекторы в стандартном регистре
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает коллекторы и регистрирует их в переданном регистре
// Используется в тестах с prometheus.NewRegistry()
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		AvailabilityDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_decisions_total",
			Help:        "Availability check outcomes by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		DiscountsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pack_discounts_applied_total",
			Help:        "Number of applied pack discounts by rule",
			ConstLabels: constLabels,
		}, []string{"rule"}),

		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Number of bookings inserted",
			ConstLabels: constLabels,
		}, []string{"source"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueriesTotal,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.AvailabilityDecisions,
		m.DiscountsApplied,
		m.BookingsCreated,
	)

	return m
}

// RecordAvailability увеличивает счетчик решений доступности
// Безопасен для nil (метрики выключены)
func (m *Metrics) RecordAvailability(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "AVAILABLE"
	}
	m.AvailabilityDecisions.WithLabelValues(reason).Inc()
}

// RecordDiscount увеличивает счетчик примененных скидок
func (m *Metrics) RecordDiscount(rule string) {
	if m == nil {
		return
	}
	m.DiscountsApplied.WithLabelValues(rule).Inc()
}

// RecordBookings увеличивает счетчик созданных бронирований
func (m *Metrics) RecordBookings(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BookingsCreated.WithLabelValues(source).Add(float64(n))
}
