package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса.
// Методы записи безопасны для nil-получателя, чтобы компоненты работали без метрик.
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueriesTotal     *prometheus.CounterVec
	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	// Доменные метрики
	RestrictionsMerged    *prometheus.CounterVec
	LosAutomationOutcomes *prometheus.CounterVec
	PmsPushRecords        *prometheus.CounterVec
	JobUnits              *prometheus.CounterVec
}

// New создает и регистрирует метрики в реестре по умолчанию
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of open connections",
			ConstLabels: constLabels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections in use",
			ConstLabels: constLabels,
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),
		RestrictionsMerged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "restrictions_merged_total",
			Help:        "Restrictions created or removed by the merge engine",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		LosAutomationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "los_automation_room_products_total",
			Help:        "Room products processed by LOS automation",
			ConstLabels: constLabels,
		}, []string{"result"}),
		PmsPushRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pms_push_records_total",
			Help:        "Restriction records considered for PMS push",
			ConstLabels: constLabels,
		}, []string{"result"}),
		JobUnits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "job_units_total",
			Help:        "Units of work processed by scheduled jobs",
			ConstLabels: constLabels,
		}, []string{"job", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.RestrictionsMerged,
		m.LosAutomationOutcomes,
		m.PmsPushRecords,
		m.JobUnits,
	)

	return m
}

// ObserveMerge учитывает результат слияния ограничений
func (m *Metrics) ObserveMerge(created, removed int) {
	if m == nil {
		return
	}
	m.RestrictionsMerged.WithLabelValues("created").Add(float64(created))
	m.RestrictionsMerged.WithLabelValues("removed").Add(float64(removed))
}

// ObserveLosAutomation учитывает исход автоматизации для одного room product
func (m *Metrics) ObserveLosAutomation(result string) {
	if m == nil {
		return
	}
	m.LosAutomationOutcomes.WithLabelValues(result).Inc()
}

// ObservePmsPush учитывает отправленные и отброшенные записи
func (m *Metrics) ObservePmsPush(pushed, dropped int) {
	if m == nil {
		return
	}
	m.PmsPushRecords.WithLabelValues("pushed").Add(float64(pushed))
	m.PmsPushRecords.WithLabelValues("dropped").Add(float64(dropped))
}

// ObserveJobUnit учитывает результат обработки одной единицы работы задачи
func (m *Metrics) ObserveJobUnit(job, result string) {
	if m == nil {
		return
	}
	m.JobUnits.WithLabelValues(job, result).Inc()
}
