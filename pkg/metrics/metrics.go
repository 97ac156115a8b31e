// Package metrics expõe as métricas Prometheus do motor de métricas de vendas
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sales_metrics"

// Resultados possíveis de uma requisição de dashboard
const (
	DashboardOutcomeReal  = "real"
	DashboardOutcomeDemo  = "demo"
	DashboardOutcomeError = "error"
)

// Manager agrupa os coletores usados pelo gravador e pelo montador de dashboard
type Manager struct {
	registry *prometheus.Registry

	eventsRecorded  *prometheus.CounterVec
	eventsDuplicate prometheus.Counter
	eventsRejected  *prometheus.CounterVec
	writeConflicts  prometheus.Counter
	writeFailures   prometheus.Counter

	dashboardRequests *prometheus.CounterVec
	dashboardLatency  prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewManager cria os coletores em um registry próprio
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Manager{
		registry: registry,
		eventsRecorded: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "events_recorded_total",
			Help:      "Eventos aplicados ao counter store, por tipo",
		}, []string{"type"}),
		eventsDuplicate: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "events_duplicate_total",
			Help:      "Eventos ignorados por já terem sido aplicados",
		}),
		eventsRejected: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "events_rejected_total",
			Help:      "Eventos rejeitados na validação, por tipo",
		}, []string{"type"}),
		writeConflicts: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "write_conflicts_total",
			Help:      "Conflitos de escrita concorrente que provocaram nova tentativa",
		}),
		writeFailures: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "write_failures_total",
			Help:      "Escritas que falharam após esgotar as tentativas",
		}),
		dashboardRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "requests_total",
			Help:      "Dashboards montados, por resultado (real, demo, error)",
		}, []string{"outcome"}),
		dashboardLatency: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "assembly_duration_seconds",
			Help:      "Tempo de montagem do dashboard",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requisições HTTP atendidas, por método e classe de status",
		}, []string{"method", "status"}),
		httpLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duração das requisições HTTP, por método",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Handler retorna o handler HTTP de exposição das métricas
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) EventRecorded(eventType string) {
	if m == nil {
		return
	}
	m.eventsRecorded.WithLabelValues(eventType).Inc()
}

func (m *Manager) EventDuplicate() {
	if m == nil {
		return
	}
	m.eventsDuplicate.Inc()
}

func (m *Manager) EventRejected(eventType string) {
	if m == nil {
		return
	}
	m.eventsRejected.WithLabelValues(eventType).Inc()
}

func (m *Manager) WriteConflict() {
	if m == nil {
		return
	}
	m.writeConflicts.Inc()
}

func (m *Manager) WriteFailure() {
	if m == nil {
		return
	}
	m.writeFailures.Inc()
}

func (m *Manager) DashboardServed(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dashboardRequests.WithLabelValues(outcome).Inc()
	m.dashboardLatency.Observe(duration.Seconds())
}

// RequestServed registra uma requisição HTTP; o status é agrupado por classe (2xx, 4xx...)
// para manter a cardinalidade baixa
func (m *Manager) RequestServed(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, statusClass(status)).Inc()
	m.httpLatency.WithLabelValues(method).Observe(duration.Seconds())
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
