// Package metrics agrupa los collectors Prometheus del servicio.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contiene todos los collectors. Se crea una vez en el wiring y se
// inyecta en middlewares y services.
type Metrics struct {
	reg      prometheus.Registerer
	gatherer prometheus.Gatherer

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInflight        prometheus.Gauge

	// Signup
	PasswordEvaluations *prometheus.CounterVec // source: form|stateless
	RuleFailures        *prometheus.CounterVec // rule_id
	Submissions         *prometheus.CounterVec // result: accepted|rejected
	NoticeTransitions   *prometheus.CounterVec // state: shown|idle
	RateLimited         prometheus.Counter
}

// New crea y registra los collectors en reg. Si reg es nil usa un registry
// nuevo (no el global), útil en tests.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		reg:      reg,
		gatherer: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo",
		}),
		PasswordEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_password_evaluations_total",
			Help: "Evaluaciones completas del catálogo de reglas",
		}, []string{"source"}),
		RuleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_rule_failures_total",
			Help: "Reglas insatisfechas por evaluación",
		}, []string{"rule_id"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_submissions_total",
			Help: "Intentos de envío por resultado",
		}, []string{"result"}),
		NoticeTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_notice_transitions_total",
			Help: "Transiciones del aviso transitorio",
		}, []string{"state"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rechazadas por rate limit",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.HTTPRequestsTotal, m.HTTPRequestDuration, m.HTTPInflight,
		m.PasswordEvaluations, m.RuleFailures, m.Submissions, m.NoticeTransitions, m.RateLimited,
	} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RegisterGauge registra un gauge calculado al momento del scrape
// (ej: sesiones activas).
func (m *Metrics) RegisterGauge(name, help string, fn func() float64) error {
	return registerCollector(m.reg, prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, fn))
}

// Handler devuelve el handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// registerCollector registra el collector, ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}
