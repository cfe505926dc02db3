// Package router arma el árbol de rutas HTTP (chi).
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	healthctrl "github.com/dropDatabas3/signupform/internal/http/controllers/health"
	signupctrl "github.com/dropDatabas3/signupform/internal/http/controllers/signup"
	httperrors "github.com/dropDatabas3/signupform/internal/http/errors"
	mw "github.com/dropDatabas3/signupform/internal/http/middlewares"
	"github.com/dropDatabas3/signupform/internal/metrics"
	"github.com/dropDatabas3/signupform/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Signup *signupctrl.Controllers
	Health *healthctrl.Controllers
	// Opcionales
	Metrics *metrics.Metrics
	// MetricsPath expone Metrics.Handler(); vacío no monta el endpoint.
	MetricsPath string
	RateLimiter rate.Limiter
	// Peers cuyo X-Forwarded-For define la clave del rate limit.
	TrustedProxies mw.TrustedProxies
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithMetrics(d.Metrics),
		mw.WithLogging(),
	)...)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	if d.Health != nil {
		r.Get("/healthz", d.Health.Health.Live)
		r.Get("/readyz", d.Health.Health.Ready)
	}
	if d.Metrics != nil && d.MetricsPath != "" {
		r.Method(http.MethodGet, d.MetricsPath, mw.Chain(d.Metrics.Handler(), mw.WithNoStore()))
	}

	r.Route("/v1/signup", func(r chi.Router) {
		registerSignupRoutes(r, d)
	})
	return r
}

// registerSignupRoutes registra las rutas del formulario. Todas son no-store
// y pasan por el rate limit por IP si está configurado.
func registerSignupRoutes(r chi.Router, d Deps) {
	var onReject func()
	if d.Metrics != nil {
		onReject = d.Metrics.RateLimited.Inc
	}
	var limiter mw.Middleware
	if d.RateLimiter != nil {
		limiter = mw.WithRateLimit(mw.RateLimitConfig{
			Limiter:  d.RateLimiter,
			KeyFunc:  d.TrustedProxies.ClientIP,
			OnReject: onReject,
		})
	}
	r.Use(mw.Use(mw.WithNoStore(), limiter)...)

	c := d.Signup
	r.Get("/rules", c.Rules.List)
	r.Post("/evaluate", c.Rules.Evaluate)

	r.Post("/forms", c.Forms.Create)
	r.Route("/forms/{id}", func(r chi.Router) {
		r.Get("/", c.Forms.Get)
		r.Patch("/", c.Forms.Update)
		r.Delete("/", c.Forms.Delete)
		r.Post("/visibility", c.Forms.ToggleVisibility)
		r.Post("/submit", c.Forms.Submit)
	})
}
