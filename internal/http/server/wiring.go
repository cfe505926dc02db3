// Package server arma las dependencias HTTP a partir de la configuración.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/signupform/internal/config"
	healthctrl "github.com/dropDatabas3/signupform/internal/http/controllers/health"
	signupctrl "github.com/dropDatabas3/signupform/internal/http/controllers/signup"
	mw "github.com/dropDatabas3/signupform/internal/http/middlewares"
	"github.com/dropDatabas3/signupform/internal/http/router"
	healthsvc "github.com/dropDatabas3/signupform/internal/http/services/health"
	signupsvc "github.com/dropDatabas3/signupform/internal/http/services/signup"
	"github.com/dropDatabas3/signupform/internal/metrics"
	"github.com/dropDatabas3/signupform/internal/observability/logger"
	"github.com/dropDatabas3/signupform/internal/rate"
	"github.com/dropDatabas3/signupform/internal/session"
	"github.com/dropDatabas3/signupform/internal/signup"
)

// Options permite inyectar dependencias en tests.
type Options struct {
	// Registry para métricas; nil crea uno nuevo.
	Registry *prometheus.Registry
	// Scheduler del aviso; nil usa time.AfterFunc.
	Scheduler signup.Scheduler
	// Redis ya construido (tests con miniredis). Si es nil y cache.kind=redis
	// se crea a partir de la config.
	Redis *rdb.Client
}

// App es el resultado del wiring.
type App struct {
	Handler http.Handler
	Store   *session.Store
	Metrics *metrics.Metrics
	cleanup []func() error
}

// Close libera recursos en orden inverso.
func (a *App) Close() error {
	var first error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Build construye el handler con todas las dependencias cableadas.
func Build(cfg *config.Config, opts Options) (*App, error) {
	log := logger.Named("wiring")
	app := &App{}

	// 1. Métricas (siempre se crean; el endpoint es opcional)
	m, err := metrics.New(opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("metrics init: %w", err)
	}
	app.Metrics = m

	// 2. Sesiones de formulario
	store := session.NewStore(session.Options{
		TTL:     cfg.Signup.SessionTTL,
		NewForm: signupsvc.FormFactory(opts.Scheduler, cfg.Signup.NoticeDelay, m),
		OnEvict: func(id string) {
			log.Debug("form evicted", logger.FormID(id))
		},
	})
	app.Store = store
	app.cleanup = append(app.cleanup, func() error { store.Close(); return nil })

	if err := m.RegisterGauge("signup_sessions_active", "Formularios vivos", func() float64 {
		return float64(store.Count())
	}); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("metrics gauge: %w", err)
	}

	// 3. Backend de cache (rate limit)
	checks := map[string]healthsvc.Checker{}
	var limiter rate.Limiter
	trusted, err := mw.ParseTrustedProxies(cfg.Rate.TrustedProxies)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("rate trusted proxies: %w", err)
	}
	if cfg.Rate.Enabled {
		switch cfg.Cache.Kind {
		case "redis":
			client := opts.Redis
			if client == nil {
				client = rdb.NewClient(&rdb.Options{
					Addr: cfg.Cache.Redis.Addr,
					DB:   cfg.Cache.Redis.DB,
				})
				app.cleanup = append(app.cleanup, client.Close)
			}
			limiter = rate.NewRedisLimiter(client, cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.MaxRequests, cfg.Rate.Window)
			checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		default:
			limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.Rate.Window)
		}
		log.Info("rate limit enabled",
			logger.String("backend", cfg.Cache.Kind),
			logger.Count(cfg.Rate.MaxRequests),
			logger.TTL(cfg.Rate.Window),
		)
	}

	// 4. Services y controllers
	signupServices := signupsvc.NewServices(signupsvc.Deps{Store: store, Metrics: m})
	healthServices := healthsvc.NewServices(healthsvc.Deps{
		Version:  cfg.App.Version,
		Checks:   checks,
		Sessions: store.Count,
	})

	// 5. Router
	deps := router.Deps{
		Signup:         signupctrl.NewControllers(signupServices),
		Health:         healthctrl.NewControllers(healthServices),
		Metrics:        m,
		RateLimiter:    limiter,
		TrustedProxies: trusted,
	}
	// Sin endpoint los collectors siguen contando.
	if cfg.Metrics.Enabled {
		deps.MetricsPath = cfg.Metrics.Path
	}
	app.Handler = router.New(deps)
	return app, nil
}

// NewHTTPServer crea el *http.Server con los timeouts de la config.
func NewHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
}
