// Package health contiene los services de health check.
package health

import (
	"context"
	"sort"
	"time"

	dto "github.com/dropDatabas3/signupform/internal/http/dto/health"
	"github.com/dropDatabas3/signupform/internal/observability/logger"
)

// Checker verifica una dependencia; nil significa ok.
type Checker func(ctx context.Context) error

// Deps contiene las dependencias del health service.
type Deps struct {
	Version string
	// Checks por componente (ej: "rate_limiter" -> ping a Redis).
	Checks map[string]Checker
	// Sessions devuelve la cantidad de formularios vivos.
	Sessions func() int
	Timeout  time.Duration
}

// HealthService calcula readiness.
type HealthService interface {
	Ready(ctx context.Context) dto.HealthResponse
}

// Services agrupa todos los services del dominio health.
type Services struct {
	Health HealthService
}

// NewServices crea el agregador de services health.
func NewServices(d Deps) Services {
	return Services{
		Health: NewHealthService(d),
	}
}

type healthService struct {
	d Deps
}

// NewHealthService creates a new HealthService.
func NewHealthService(d Deps) HealthService {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	return &healthService{d: d}
}

func (s *healthService) Ready(ctx context.Context) dto.HealthResponse {
	resp := dto.HealthResponse{
		Status:     "ready",
		Components: map[string]dto.HealthStatus{"engine": {Status: "ok"}},
		Version:    s.d.Version,
		Timestamp:  time.Now().UTC(),
	}
	if s.d.Sessions != nil {
		resp.Sessions = s.d.Sessions()
	}

	names := make([]string, 0, len(s.d.Checks))
	for name := range s.d.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, s.d.Timeout)
		err := s.d.Checks[name](cctx)
		cancel()
		if err != nil {
			// la causa puede incluir direcciones internas: sólo al log
			logger.From(ctx).Warn("readiness check failed",
				logger.Layer("service"),
				logger.Component("health"),
				logger.String("check", name),
				logger.Err(err),
			)
			resp.Components[name] = dto.HealthStatus{Status: "error", Message: "check failed"}
			resp.Status = "unavailable"
			continue
		}
		resp.Components[name] = dto.HealthStatus{Status: "ok"}
	}
	return resp
}
