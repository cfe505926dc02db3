// Package health contiene los controllers de health check.
package health

import (
	"net/http"

	"github.com/dropDatabas3/signupform/internal/http/helpers"
	svc "github.com/dropDatabas3/signupform/internal/http/services/health"
)

// Controllers agrupa todos los controllers del dominio health.
type Controllers struct {
	Health *HealthController
}

// NewControllers crea el agregador de controllers health.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Health: NewHealthController(s.Health),
	}
}

// HealthController handles /healthz y /readyz.
type HealthController struct {
	service svc.HealthService
}

// NewHealthController creates a new health controller.
func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Live responde 200 mientras el proceso esté vivo.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready responde 503 si alguna dependencia falla.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	resp := c.service.Ready(r.Context())
	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, resp)
}
