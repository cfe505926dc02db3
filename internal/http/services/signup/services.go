// Package signup contiene los services del formulario de registro.
package signup

import (
	"github.com/dropDatabas3/signupform/internal/metrics"
	"github.com/dropDatabas3/signupform/internal/session"
)

// Deps contiene las dependencias de los services signup.
type Deps struct {
	Store *session.Store
	// Metrics es opcional.
	Metrics *metrics.Metrics
}

// Services agrupa todos los services del dominio signup.
type Services struct {
	Forms FormService
	Rules RulesService
}

// NewServices crea el agregador de services signup.
func NewServices(d Deps) Services {
	return Services{
		Forms: NewFormService(d),
		Rules: NewRulesService(d),
	}
}
