// Package signup contiene los controllers HTTP del formulario de registro.
package signup

import svc "github.com/dropDatabas3/signupform/internal/http/services/signup"

// Controllers agrupa todos los controllers del dominio signup.
type Controllers struct {
	Forms *FormController
	Rules *RulesController
}

// NewControllers crea el agregador de controllers signup.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Forms: NewFormController(s.Forms),
		Rules: NewRulesController(s.Rules),
	}
}
