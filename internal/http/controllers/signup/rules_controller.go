package signup

import (
	"net/http"

	dto "github.com/dropDatabas3/signupform/internal/http/dto/signup"
	httperrors "github.com/dropDatabas3/signupform/internal/http/errors"
	"github.com/dropDatabas3/signupform/internal/http/helpers"
	svc "github.com/dropDatabas3/signupform/internal/http/services/signup"
)

// RulesController handles the stateless endpoints.
type RulesController struct {
	service svc.RulesService
}

// NewRulesController creates a new rules controller.
func NewRulesController(service svc.RulesService) *RulesController {
	return &RulesController{service: service}
}

// List handles GET /v1/signup/rules.
func (c *RulesController) List(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, c.service.Catalog(r.Context()))
}

// Evaluate handles POST /v1/signup/evaluate.
func (c *RulesController) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluateRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, c.service.Evaluate(r.Context(), req))
}
