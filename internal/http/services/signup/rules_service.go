package signup

import (
	"context"

	dto "github.com/dropDatabas3/signupform/internal/http/dto/signup"
	"github.com/dropDatabas3/signupform/internal/metrics"
	"github.com/dropDatabas3/signupform/internal/observability/logger"
	domain "github.com/dropDatabas3/signupform/internal/signup"
)

// RulesService expone el catálogo y la evaluación sin estado.
type RulesService interface {
	Catalog(ctx context.Context) dto.RulesResponse
	Evaluate(ctx context.Context, req dto.EvaluateRequest) dto.EvaluateResponse
}

type rulesService struct {
	metrics *metrics.Metrics
}

// NewRulesService creates a new RulesService.
func NewRulesService(d Deps) RulesService {
	return &rulesService{metrics: d.Metrics}
}

func (s *rulesService) Catalog(ctx context.Context) dto.RulesResponse {
	cat := domain.Catalog()
	out := dto.RulesResponse{Rules: make([]dto.RuleCatalogItem, len(cat))}
	for i, r := range cat {
		out.Rules[i] = dto.RuleCatalogItem{ID: string(r.ID), Label: r.Label}
	}
	return out
}

// Evaluate corre el catálogo completo sin crear sesión.
func (s *rulesService) Evaluate(ctx context.Context, req dto.EvaluateRequest) dto.EvaluateResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("signup.rules"),
		logger.Op("Evaluate"),
	)

	rs := domain.EvaluatePassword(req.Password)
	observeEvaluation(s.metrics, "stateless", rs)

	resp := dto.EvaluateResponse{
		Rules:               dto.Rules(rs),
		PasswordMatch:       domain.EvaluateConfirmation(req.Password, req.ConfirmPassword),
		ConfirmationEntered: req.ConfirmPassword != "",
		Submittable:         domain.IsSubmittable(req.Email, rs, req.Password, req.ConfirmPassword),
	}

	log.Debug("password evaluated",
		logger.FailingRules(ruleIDs(rs.Failing())),
		logger.Submittable(resp.Submittable),
	)
	return resp
}

// observeEvaluation registra una evaluación y sus reglas fallidas.
func observeEvaluation(m *metrics.Metrics, source string, rs domain.RuleSet) {
	if m == nil {
		return
	}
	m.PasswordEvaluations.WithLabelValues(source).Inc()
	for _, id := range rs.Failing() {
		m.RuleFailures.WithLabelValues(string(id)).Inc()
	}
}
