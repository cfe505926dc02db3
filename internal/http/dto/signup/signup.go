// Package signup contiene los DTOs HTTP del formulario de registro.
package signup

import (
	"time"

	"github.com/dropDatabas3/signupform/internal/signup"
)

// RuleDTO es una regla del checklist.
type RuleDTO struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Satisfied bool   `json:"satisfied"`
}

// RuleCatalogItem es una entrada de GET /v1/signup/rules.
type RuleCatalogItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// RulesResponse is the response for GET /v1/signup/rules.
type RulesResponse struct {
	Rules []RuleCatalogItem `json:"rules"`
}

// EvaluateRequest holds the body for POST /v1/signup/evaluate.
type EvaluateRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// EvaluateResponse is the stateless evaluation result.
type EvaluateResponse struct {
	Rules               []RuleDTO `json:"rules"`
	PasswordMatch       bool      `json:"password_match"`
	ConfirmationEntered bool      `json:"confirmation_entered"`
	Submittable         bool      `json:"submittable"`
}

// UpdateFormRequest holds the body for PATCH /v1/signup/forms/{id}.
// Los campos ausentes no se tocan.
type UpdateFormRequest struct {
	Email           *string `json:"email,omitempty"`
	Password        *string `json:"password,omitempty"`
	ConfirmPassword *string `json:"confirm_password,omitempty"`
}

// Empty reporta si el request no trae cambios.
func (r UpdateFormRequest) Empty() bool {
	return r.Email == nil && r.Password == nil && r.ConfirmPassword == nil
}

// NoticeDTO es el aviso transitorio.
type NoticeDTO struct {
	State   string     `json:"state"`
	Message string     `json:"message,omitempty"`
	ShownAt *time.Time `json:"shown_at,omitempty"`
}

// FormResponse es la vista del formulario. Nunca incluye el password.
type FormResponse struct {
	FormID              string    `json:"form_id"`
	Email               string    `json:"email"`
	PasswordVisible     bool      `json:"password_visible"`
	PasswordLength      int       `json:"password_length"`
	Rules               []RuleDTO `json:"rules"`
	ConfirmationEntered bool      `json:"confirmation_entered"`
	PasswordMatch       bool      `json:"password_match"`
	Submittable         bool      `json:"submittable"`
	Notice              NoticeDTO `json:"notice"`
}

// SubmitResponse is the response for POST /v1/signup/forms/{id}/submit.
type SubmitResponse struct {
	Submitted bool         `json:"submitted"`
	Form      FormResponse `json:"form"`
}

// Rules convierte un RuleSet al formato de la API.
func Rules(rs signup.RuleSet) []RuleDTO {
	out := make([]RuleDTO, len(rs))
	for i, r := range rs {
		out[i] = RuleDTO{ID: string(r.ID), Label: r.Label, Satisfied: r.Satisfied}
	}
	return out
}

// Form convierte una vista del dominio en la respuesta HTTP.
func Form(id string, v signup.FormView) FormResponse {
	resp := FormResponse{
		FormID:              id,
		Email:               v.State.Email,
		PasswordVisible:     v.State.PasswordVisible,
		PasswordLength:      v.PasswordLength(),
		Rules:               Rules(v.Rules),
		ConfirmationEntered: v.ConfirmationEntered,
		PasswordMatch:       v.PasswordMatch,
		Submittable:         v.Submittable,
		Notice: NoticeDTO{
			State:   string(v.Notice.State),
			Message: v.Notice.Message,
		},
	}
	if !v.Notice.ShownAt.IsZero() {
		t := v.Notice.ShownAt.UTC()
		resp.Notice.ShownAt = &t
	}
	return resp
}
