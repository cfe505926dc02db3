package signup

import (
	"errors"
	"strings"

	domain "github.com/dropDatabas3/signupform/internal/signup"
)

// Service errors
var (
	ErrFormNotFound   = errors.New("form not found")
	ErrEmptyUpdate    = errors.New("at least one of email, password, confirm_password is required")
	ErrNotSubmittable = domain.ErrNotSubmittable
)

// NotSubmittableError describe por qué el gate está cerrado.
type NotSubmittableError struct {
	FailingRules []string
	EmailMissing bool
	Mismatch     bool
}

func (e *NotSubmittableError) Error() string {
	return ErrNotSubmittable.Error()
}

func (e *NotSubmittableError) Unwrap() error { return ErrNotSubmittable }

// Reason arma un detalle legible para el cliente, sin datos sensibles.
func (e *NotSubmittableError) Reason() string {
	var parts []string
	if e.EmailMissing {
		parts = append(parts, "email is required")
	}
	if len(e.FailingRules) > 0 {
		parts = append(parts, "failing rules: "+strings.Join(e.FailingRules, ","))
	}
	if e.Mismatch {
		parts = append(parts, "passwords do not match")
	}
	return strings.Join(parts, "; ")
}

func newNotSubmittable(v domain.FormView) *NotSubmittableError {
	return &NotSubmittableError{
		FailingRules: ruleIDs(v.Rules.Failing()),
		EmailMissing: strings.TrimSpace(v.State.Email) == "",
		Mismatch:     !v.PasswordMatch,
	}
}

func ruleIDs(ids []domain.RuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
