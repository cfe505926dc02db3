package signup

import "strings"

// RuleResult es el resultado de evaluar una regla contra un password.
type RuleResult struct {
	ID        RuleID
	Label     string
	Satisfied bool
}

// RuleSet es una colección ordenada de resultados. Nunca se muta en el lugar:
// cada evaluación produce un RuleSet nuevo.
type RuleSet []RuleResult

// InitialRuleSet devuelve el catálogo con todas las reglas insatisfechas.
func InitialRuleSet() RuleSet {
	rs := make(RuleSet, len(catalog))
	for i, r := range catalog {
		rs[i] = RuleResult{ID: r.ID, Label: r.Label}
	}
	return rs
}

// EvaluatePassword evalúa cada regla del catálogo de forma independiente.
func EvaluatePassword(password string) RuleSet {
	rs := make(RuleSet, len(catalog))
	for i, r := range catalog {
		rs[i] = RuleResult{ID: r.ID, Label: r.Label, Satisfied: r.Predicate(password)}
	}
	return rs
}

// EvaluateConfirmation compara de forma exacta (case-sensitive, sin trim).
func EvaluateConfirmation(password, confirmation string) bool {
	return password == confirmation
}

// IsSubmittable es el gate de envío. Hace su propia comparación de passwords
// en lugar de leer el resultado de EvaluateConfirmation.
func IsSubmittable(email string, rs RuleSet, password, confirmation string) bool {
	if !rs.AllSatisfied() {
		return false
	}
	if strings.TrimSpace(email) == "" {
		return false
	}
	return password == confirmation
}

// AllSatisfied reporta si todas las reglas pasan. Un RuleSet vacío no pasa.
func (rs RuleSet) AllSatisfied() bool {
	if len(rs) == 0 {
		return false
	}
	for _, r := range rs {
		if !r.Satisfied {
			return false
		}
	}
	return true
}

// Satisfied devuelve el resultado de la regla id.
func (rs RuleSet) Satisfied(id RuleID) (satisfied, found bool) {
	for _, r := range rs {
		if r.ID == id {
			return r.Satisfied, true
		}
	}
	return false, false
}

// Failing lista los IDs de las reglas que no pasan, en orden de display.
func (rs RuleSet) Failing() []RuleID {
	var out []RuleID
	for _, r := range rs {
		if !r.Satisfied {
			out = append(out, r.ID)
		}
	}
	return out
}

// Clone devuelve una copia independiente.
func (rs RuleSet) Clone() RuleSet {
	if rs == nil {
		return nil
	}
	out := make(RuleSet, len(rs))
	copy(out, rs)
	return out
}
