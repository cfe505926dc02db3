package signup

import (
	"regexp"
	"unicode/utf8"
)

// RuleID identifica una regla de forma estable. No es texto de UI.
type RuleID string

const (
	RuleHasDigit       RuleID = "has-digit"
	RuleHasUpper       RuleID = "has-upper"
	RuleHasLower       RuleID = "has-lower"
	RuleHasSymbol      RuleID = "has-symbol"
	RuleHasLatinLetter RuleID = "has-latin-letter"
	RuleLengthRange    RuleID = "length-range"
)

// Límites de longitud (inclusive), contados en caracteres.
const (
	MinPasswordLength = 14
	MaxPasswordLength = 50
)

var (
	digitRe  = regexp.MustCompile(`[0-9]`)
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*]`)
	latinRe  = regexp.MustCompile(`[a-zA-Z]`)
)

// Rule es una entrada del catálogo: un predicado puro sobre el password completo.
type Rule struct {
	ID        RuleID
	Label     string
	Predicate func(string) bool
}

// catalog es inmutable; el orden es el orden de display.
var catalog = []Rule{
	{ID: RuleHasDigit, Label: "One number", Predicate: digitRe.MatchString},
	{ID: RuleHasUpper, Label: "One uppercase letter", Predicate: upperRe.MatchString},
	{ID: RuleHasLower, Label: "One lowercase letter", Predicate: lowerRe.MatchString},
	{ID: RuleHasSymbol, Label: "One symbol", Predicate: symbolRe.MatchString},
	{ID: RuleHasLatinLetter, Label: "One Latin letter", Predicate: latinRe.MatchString},
	{ID: RuleLengthRange, Label: "Use 14-50 characters", Predicate: lengthInRange},
}

// lengthInRange cuenta runas, no bytes ni unidades UTF-16.
func lengthInRange(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinPasswordLength && n <= MaxPasswordLength
}

// Catalog devuelve una copia del catálogo en orden de display.
func Catalog() []Rule {
	out := make([]Rule, len(catalog))
	copy(out, catalog)
	return out
}

// LookupRule busca una regla por ID.
func LookupRule(id RuleID) (Rule, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}
