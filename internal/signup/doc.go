// Package signup contiene el motor de validación del formulario de registro.
//
// # Piezas
//
//   - Catálogo: seis reglas fijas con ID estable (RuleID) y un label de display.
//   - EvaluatePassword: evaluación completa y pura; siempre devuelve un RuleSet nuevo.
//   - EvaluateConfirmation / IsSubmittable: igualdad exacta y gate de envío.
//   - Form: una instancia viva del formulario (estado + reglas + aviso transitorio).
//   - Notice: máquina idle/shown con auto-dismiss cancelable.
//
// # Usage
//
//	f := signup.NewForm(signup.FormOptions{})
//	defer f.Close()
//
//	f.SetEmail("a@b.com")
//	f.SetPassword("Abcdef1!ghijkl")
//	v, _ := f.SetConfirmPassword("Abcdef1!ghijkl")
//	if v.Submittable {
//	    _, _, err := f.Submit()
//	}
package signup
