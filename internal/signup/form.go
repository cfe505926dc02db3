package signup

import (
	"sync"
	"time"
	"unicode/utf8"
)

// FormState es el estado crudo de los campos del formulario.
type FormState struct {
	Email           string
	Password        string
	ConfirmPassword string
	PasswordVisible bool
}

// FormView es lo que la UI necesita para renderizar.
type FormView struct {
	State               FormState
	Rules               RuleSet
	PasswordMatch       bool
	ConfirmationEntered bool
	Submittable         bool
	Notice              NoticeView
}

// PasswordLength devuelve el largo del password en caracteres.
func (v FormView) PasswordLength() int { return utf8.RuneCountInString(v.State.Password) }

// FormOptions configura un Form.
type FormOptions struct {
	Scheduler   Scheduler
	NoticeDelay time.Duration
	// OnNotice se invoca en cada transición del aviso (fuera del lock).
	OnNotice func(NoticeState)
}

// Form es una instancia viva del formulario. Todos los cambios pasan por sus
// handlers y quedan serializados por mu.
type Form struct {
	mu     sync.Mutex
	state  FormState
	rules  RuleSet
	match  bool
	notice *Notice
	closed bool
}

// NewForm crea un formulario vacío con todas las reglas en false.
func NewForm(opts FormOptions) *Form {
	return &Form{
		rules: InitialRuleSet(),
		// "" == "" hasta que el usuario escriba algo.
		match:  EvaluateConfirmation("", ""),
		notice: NewNotice(opts.Scheduler, opts.NoticeDelay, opts.OnNotice),
	}
}

// SetEmail reemplaza el email.
func (f *Form) SetEmail(email string) (FormView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return FormView{}, ErrFormClosed
	}
	f.state.Email = email
	return f.viewLocked(), nil
}

// SetPassword reemplaza el password, reevalúa todas las reglas y recalcula
// la confirmación contra el valor nuevo.
func (f *Form) SetPassword(password string) (FormView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return FormView{}, ErrFormClosed
	}
	f.state.Password = password
	f.rules = EvaluatePassword(password)
	f.match = EvaluateConfirmation(f.state.Password, f.state.ConfirmPassword)
	return f.viewLocked(), nil
}

// SetConfirmPassword reemplaza la confirmación y la compara con el password
// vigente en este momento.
func (f *Form) SetConfirmPassword(confirmation string) (FormView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return FormView{}, ErrFormClosed
	}
	f.state.ConfirmPassword = confirmation
	f.match = EvaluateConfirmation(f.state.Password, f.state.ConfirmPassword)
	return f.viewLocked(), nil
}

// TogglePasswordVisibility alterna la visibilidad del campo password.
func (f *Form) TogglePasswordVisibility() (FormView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return FormView{}, ErrFormClosed
	}
	f.state.PasswordVisible = !f.state.PasswordVisible
	return f.viewLocked(), nil
}

// View devuelve el estado actual sin modificarlo.
func (f *Form) View() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

// Submittable evalúa el gate con el estado actual.
func (f *Form) Submittable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return IsSubmittable(f.state.Email, f.rules, f.state.Password, f.state.ConfirmPassword)
}

// Submit resetea el formulario y muestra el aviso. Si el gate está cerrado
// devuelve ErrNotSubmittable sin tocar el estado. Devuelve el estado enviado.
func (f *Form) Submit() (FormState, FormView, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return FormState{}, FormView{}, ErrFormClosed
	}
	if !IsSubmittable(f.state.Email, f.rules, f.state.Password, f.state.ConfirmPassword) {
		f.mu.Unlock()
		return FormState{}, FormView{}, ErrNotSubmittable
	}
	submitted := f.state
	f.state = FormState{}
	f.rules = InitialRuleSet()
	f.match = EvaluateConfirmation("", "")
	// reset y aviso en la misma sección crítica: un Close concurrente ve
	// ambos o ninguno. OnNotice corre después, sin el lock del form.
	notify := f.notice.show()
	v := f.viewLocked()
	f.mu.Unlock()

	if notify != nil {
		notify()
	}
	return submitted, v, nil
}

// Close desarma el formulario y cancela el auto-dismiss pendiente.
func (f *Form) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.notice.Close()
}

// Closed reporta si el formulario fue cerrado.
func (f *Form) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Form) viewLocked() FormView {
	return FormView{
		State:               f.state,
		Rules:               f.rules.Clone(),
		PasswordMatch:       f.match,
		ConfirmationEntered: f.state.ConfirmPassword != "",
		Submittable:         IsSubmittable(f.state.Email, f.rules, f.state.Password, f.state.ConfirmPassword),
		Notice:              f.notice.View(),
	}
}
