package signup

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition agrupa violaciones de contrato del llamador.
	ErrPrecondition = errors.New("precondition failed")

	// ErrNotSubmittable se devuelve cuando Submit se invoca con el gate cerrado.
	ErrNotSubmittable = fmt.Errorf("%w: form is not submittable", ErrPrecondition)

	// ErrFormClosed se devuelve al operar sobre un form ya cerrado.
	ErrFormClosed = errors.New("form is closed")
)
