package signup

import (
	"context"
	"errors"
	"strings"
	"time"

	dto "github.com/dropDatabas3/signupform/internal/http/dto/signup"
	"github.com/dropDatabas3/signupform/internal/metrics"
	"github.com/dropDatabas3/signupform/internal/observability/logger"
	"github.com/dropDatabas3/signupform/internal/session"
	domain "github.com/dropDatabas3/signupform/internal/signup"
	"go.uber.org/zap"
)

// FormService defines operations over live form sessions.
type FormService interface {
	Create(ctx context.Context) (dto.FormResponse, error)
	Get(ctx context.Context, id string) (dto.FormResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateFormRequest) (dto.FormResponse, error)
	ToggleVisibility(ctx context.Context, id string) (dto.FormResponse, error)
	Submit(ctx context.Context, id string) (dto.SubmitResponse, error)
	Delete(ctx context.Context, id string) error
}

type formService struct {
	store   *session.Store
	metrics *metrics.Metrics
}

// NewFormService creates a new FormService.
func NewFormService(d Deps) FormService {
	return &formService{store: d.Store, metrics: d.Metrics}
}

// FormFactory construye los Form del store con el delay configurado y
// cuenta las transiciones del aviso.
func FormFactory(sched domain.Scheduler, delay time.Duration, m *metrics.Metrics) func(id string) *domain.Form {
	return func(id string) *domain.Form {
		log := logger.Named("signup.notice").With(logger.FormID(id))
		return domain.NewForm(domain.FormOptions{
			Scheduler:   sched,
			NoticeDelay: delay,
			OnNotice: func(st domain.NoticeState) {
				if m != nil {
					m.NoticeTransitions.WithLabelValues(string(st)).Inc()
				}
				log.Debug("notice transition", logger.NoticeState(string(st)))
			},
		})
	}
}

// log parte del logger del contexto, que ya trae form_id en las rutas
// /forms/{id}.
func (s *formService) log(ctx context.Context, op string) *zap.Logger {
	return logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("signup.forms"),
		logger.Op(op),
	)
}

func (s *formService) lookup(id string) (*domain.Form, error) {
	f, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return f, nil
}

// mapDomainErr traduce un form cerrado (desalojado entre Get y la operación)
// a not found.
func mapDomainErr(err error) error {
	if errors.Is(err, domain.ErrFormClosed) {
		return ErrFormNotFound
	}
	return err
}

func (s *formService) Create(ctx context.Context) (dto.FormResponse, error) {
	id, f := s.store.Create()
	s.log(ctx, "Create").Debug("form created", logger.FormID(id), logger.Count(s.store.Count()))
	return dto.Form(id, f.View()), nil
}

func (s *formService) Get(ctx context.Context, id string) (dto.FormResponse, error) {
	f, err := s.lookup(id)
	if err != nil {
		return dto.FormResponse{}, err
	}
	return dto.Form(id, f.View()), nil
}

// Update aplica los campos presentes en orden email, password, confirmación.
// Cada setter deja el form consistente, así que el orden no cambia el resultado.
func (s *formService) Update(ctx context.Context, id string, req dto.UpdateFormRequest) (dto.FormResponse, error) {
	if req.Empty() {
		return dto.FormResponse{}, ErrEmptyUpdate
	}
	f, err := s.lookup(id)
	if err != nil {
		return dto.FormResponse{}, err
	}
	log := s.log(ctx, "Update")

	var v domain.FormView
	if req.Email != nil {
		if v, err = f.SetEmail(*req.Email); err != nil {
			return dto.FormResponse{}, mapDomainErr(err)
		}
	}
	if req.Password != nil {
		if v, err = f.SetPassword(*req.Password); err != nil {
			return dto.FormResponse{}, mapDomainErr(err)
		}
		observeEvaluation(s.metrics, "form", v.Rules)
	}
	if req.ConfirmPassword != nil {
		if v, err = f.SetConfirmPassword(*req.ConfirmPassword); err != nil {
			return dto.FormResponse{}, mapDomainErr(err)
		}
	}

	log.Debug("form updated",
		logger.FailingRules(ruleIDs(v.Rules.Failing())),
		logger.Submittable(v.Submittable),
	)
	return dto.Form(id, v), nil
}

func (s *formService) ToggleVisibility(ctx context.Context, id string) (dto.FormResponse, error) {
	f, err := s.lookup(id)
	if err != nil {
		return dto.FormResponse{}, err
	}
	v, err := f.TogglePasswordVisibility()
	if err != nil {
		return dto.FormResponse{}, mapDomainErr(err)
	}
	return dto.Form(id, v), nil
}

// Submit envía el formulario. Con el gate cerrado devuelve
// *NotSubmittableError y el form queda intacto.
func (s *formService) Submit(ctx context.Context, id string) (dto.SubmitResponse, error) {
	f, err := s.lookup(id)
	if err != nil {
		return dto.SubmitResponse{}, err
	}
	log := s.log(ctx, "Submit")

	submitted, v, err := f.Submit()
	if err != nil {
		if errors.Is(err, domain.ErrNotSubmittable) {
			s.countSubmission("rejected")
			nse := newNotSubmittable(f.View())
			log.Info("submit rejected",
				logger.FailingRules(nse.FailingRules),
				zap.Bool("email_missing", nse.EmailMissing),
				zap.Bool("mismatch", nse.Mismatch),
			)
			return dto.SubmitResponse{}, nse
		}
		return dto.SubmitResponse{}, mapDomainErr(err)
	}

	s.countSubmission("accepted")
	log.Info("form submitted", logger.EmailDomain(emailDomain(submitted.Email)))
	return dto.SubmitResponse{Submitted: true, Form: dto.Form(id, v)}, nil
}

func (s *formService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return ErrFormNotFound
		}
		return err
	}
	s.log(ctx, "Delete").Debug("form deleted")
	return nil
}

func (s *formService) countSubmission(result string) {
	if s.metrics != nil {
		s.metrics.Submissions.WithLabelValues(result).Inc()
	}
}

// emailDomain devuelve sólo el dominio; el local-part no se loguea.
func emailDomain(email string) string {
	email = strings.TrimSpace(email)
	if i := strings.LastIndexByte(email, '@'); i >= 0 && i < len(email)-1 {
		return strings.ToLower(email[i+1:])
	}
	return ""
}
