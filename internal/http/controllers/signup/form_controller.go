package signup

import (
	"context"
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/signupform/internal/http/dto/signup"
	httperrors "github.com/dropDatabas3/signupform/internal/http/errors"
	"github.com/dropDatabas3/signupform/internal/http/helpers"
	svc "github.com/dropDatabas3/signupform/internal/http/services/signup"
	"github.com/dropDatabas3/signupform/internal/observability/logger"
	"github.com/go-chi/chi/v5"
)

// FormController handles /v1/signup/forms.
type FormController struct {
	service svc.FormService
}

// NewFormController creates a new form controller.
func NewFormController(service svc.FormService) *FormController {
	return &FormController{service: service}
}

// Create handles POST /v1/signup/forms.
func (c *FormController) Create(w http.ResponseWriter, r *http.Request) {
	resp, err := c.service.Create(r.Context())
	if err != nil {
		c.fail(r.Context(), w, "Create", err)
		return
	}
	w.Header().Set("Location", "/v1/signup/forms/"+resp.FormID)
	helpers.WriteJSON(w, http.StatusCreated, resp)
}

// Get handles GET /v1/signup/forms/{id}.
func (c *FormController) Get(w http.ResponseWriter, r *http.Request) {
	ctx, id := formRequest(r)
	resp, err := c.service.Get(ctx, id)
	if err != nil {
		c.fail(ctx, w, "Get", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Update handles PATCH /v1/signup/forms/{id}.
func (c *FormController) Update(w http.ResponseWriter, r *http.Request) {
	ctx, id := formRequest(r)
	var req dto.UpdateFormRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	resp, err := c.service.Update(ctx, id, req)
	if err != nil {
		c.fail(ctx, w, "Update", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// ToggleVisibility handles POST /v1/signup/forms/{id}/visibility.
func (c *FormController) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	ctx, id := formRequest(r)
	resp, err := c.service.ToggleVisibility(ctx, id)
	if err != nil {
		c.fail(ctx, w, "ToggleVisibility", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Submit handles POST /v1/signup/forms/{id}/submit.
func (c *FormController) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, id := formRequest(r)
	resp, err := c.service.Submit(ctx, id)
	if err != nil {
		c.fail(ctx, w, "Submit", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /v1/signup/forms/{id}.
func (c *FormController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, id := formRequest(r)
	if err := c.service.Delete(ctx, id); err != nil {
		c.fail(ctx, w, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// formRequest lee el id de la ruta y agrega form_id al logger del contexto,
// así todo log del controller y del service lo lleva.
func formRequest(r *http.Request) (context.Context, string) {
	id := chi.URLParam(r, "id")
	return logger.WithForm(r.Context(), id), id
}

// fail mapea errores del service a AppError.
func (c *FormController) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var nse *svc.NotSubmittableError
	switch {
	case errors.Is(err, svc.ErrFormNotFound):
		httperrors.WriteError(w, httperrors.ErrFormNotFound)
	case errors.As(err, &nse):
		httperrors.WriteError(w, httperrors.ErrFormNotSubmittable.WithDetail(nse.Reason()))
	case errors.Is(err, svc.ErrNotSubmittable):
		httperrors.WriteError(w, httperrors.ErrFormNotSubmittable)
	case errors.Is(err, svc.ErrEmptyUpdate):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	default:
		logger.From(ctx).Error("signup form error",
			logger.Layer("controller"),
			logger.Op("FormController."+op),
			logger.Err(err),
		)
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
