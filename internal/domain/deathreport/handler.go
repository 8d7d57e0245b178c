package deathreport

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/flourish/flourish-prn/internal/platform/auth"
	"github.com/flourish/flourish-prn/internal/platform/db"
	"github.com/flourish/flourish-prn/internal/platform/outcome"
	"github.com/flourish/flourish-prn/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleInvestigator, auth.RoleResearchAssistant, auth.RoleMonitor))
	read.GET("/death-reports", h.List)
	read.GET("/death-reports/choices", h.Choices)
	read.GET("/death-reports/:id", h.Get)
	read.GET("/death-reports/:id/label", h.Label)
	read.GET("/subjects/:subject/death-report", h.GetBySubject)

	write := api.Group("", auth.RequireRole(auth.RoleInvestigator, auth.RoleResearchAssistant))
	write.POST("/death-reports", h.Create)
	write.PUT("/death-reports/:id", h.Update)

	admin := api.Group("", auth.RequireRole(auth.RoleDataManager))
	admin.DELETE("/death-reports/:id", h.Delete)
}

// Response is a saved report as returned by the API.
type Response struct {
	ID uuid.UUID `json:"id"`
	Form
	ConsentVersion string    `json:"consent_version"`
	Label          string    `json:"label"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (h *Handler) response(r *DeathReport) Response {
	return Response{
		ID:             r.ID,
		Form:           FormOf(r),
		ConsentVersion: r.ConsentVersion,
		Label:          h.svc.Label(r),
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (h *Handler) Create(c echo.Context) error {
	var f Form
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, outcome.BadRequest(err))
	}
	r, err := h.svc.Create(c.Request().Context(), &f)
	if err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set("Location", "/api/v1/death-reports/"+r.ID.String())
	return c.JSON(http.StatusCreated, h.response(r))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, outcome.Error("invalid id"))
	}
	var f Form
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, outcome.BadRequest(err))
	}
	r, err := h.svc.Update(c.Request().Context(), id, &f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, h.response(r))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, outcome.Error("invalid id"))
	}
	r, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, h.response(r))
}

func (h *Handler) GetBySubject(c echo.Context) error {
	r, err := h.svc.GetBySubject(c.Request().Context(), c.Param("subject"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, h.response(r))
}

func (h *Handler) Label(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, outcome.Error("invalid id"))
	}
	r, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"id": r.ID.String(), "label": h.svc.Label(r)})
}

// ChoiceListView is a choice list as offered to form clients.
type ChoiceListView struct {
	Options      []Option `json:"options"`
	AcceptsOther bool     `json:"accepts_other"`
}

// Choices returns every fixed value list the form draws from.
func (h *Handler) Choices(c echo.Context) error {
	out := make(map[string]ChoiceListView, len(ChoiceLists))
	for name, l := range ChoiceLists {
		out[name] = ChoiceListView{Options: l.Options(), AcceptsOther: l.AcceptsOther()}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]Response, len(items))
	for i, r := range items {
		out[i] = h.response(r)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(out, total, pg).WithLinks(c.Request().URL.Path, pg))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, outcome.Error("invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// fail maps service errors onto the outcome envelope: form problems are
// 400 with one issue per field, a missing report is 404.
func (h *Handler) fail(c echo.Context, err error) error {
	if failures, ok := AsFailures(err); ok {
		return c.JSON(http.StatusBadRequest, FailureOutcome(failures))
	}
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, outcome.NotFound("death report", c.Param("id")+c.Param("subject")))
	}
	zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("death report request failed")
	return c.JSON(http.StatusInternalServerError, outcome.Internal("internal server error"))
}

// FailureOutcome lists each failure as an issue located at its field.
func FailureOutcome(failures ValidationFailures) *outcome.Outcome {
	b := outcome.NewBuilder()
	for _, f := range failures {
		b.AddField(issueCode(f.Code), f.Field, f.Message)
	}
	return b.Build()
}

func issueCode(code string) string {
	switch code {
	case "required", "other_required", "required_if_yes":
		return outcome.CodeRequired
	case "unique":
		return outcome.CodeConflict
	case ErrMissingScreeningForm.Code, ErrMissingConsentVersionForm.Code:
		return outcome.CodeBusinessRule
	default:
		return outcome.CodeInvalid
	}
}
