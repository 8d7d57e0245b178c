package screening

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/flourish/flourish-prn/internal/platform/auth"
	"github.com/flourish/flourish-prn/internal/platform/db"
	"github.com/flourish/flourish-prn/internal/platform/outcome"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleInvestigator, auth.RoleResearchAssistant, auth.RoleMonitor))
	read.GET("/screenings/:subject", h.GetScreening)
	read.GET("/consent-versions/:screening", h.GetConsentVersion)

	write := api.Group("", auth.RequireRole(auth.RoleInvestigator, auth.RoleResearchAssistant))
	write.POST("/screenings/pregnancy", h.RegisterPregnancy)
	write.POST("/screenings/prior-participant", h.RegisterPriorParticipant)
	write.POST("/consent-versions", h.RegisterConsentVersion)
}

func (h *Handler) RegisterPregnancy(c echo.Context) error {
	return h.registerScreening(c, h.svc.RegisterPregnancyScreening)
}

func (h *Handler) RegisterPriorParticipant(c echo.Context) error {
	return h.registerScreening(c, h.svc.RegisterPriorParticipantScreening)
}

func (h *Handler) registerScreening(c echo.Context, register func(ctx context.Context, req *ScreeningRequest) (*Screening, error)) error {
	var req ScreeningRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, outcome.BadRequest(err))
	}
	sc, err := register(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, sc)
}

func (h *Handler) RegisterConsentVersion(c echo.Context) error {
	var req ConsentVersionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, outcome.BadRequest(err))
	}
	cv, err := h.svc.RegisterConsentVersion(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, cv)
}

func (h *Handler) GetScreening(c echo.Context) error {
	sc, err := h.svc.GetBySubject(c.Request().Context(), c.Param("subject"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, sc)
}

func (h *Handler) GetConsentVersion(c echo.Context) error {
	cv, err := h.svc.GetConsentVersion(c.Request().Context(), c.Param("screening"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, cv)
}

func (h *Handler) fail(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		b := outcome.NewBuilder()
		for _, fe := range verrs {
			code := outcome.CodeInvalid
			if fe.Tag() == "required" {
				code = outcome.CodeRequired
			}
			b.AddField(code, fe.Field(), fe.Error())
		}
		return c.JSON(http.StatusBadRequest, b.Build())
	case errors.Is(err, ErrDuplicateScreening), errors.Is(err, ErrDuplicateConsentVersion):
		return c.JSON(http.StatusConflict, outcome.Conflict(err.Error()))
	case errors.Is(err, ErrUnknownScreening):
		return c.JSON(http.StatusBadRequest, outcome.NewBuilder().
			AddField(outcome.CodeBusinessRule, "screening_identifier", err.Error()).Build())
	case errors.Is(err, db.ErrNotFound):
		return c.JSON(http.StatusNotFound, outcome.NotFound("screening record", c.Param("subject")+c.Param("screening")))
	}
	zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("screening request failed")
	return c.JSON(http.StatusInternalServerError, outcome.Internal("internal server error"))
}
