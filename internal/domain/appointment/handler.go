package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/apptbook/apptbook/internal/platform/auth"
	"github.com/apptbook/apptbook/pkg/civil"
	"github.com/apptbook/apptbook/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "staff", "doctor"))
	read.GET("/appointments", h.List)
	read.GET("/appointments/:id", h.Get)
	read.GET("/appointments/:id/actions", h.Actions)

	write := api.Group("", auth.RequireRole("admin", "staff"))
	write.POST("/appointments", h.Create)
	write.PUT("/appointments/:id", h.Update)
	write.POST("/appointments/:id/reschedule", h.Reschedule)
	write.POST("/appointments/:id/confirm", h.action(ActionConfirm))
	write.POST("/appointments/:id/complete", h.action(ActionComplete))
	write.POST("/appointments/:id/cancel", h.Cancel)
	write.POST("/appointments/:id/no-show", h.action(ActionNoShow))
}

func (h *Handler) Create(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if pid := c.QueryParam("patient_id"); pid != "" {
		patientID, err := uuid.Parse(pid)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		pg := pagination.FromContext(c)
		items, total, err := h.svc.ListByPatient(ctx, patientID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	doctorID, err := uuid.Parse(c.QueryParam("doctor_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_id is required")
	}
	locationID, err := uuid.Parse(c.QueryParam("location_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "location_id is required")
	}
	date, err := civil.ParseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	items, err := h.svc.ListByDay(ctx, doctorID, locationID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Update(c.Request().Context(), id, &patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

// Actions reports the lifecycle transitions currently offered, so the UI
// renders only buttons the backend will accept.
func (h *Handler) Actions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  a.Status,
		"actions": AllowedActions(a.Status),
	})
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Reschedule(c.Request().Context(), id, req)
	if err != nil {
		return h.transitionError(c, id, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Cancel maps the caller's reported origin onto the two cancellation
// actions; staff cancellation is the default.
func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		By     string  `json:"by"` // "patient" or "staff"
		Reason *string `json:"reason,omitempty"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	action := ActionCancelByStaff
	if body.By == "patient" {
		action = ActionCancelByPatient
	}
	a, err := h.svc.Apply(c.Request().Context(), id, action)
	if err != nil {
		return h.transitionError(c, id, err)
	}
	if body.Reason != nil {
		if a, err = h.svc.Update(c.Request().Context(), id, &Patch{Reason: body.Reason}); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) action(action Action) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
		}
		a, err := h.svc.Apply(c.Request().Context(), id, action)
		if err != nil {
			return h.transitionError(c, id, err)
		}
		return c.JSON(http.StatusOK, a)
	}
}

// transitionError maps lifecycle failures onto HTTP status codes. Invalid
// transitions answer 409 and echo back the actions that would be accepted.
func (h *Handler) transitionError(c echo.Context, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		actions := []Action{}
		if a, getErr := h.svc.Get(c.Request().Context(), id); getErr == nil {
			actions = AllowedActions(a.Status)
		}
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":   err.Error(),
			"actions": actions,
		})
	case errors.Is(err, ErrSlotConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
