package calendar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/apptbook/apptbook/internal/platform/auth"
	"github.com/apptbook/apptbook/pkg/civil"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "staff", "doctor"))
	read.GET("/calendar/month", h.Month)
	read.GET("/calendar/week", h.Week)
	read.GET("/calendar/day", h.Day)
}

func (h *Handler) Month(c echo.Context) error {
	doctorID, err := uuid.Parse(c.QueryParam("doctor_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_id is required")
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "year is required")
	}
	monthNum, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, "month must be 1-12")
	}
	view := h.svc.Month(c.Request().Context(), doctorID, year, time.Month(monthNum))
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Week(c echo.Context) error {
	doctorID, locationID, window, err := rangeParams(c)
	if err != nil {
		return err
	}
	start, err := civil.ParseDate(c.QueryParam("start"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start must be YYYY-MM-DD")
	}
	// Snap to the Sunday of the containing week, matching the month grid.
	start = start.AddDays(-int(start.Weekday()))
	view := h.svc.Week(c.Request().Context(), doctorID, locationID, start, window)
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) Day(c echo.Context) error {
	doctorID, locationID, window, err := rangeParams(c)
	if err != nil {
		return err
	}
	date, err := civil.ParseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	view := h.svc.Day(c.Request().Context(), doctorID, locationID, date, window)
	return c.JSON(http.StatusOK, view)
}

func rangeParams(c echo.Context) (doctorID, locationID uuid.UUID, window HourWindow, err error) {
	doctorID, err = uuid.Parse(c.QueryParam("doctor_id"))
	if err != nil {
		return doctorID, locationID, window, echo.NewHTTPError(http.StatusBadRequest, "doctor_id is required")
	}
	// location_id is optional: without it the shading reflects the
	// doctor's schedule across all locations.
	if v := c.QueryParam("location_id"); v != "" {
		if locationID, err = uuid.Parse(v); err != nil {
			return doctorID, locationID, window, echo.NewHTTPError(http.StatusBadRequest, "invalid location_id")
		}
	}
	window = DefaultHourWindow
	if v := c.QueryParam("day_start_hour"); v != "" {
		if window.StartHour, err = strconv.Atoi(v); err != nil {
			return doctorID, locationID, window, echo.NewHTTPError(http.StatusBadRequest, "invalid day_start_hour")
		}
	}
	if v := c.QueryParam("day_end_hour"); v != "" {
		if window.EndHour, err = strconv.Atoi(v); err != nil {
			return doctorID, locationID, window, echo.NewHTTPError(http.StatusBadRequest, "invalid day_end_hour")
		}
	}
	if !window.valid() {
		return doctorID, locationID, window, echo.NewHTTPError(http.StatusBadRequest, "day_start_hour must be before day_end_hour within 0-24")
	}
	return doctorID, locationID, window, nil
}
