package availability

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
	read.GET("/availability", h.FreeWindows)
	read.GET("/slots", h.Slots)
}

type dayQuery struct {
	doctorID   uuid.UUID
	locationID uuid.UUID
	date       civil.Date
}

func parseDayQuery(c echo.Context) (dayQuery, error) {
	var q dayQuery
	var err error
	if q.doctorID, err = uuid.Parse(c.QueryParam("doctor_id")); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "doctor_id is required")
	}
	if q.locationID, err = uuid.Parse(c.QueryParam("location_id")); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "location_id is required")
	}
	if q.date, err = civil.ParseDate(c.QueryParam("date")); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return q, nil
}

func (h *Handler) FreeWindows(c echo.Context) error {
	q, err := parseDayQuery(c)
	if err != nil {
		return err
	}
	windows, err := h.svc.FreeWindows(c.Request().Context(), q.doctorID, q.locationID, q.date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if windows == nil {
		windows = []Window{}
	}
	return c.JSON(http.StatusOK, windows)
}

func (h *Handler) Slots(c echo.Context) error {
	q, err := parseDayQuery(c)
	if err != nil {
		return err
	}
	granularity := DefaultGranularity
	if v := c.QueryParam("granularity"); v != "" {
		mins, err := strconv.Atoi(v)
		if err != nil || mins <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "granularity must be a positive number of minutes")
		}
		granularity = time.Duration(mins) * time.Minute
	}
	allowPast := c.QueryParam("allow_past") == "true"

	slots, err := h.svc.Slots(c.Request().Context(), q.doctorID, q.locationID, q.date, granularity, allowPast)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}
