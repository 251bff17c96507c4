package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/apptbook/apptbook/internal/domain/appointment"
	"github.com/apptbook/apptbook/internal/domain/availability"
	"github.com/apptbook/apptbook/pkg/civil"
)

// WeeklyHoursSource supplies the coarse weekly working hours used for
// disabled-hour shading.
type WeeklyHoursSource interface {
	WeeklyHours(ctx context.Context, doctorID, locationID uuid.UUID) (map[time.Weekday][]availability.Window, error)
}

// Service aggregates appointments into calendar views. Downstream read
// failures degrade to empty views so a flaky dependency cannot take the
// whole calendar down; the error is logged, not propagated.
type Service struct {
	appts  appointment.Repository
	hours  WeeklyHoursSource
	loc    *time.Location
	logger zerolog.Logger
}

func NewService(appts appointment.Repository, hours WeeklyHoursSource, loc *time.Location, logger zerolog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{appts: appts, hours: hours, loc: loc, logger: logger}
}

func (s *Service) fetchEvents(ctx context.Context, doctorID uuid.UUID, from, to civil.Date) []Event {
	appts, err := s.appts.ListByRange(ctx, doctorID, from, to)
	if err != nil {
		s.logger.Error().Err(err).
			Str("doctor_id", doctorID.String()).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("calendar appointment fetch failed, rendering empty view")
		return nil
	}
	events := make([]Event, 0, len(appts))
	for _, a := range appts {
		if a.Cancelled() {
			continue
		}
		events = append(events, FromAppointment(a, s.loc))
	}
	return events
}

func (s *Service) fetchWeekly(ctx context.Context, doctorID, locationID uuid.UUID) map[time.Weekday][]availability.Window {
	if s.hours == nil {
		return nil
	}
	weekly, err := s.hours.WeeklyHours(ctx, doctorID, locationID)
	if err != nil {
		s.logger.Error().Err(err).
			Str("doctor_id", doctorID.String()).
			Msg("weekly hours fetch failed, shading disabled")
		return nil
	}
	return weekly
}

// Month builds the month view for the grid covering (year, month).
func (s *Service) Month(ctx context.Context, doctorID uuid.UUID, year int, month time.Month) MonthView {
	grid := MonthGrid(year, month)
	from := grid[0].Date
	to := grid[len(grid)-1].Date
	events := s.fetchEvents(ctx, doctorID, from, to)
	return LayoutMonth(year, month, events)
}

// Week builds seven day columns starting at start.
func (s *Service) Week(ctx context.Context, doctorID, locationID uuid.UUID, start civil.Date, window HourWindow) WeekView {
	return s.rangeView(ctx, doctorID, locationID, start, 7, window)
}

// Day builds a single day column.
func (s *Service) Day(ctx context.Context, doctorID, locationID uuid.UUID, date civil.Date, window HourWindow) WeekView {
	return s.rangeView(ctx, doctorID, locationID, date, 1, window)
}

func (s *Service) rangeView(ctx context.Context, doctorID, locationID uuid.UUID, start civil.Date, days int, window HourWindow) WeekView {
	events := s.fetchEvents(ctx, doctorID, start, start.AddDays(days-1))
	byDay := make(map[civil.Date][]Event)
	for _, e := range events {
		byDay[civil.DateOf(e.Start)] = append(byDay[civil.DateOf(e.Start)], e)
	}
	weekly := s.fetchWeekly(ctx, doctorID, locationID)
	return LayoutRange(start, days, byDay, weekly, window)
}
