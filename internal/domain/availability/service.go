package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/apptbook/apptbook/internal/domain/appointment"
	"github.com/apptbook/apptbook/internal/domain/officehours"
	"github.com/apptbook/apptbook/pkg/civil"
)

// Service resolves availability by combining the rule store and the
// appointment store, with an optional day-level cache in front of the
// resolver.
type Service struct {
	rules  officehours.Repository
	appts  appointment.Repository
	cache  *Cache // may be nil
	loc    *time.Location
	logger zerolog.Logger
}

// NewService builds the availability service. loc is the clinic's zone,
// used for the same-day past-slot cutoff; nil means UTC.
func NewService(rules officehours.Repository, appts appointment.Repository, cache *Cache, loc *time.Location, logger zerolog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{rules: rules, appts: appts, cache: cache, loc: loc, logger: logger}
}

// FreeWindows returns the resolved free intervals for one day, cached.
func (s *Service) FreeWindows(ctx context.Context, doctorID, locationID uuid.UUID, date civil.Date) ([]Window, error) {
	if s.cache != nil {
		if windows, ok := s.cache.Get(doctorID, locationID, date); ok {
			s.logger.Debug().
				Str("doctor_id", doctorID.String()).
				Str("date", date.String()).
				Msg("availability cache hit")
			return windows, nil
		}
	}

	rules, err := s.rules.ListCandidates(ctx, doctorID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list office hour rules: %w", err)
	}
	appts, err := s.appts.ListByDay(ctx, doctorID, locationID, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	windows := Resolve(rules, appts, doctorID, locationID, date)
	if s.cache != nil {
		s.cache.Store(doctorID, locationID, date, windows)
	}
	return windows, nil
}

// Slots returns the bookable increments for one day.
func (s *Service) Slots(ctx context.Context, doctorID, locationID uuid.UUID, date civil.Date, granularity time.Duration, allowPast bool) ([]Slot, error) {
	windows, err := s.FreeWindows(ctx, doctorID, locationID, date)
	if err != nil {
		return nil, err
	}
	return GenerateSlots(windows, SlotOptions{
		Granularity: granularity,
		AllowPast:   allowPast,
		Date:        date,
		Location:    s.loc,
	}), nil
}

// WeeklyHours returns the coarse weekly working hours per weekday used by
// the calendar views to gray out non-working cells. This is a visual hint
// derived straight from the rules; live booking checks go through
// FreeWindows, which also accounts for existing appointments. The two are
// intentionally independent.
func (s *Service) WeeklyHours(ctx context.Context, doctorID, locationID uuid.UUID) (map[time.Weekday][]Window, error) {
	rules, err := s.rules.ListCandidates(ctx, doctorID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list office hour rules: %w", err)
	}
	out := make(map[time.Weekday][]Window)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		// Reuse the per-date precedence by anchoring each weekday to a
		// reference week.
		date := referenceDateFor(wd)
		if windows := workingWindows(rules, doctorID, locationID, date); len(windows) > 0 {
			out[wd] = windows
		}
	}
	return out, nil
}

// referenceDateFor maps a weekday to a fixed date with that weekday.
// 2024-06-02 is a Sunday.
func referenceDateFor(wd time.Weekday) civil.Date {
	return civil.NewDate(2024, time.June, 2).AddDays(int(wd))
}
