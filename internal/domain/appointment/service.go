package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

// Errors surfaced by appointment operations.
var (
	ErrInvalidTransition = errors.New("transition not allowed for current status")
	ErrSlotConflict      = errors.New("target interval overlaps an existing appointment")
)

// DayInvalidator drops cached availability for a single (doctor, location,
// date) key after an appointment mutation touches that day.
type DayInvalidator interface {
	Remove(doctorID, locationID uuid.UUID, date civil.Date)
}

type Service struct {
	appts Repository
	cache DayInvalidator // may be nil
}

func NewService(appts Repository, cache DayInvalidator) *Service {
	return &Service{appts: appts, cache: cache}
}

func (s *Service) invalidateDay(doctorID, locationID uuid.UUID, date civil.Date) {
	if s.cache != nil {
		s.cache.Remove(doctorID, locationID, date)
	}
}

func validateInterval(start, end civil.TimeOfDay) error {
	if start >= end {
		return fmt.Errorf("time_start %s must be before time_end %s", start, end)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if a.LocationID == uuid.Nil {
		return fmt.Errorf("location_id is required")
	}
	if a.ServiceDate.IsZero() {
		return fmt.Errorf("service_date is required")
	}
	if err := validateInterval(a.TimeStart, a.TimeEnd); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = StatusBooked
	}
	if !a.Status.Valid() {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	n, err := s.appts.CountOverlapping(ctx, a.DoctorID, a.ServiceDate, a.TimeStart, a.TimeEnd, uuid.Nil)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrSlotConflict
	}
	if err := s.appts.Create(ctx, a); err != nil {
		return err
	}
	s.invalidateDay(a.DoctorID, a.LocationID, a.ServiceDate)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

func (s *Service) ListByDay(ctx context.Context, doctorID, locationID uuid.UUID, date civil.Date) ([]*Appointment, error) {
	return s.appts.ListByDay(ctx, doctorID, locationID, date)
}

func (s *Service) ListByRange(ctx context.Context, doctorID uuid.UUID, from, to civil.Date) ([]*Appointment, error) {
	return s.appts.ListByRange(ctx, doctorID, from, to)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByPatient(ctx, patientID, limit, offset)
}

// Update edits non-lifecycle fields (reason, notes, price). Status moves go
// through Apply or Reschedule so the state machine stays authoritative.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *Patch) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.apply(a)
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Patch carries the optional fields of an appointment update.
type Patch struct {
	Reason     *string `json:"reason,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	PriceCents *int64  `json:"price_cents,omitempty"`
	Currency   *string `json:"currency,omitempty"`
}

func (p *Patch) apply(a *Appointment) {
	if p.Reason != nil {
		a.Reason = p.Reason
	}
	if p.Notes != nil {
		a.Notes = p.Notes
	}
	if p.PriceCents != nil {
		a.PriceCents = p.PriceCents
	}
	if p.Currency != nil {
		a.Currency = p.Currency
	}
}

// Apply runs a lifecycle action against the appointment's state machine.
// Invalid transitions fail with ErrInvalidTransition; callers can offer
// AllowedActions(status) to the user instead of guessing.
func (s *Service) Apply(ctx context.Context, id uuid.UUID, action Action) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanApply(a.Status, action) {
		return nil, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, a.Status)
	}
	now := time.Now().UTC()
	a.Status = Next(a.Status, action)
	switch action {
	case ActionCancelByPatient, ActionCancelByStaff:
		a.CancelledAt = &now
	case ActionComplete:
		a.CompletedAt = &now
	}
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	s.invalidateDay(a.DoctorID, a.LocationID, a.ServiceDate)
	return a, nil
}

// RescheduleRequest carries the target of a move. Fields left nil keep the
// appointment's current value. A drag-drop day move supplies only
// ServiceDate: the original time of day and duration carry over.
type RescheduleRequest struct {
	DoctorID    *uuid.UUID       `json:"doctor_id,omitempty"`
	LocationID  *uuid.UUID       `json:"location_id,omitempty"`
	ServiceDate *civil.Date      `json:"service_date,omitempty"`
	TimeStart   *civil.TimeOfDay `json:"time_start,omitempty"`
	TimeEnd     *civil.TimeOfDay `json:"time_end,omitempty"`
}

// Reschedule moves an appointment, preserving its exact duration unless the
// caller supplies an explicit end time. The move is validated against the
// state machine and against overlapping bookings at the target; a conflict
// fails with ErrSlotConflict and leaves the appointment untouched.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanApply(a.Status, ActionReschedule) {
		return nil, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ActionReschedule, a.Status)
	}

	prevDoctor, prevLocation, prevDate := a.DoctorID, a.LocationID, a.ServiceDate
	duration := a.Duration()

	if req.DoctorID != nil {
		a.DoctorID = *req.DoctorID
	}
	if req.LocationID != nil {
		a.LocationID = *req.LocationID
	}
	if req.ServiceDate != nil {
		a.ServiceDate = *req.ServiceDate
	}
	if req.TimeStart != nil {
		a.TimeStart = *req.TimeStart
		if req.TimeEnd != nil {
			a.TimeEnd = *req.TimeEnd
		} else {
			a.TimeEnd = a.TimeStart.Add(duration)
		}
	} else if req.TimeEnd != nil {
		a.TimeEnd = *req.TimeEnd
	}
	if err := validateInterval(a.TimeStart, a.TimeEnd); err != nil {
		return nil, err
	}

	n, err := s.appts.CountOverlapping(ctx, a.DoctorID, a.ServiceDate, a.TimeStart, a.TimeEnd, a.ID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrSlotConflict
	}

	a.Status = Next(a.Status, ActionReschedule)
	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	s.invalidateDay(prevDoctor, prevLocation, prevDate)
	s.invalidateDay(a.DoctorID, a.LocationID, a.ServiceDate)
	return a, nil
}
