package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusBooked             Status = "booked"
	StatusConfirmed          Status = "confirmed"
	StatusRescheduled        Status = "rescheduled"
	StatusCompleted          Status = "completed"
	StatusCancelledByPatient Status = "cancelled_by_patient"
	StatusCancelledByStaff   Status = "cancelled_by_staff"
	StatusNoShow             Status = "no_show"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusConfirmed, StatusRescheduled, StatusCompleted,
		StatusCancelledByPatient, StatusCancelledByStaff, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelledByPatient, StatusCancelledByStaff, StatusNoShow:
		return true
	}
	return false
}

// Action is a requested lifecycle transition.
type Action string

const (
	ActionConfirm         Action = "confirm"
	ActionComplete        Action = "complete"
	ActionReschedule      Action = "reschedule"
	ActionCancelByPatient Action = "cancel_by_patient"
	ActionCancelByStaff   Action = "cancel_by_staff"
	ActionNoShow          Action = "no_show"
)

// transitions lists, per status, the permitted actions. Anything absent is
// invalid. A reschedule from an already rescheduled appointment keeps the
// status unchanged rather than introducing a new state.
var transitions = map[Status][]Action{
	StatusBooked: {
		ActionConfirm, ActionReschedule,
		ActionCancelByPatient, ActionCancelByStaff, ActionNoShow,
	},
	StatusConfirmed: {
		ActionComplete, ActionReschedule,
		ActionCancelByPatient, ActionCancelByStaff, ActionNoShow,
	},
	StatusRescheduled: {
		ActionReschedule, ActionCancelByPatient, ActionCancelByStaff,
	},
}

// AllowedActions returns the actions that may be offered for an appointment
// in the given status. Terminal statuses yield an empty set.
func AllowedActions(s Status) []Action {
	actions := transitions[s]
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// CanApply reports whether action a is valid for status s.
func CanApply(s Status, a Action) bool {
	for _, allowed := range transitions[s] {
		if allowed == a {
			return true
		}
	}
	return false
}

// Next returns the status that applying a to s produces. The caller must
// have checked CanApply first; Next on an invalid pair returns s unchanged.
func Next(s Status, a Action) Status {
	if !CanApply(s, a) {
		return s
	}
	switch a {
	case ActionConfirm:
		return StatusConfirmed
	case ActionComplete:
		return StatusCompleted
	case ActionReschedule:
		return StatusRescheduled
	case ActionCancelByPatient:
		return StatusCancelledByPatient
	case ActionCancelByStaff:
		return StatusCancelledByStaff
	case ActionNoShow:
		return StatusNoShow
	}
	return s
}

// Appointment maps to the appointment table. It is the authoritative
// busy-interval record for availability resolution.
type Appointment struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	PatientID   uuid.UUID       `db:"patient_id" json:"patient_id"`
	DoctorID    uuid.UUID       `db:"doctor_id" json:"doctor_id"`
	LocationID  uuid.UUID       `db:"location_id" json:"location_id"`
	SpecialtyID *uuid.UUID      `db:"specialty_id" json:"specialty_id,omitempty"`
	Status      Status          `db:"status" json:"status"`
	ServiceDate civil.Date      `db:"service_date" json:"service_date"`
	TimeStart   civil.TimeOfDay `db:"time_start" json:"time_start"`
	TimeEnd     civil.TimeOfDay `db:"time_end" json:"time_end"`
	Reason      *string         `db:"reason" json:"reason,omitempty"`
	Notes       *string         `db:"notes" json:"notes,omitempty"`
	PriceCents  *int64          `db:"price_cents" json:"price_cents,omitempty"`
	Currency    *string         `db:"currency" json:"currency,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
	CancelledAt *time.Time      `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CompletedAt *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}

// Cancelled reports whether the appointment no longer occupies its
// interval. Cancelled appointments are excluded from busy-interval queries.
func (a *Appointment) Cancelled() bool {
	return a.Status == StatusCancelledByPatient || a.Status == StatusCancelledByStaff
}

// Duration returns the booked length of the appointment.
func (a *Appointment) Duration() time.Duration {
	return a.TimeEnd.Sub(a.TimeStart)
}
