package client

import (
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

// Wire types mirroring the server's JSON contract. The client defines its
// own copies so that importing it does not require the server's internal
// packages.

// Status is an appointment lifecycle state.
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

// Action is a lifecycle transition the server may accept.
type Action string

const (
	ActionConfirm         Action = "confirm"
	ActionComplete        Action = "complete"
	ActionReschedule      Action = "reschedule"
	ActionCancelByPatient Action = "cancel_by_patient"
	ActionCancelByStaff   Action = "cancel_by_staff"
	ActionNoShow          Action = "no_show"
)

// Appointment is one booked visit.
type Appointment struct {
	ID          uuid.UUID       `json:"id"`
	PatientID   uuid.UUID       `json:"patient_id"`
	DoctorID    uuid.UUID       `json:"doctor_id"`
	LocationID  uuid.UUID       `json:"location_id"`
	SpecialtyID *uuid.UUID      `json:"specialty_id,omitempty"`
	Status      Status          `json:"status"`
	ServiceDate civil.Date      `json:"service_date"`
	TimeStart   civil.TimeOfDay `json:"time_start"`
	TimeEnd     civil.TimeOfDay `json:"time_end"`
	Reason      *string         `json:"reason,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	PriceCents  *int64          `json:"price_cents,omitempty"`
	Currency    *string         `json:"currency,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// RescheduleRequest carries the target of a move. Fields left nil keep the
// appointment's current value; a day move supplies only ServiceDate and the
// server preserves the duration.
type RescheduleRequest struct {
	DoctorID    *uuid.UUID       `json:"doctor_id,omitempty"`
	LocationID  *uuid.UUID       `json:"location_id,omitempty"`
	ServiceDate *civil.Date      `json:"service_date,omitempty"`
	TimeStart   *civil.TimeOfDay `json:"time_start,omitempty"`
	TimeEnd     *civil.TimeOfDay `json:"time_end,omitempty"`
}

// OfficeHourRule is one recurring weekly availability rule. Which of
// DoctorID and LocationID are set determines the rule's scope.
type OfficeHourRule struct {
	ID         uuid.UUID       `json:"id"`
	DayOfWeek  time.Weekday    `json:"day_of_week"`
	StartTime  civil.TimeOfDay `json:"start_time"`
	EndTime    civil.TimeOfDay `json:"end_time"`
	DoctorID   *uuid.UUID      `json:"doctor_id,omitempty"`
	LocationID *uuid.UUID      `json:"location_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Window is a contiguous free time-of-day interval, half-open.
type Window struct {
	Start civil.TimeOfDay `json:"time_start"`
	End   civil.TimeOfDay `json:"time_end"`
}

// Slot is one bookable increment inside a free window.
type Slot struct {
	Start civil.TimeOfDay `json:"time_start"`
	End   civil.TimeOfDay `json:"time_end"`
}

// Event is a rendered calendar entry.
type Event struct {
	ID          uuid.UUID    `json:"id"`
	Start       time.Time    `json:"start"`
	End         time.Time    `json:"end"`
	Title       string       `json:"title"`
	Color       string       `json:"color"`
	DoctorID    uuid.UUID    `json:"doctor_id"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

// Badge is a single-day event shown inside a month cell.
type Badge struct {
	EventID  uuid.UUID `json:"event_id"`
	Title    string    `json:"title"`
	Color    string    `json:"color"`
	Position int       `json:"position"`
}

// Band is a multi-day event bar; Lane is its row in the month grid.
type Band struct {
	EventID uuid.UUID  `json:"event_id"`
	Title   string     `json:"title"`
	Color   string     `json:"color"`
	Lane    int        `json:"lane"`
	From    civil.Date `json:"from"`
	To      civil.Date `json:"to"`
}

// MonthCell is one day square of the month grid with its badges.
type MonthCell struct {
	Date         civil.Date `json:"date"`
	Day          int        `json:"day"`
	CurrentMonth bool       `json:"current_month"`
	Badges       []Badge    `json:"badges"`
	MoreCount    int        `json:"more_count"`
}

// MonthView is the month layout.
type MonthView struct {
	Year  int         `json:"year"`
	Month time.Month  `json:"month"`
	Cells []MonthCell `json:"cells"`
	Bands []Band      `json:"bands"`
}

// Box places an event inside a day column, in percentages.
type Box struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PlacedEvent pairs an event with its geometry.
type PlacedEvent struct {
	Event Event `json:"event"`
	Box   Box   `json:"box"`
}

// DayColumn is one date's column in the week or day view.
type DayColumn struct {
	Date          civil.Date    `json:"date"`
	Events        []PlacedEvent `json:"events"`
	DisabledHours []bool        `json:"disabled_hours"`
}

// WeekView is the layout for a consecutive run of days.
type WeekView struct {
	StartHour int         `json:"start_hour"`
	EndHour   int         `json:"end_hour"`
	Days      []DayColumn `json:"days"`
}
