// Package calendar turns appointments into renderable geometry: month grids
// with multi-day lanes and overflow counts, and week/day columns with
// overlap-cluster widths. Layout is pure computation; fetching lives in the
// service.
package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/internal/domain/appointment"
)

// Event is the view model the layout engine works on. It is derived from an
// appointment on every refresh and never persisted.
type Event struct {
	ID       uuid.UUID `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Title    string    `json:"title"`
	Color    string    `json:"color"`
	DoctorID uuid.UUID `json:"doctor_id"`

	Appointment *appointment.Appointment `json:"appointment,omitempty"`
}

// statusColors drive the badge color per lifecycle state.
var statusColors = map[appointment.Status]string{
	appointment.StatusBooked:             "#3b82f6",
	appointment.StatusConfirmed:          "#22c55e",
	appointment.StatusRescheduled:        "#f59e0b",
	appointment.StatusCompleted:          "#6b7280",
	appointment.StatusCancelledByPatient: "#ef4444",
	appointment.StatusCancelledByStaff:   "#ef4444",
	appointment.StatusNoShow:             "#a855f7",
}

// FromAppointment builds the calendar event for an appointment, anchoring
// its civil date and times in the given location.
func FromAppointment(a *appointment.Appointment, loc *time.Location) Event {
	title := string(a.Status)
	if a.Reason != nil && *a.Reason != "" {
		title = *a.Reason
	}
	color, ok := statusColors[a.Status]
	if !ok {
		color = "#3b82f6"
	}
	return Event{
		ID:          a.ID,
		Start:       a.ServiceDate.At(a.TimeStart, loc),
		End:         a.ServiceDate.At(a.TimeEnd, loc),
		Title:       title,
		Color:       color,
		DoctorID:    a.DoctorID,
		Appointment: a,
	}
}

// MultiDay reports whether the event spans more than one calendar day.
func (e Event) MultiDay() bool {
	sy, sm, sd := e.Start.Date()
	ey, em, ed := e.End.Date()
	return sy != ey || sm != em || sd != ed
}
