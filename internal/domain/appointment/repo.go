package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	ListByDay(ctx context.Context, doctorID, locationID uuid.UUID, date civil.Date) ([]*Appointment, error)
	// ListByRange returns appointments for a doctor whose service date falls
	// in [from, to], any location. Used by the calendar views.
	ListByRange(ctx context.Context, doctorID uuid.UUID, from, to civil.Date) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	// CountOverlapping counts non-cancelled appointments for the doctor on
	// the date whose interval intersects [start, end), excluding the given
	// appointment id. Used for reschedule conflict detection.
	CountOverlapping(ctx context.Context, doctorID uuid.UUID, date civil.Date, start, end civil.TimeOfDay, exclude uuid.UUID) (int, error)
}
