package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apptbook/apptbook/pkg/civil"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Postgres-backed appointment repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, patient_id, doctor_id, location_id, specialty_id, status,
	service_date, time_start, time_end, reason, notes, price_cents, currency,
	created_at, updated_at, cancelled_at, completed_at`

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.LocationID, &a.SpecialtyID, &a.Status,
		&a.ServiceDate, &a.TimeStart, &a.TimeEnd, &a.Reason, &a.Notes, &a.PriceCents, &a.Currency,
		&a.CreatedAt, &a.UpdatedAt, &a.CancelledAt, &a.CompletedAt)
	return &a, err
}

func (p *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := p.pool.Exec(ctx, `
		INSERT INTO appointment (id, patient_id, doctor_id, location_id, specialty_id, status,
			service_date, time_start, time_end, reason, notes, price_cents, currency)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		a.ID, a.PatientID, a.DoctorID, a.LocationID, a.SpecialtyID, a.Status,
		a.ServiceDate, a.TimeStart, a.TimeEnd, a.Reason, a.Notes, a.PriceCents, a.Currency)
	return err
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(p.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (p *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE appointment
		SET doctor_id=$2, location_id=$3, specialty_id=$4, status=$5,
			service_date=$6, time_start=$7, time_end=$8, reason=$9, notes=$10,
			price_cents=$11, currency=$12, cancelled_at=$13, completed_at=$14, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.DoctorID, a.LocationID, a.SpecialtyID, a.Status,
		a.ServiceDate, a.TimeStart, a.TimeEnd, a.Reason, a.Notes,
		a.PriceCents, a.Currency, a.CancelledAt, a.CompletedAt)
	return err
}

func (p *repoPG) ListByDay(ctx context.Context, doctorID, locationID uuid.UUID, date civil.Date) ([]*Appointment, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE doctor_id = $1 AND location_id = $2 AND service_date = $3
		ORDER BY time_start`, doctorID, locationID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (p *repoPG) ListByRange(ctx context.Context, doctorID uuid.UUID, from, to civil.Date) ([]*Appointment, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE doctor_id = $1 AND service_date BETWEEN $2 AND $3
		ORDER BY service_date, time_start`, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (p *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := p.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE patient_id = $1
		ORDER BY service_date DESC, time_start DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collect(rows)
	return items, total, err
}

func (p *repoPG) CountOverlapping(ctx context.Context, doctorID uuid.UUID, date civil.Date, start, end civil.TimeOfDay, exclude uuid.UUID) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE doctor_id = $1 AND service_date = $2
		  AND status NOT IN ('cancelled_by_patient', 'cancelled_by_staff')
		  AND id <> $3
		  AND time_start < $4 AND time_end > $5`,
		doctorID, date, exclude, end, start).Scan(&n)
	return n, err
}

func collect(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
