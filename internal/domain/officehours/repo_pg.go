package officehours

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a Postgres-backed rule repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const ruleCols = `id, day_of_week, start_time, end_time, doctor_id, location_id, created_at, updated_at`

func scanRule(row pgx.Row) (*Rule, error) {
	var r Rule
	err := row.Scan(&r.ID, &r.DayOfWeek, &r.StartTime, &r.EndTime,
		&r.DoctorID, &r.LocationID, &r.CreatedAt, &r.UpdatedAt)
	return &r, err
}

func (p *repoPG) Create(ctx context.Context, r *Rule) error {
	r.ID = uuid.New()
	_, err := p.pool.Exec(ctx, `
		INSERT INTO office_hour_rule (id, day_of_week, start_time, end_time, doctor_id, location_id)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		r.ID, r.DayOfWeek, r.StartTime, r.EndTime, r.DoctorID, r.LocationID)
	return err
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return scanRule(p.pool.QueryRow(ctx, `SELECT `+ruleCols+` FROM office_hour_rule WHERE id = $1`, id))
}

func (p *repoPG) Update(ctx context.Context, r *Rule) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE office_hour_rule
		SET day_of_week=$2, start_time=$3, end_time=$4, doctor_id=$5, location_id=$6, updated_at=NOW()
		WHERE id = $1`,
		r.ID, r.DayOfWeek, r.StartTime, r.EndTime, r.DoctorID, r.LocationID)
	return err
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM office_hour_rule WHERE id = $1`, id)
	return err
}

func (p *repoPG) List(ctx context.Context, filter Filter, limit, offset int) ([]*Rule, int, error) {
	query := `SELECT ` + ruleCols + ` FROM office_hour_rule WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM office_hour_rule WHERE 1=1`
	var args []interface{}
	idx := 1

	if filter.DoctorID != nil {
		clause := fmt.Sprintf(` AND doctor_id = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, *filter.DoctorID)
		idx++
	}
	if filter.LocationID != nil {
		clause := fmt.Sprintf(` AND location_id = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, *filter.LocationID)
		idx++
	}
	if filter.DayOfWeek != nil {
		clause := fmt.Sprintf(` AND day_of_week = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, *filter.DayOfWeek)
		idx++
	}

	var total int
	if err := p.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY day_of_week, start_time LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, r)
	}
	return items, total, rows.Err()
}

func (p *repoPG) ListCandidates(ctx context.Context, doctorID, locationID uuid.UUID) ([]*Rule, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+ruleCols+` FROM office_hour_rule
		WHERE (doctor_id IS NULL OR doctor_id = $1)
		  AND (location_id IS NULL OR location_id = $2)
		ORDER BY day_of_week, start_time`, doctorID, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
