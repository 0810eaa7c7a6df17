package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const staffColumns = `id, email, hashed_password, full_name, role, is_active, created_at, updated_at`

func scanStaff(row pgx.Row) (Staff, error) {
	var s Staff
	err := row.Scan(&s.ID, &s.Email, &s.HashedPassword, &s.FullName, &s.Role, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

type CreateStaffParams struct {
	Email          string
	HashedPassword string
	FullName       string
	Role           string
}

func (q *Queries) CreateStaff(ctx context.Context, arg CreateStaffParams) (Staff, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO staff (email, hashed_password, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+staffColumns,
		arg.Email, arg.HashedPassword, arg.FullName, arg.Role,
	)
	return scanStaff(row)
}

func (q *Queries) GetStaff(ctx context.Context, id uuid.UUID) (Staff, error) {
	row := q.db.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1 AND is_active`, id)
	return scanStaff(row)
}

func (q *Queries) GetStaffByEmail(ctx context.Context, email string) (Staff, error) {
	row := q.db.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE email = $1 AND is_active`, email)
	return scanStaff(row)
}

func (q *Queries) ListStaff(ctx context.Context) ([]Staff, error) {
	rows, err := q.db.Query(ctx, `SELECT `+staffColumns+` FROM staff WHERE is_active ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var staff []Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

func (q *Queries) DeactivateStaff(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deactivated uuid.UUID
	err := q.db.QueryRow(ctx, `
		UPDATE staff SET is_active = FALSE, updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING id`, id,
	).Scan(&deactivated)
	return deactivated, err
}
