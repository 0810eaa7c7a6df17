package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const tableColumns = `id, number, qr_slug, is_active, created_at`

func scanTable(row pgx.Row) (CafeTable, error) {
	var t CafeTable
	err := row.Scan(&t.ID, &t.Number, &t.QrSlug, &t.IsActive, &t.CreatedAt)
	return t, err
}

type CreateTableParams struct {
	Number int32
	QrSlug string
}

func (q *Queries) CreateTable(ctx context.Context, arg CreateTableParams) (CafeTable, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO cafe_tables (number, qr_slug)
		VALUES ($1, $2)
		RETURNING `+tableColumns,
		arg.Number, arg.QrSlug,
	)
	return scanTable(row)
}

func (q *Queries) GetTable(ctx context.Context, id uuid.UUID) (CafeTable, error) {
	row := q.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM cafe_tables WHERE id = $1`, id)
	return scanTable(row)
}

// GetTableBySlug resolves the slug embedded in a table's QR code.
func (q *Queries) GetTableBySlug(ctx context.Context, qrSlug string) (CafeTable, error) {
	row := q.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM cafe_tables WHERE qr_slug = $1 AND is_active`, qrSlug)
	return scanTable(row)
}

func (q *Queries) ListTables(ctx context.Context) ([]CafeTable, error) {
	rows, err := q.db.Query(ctx, `SELECT `+tableColumns+` FROM cafe_tables WHERE is_active ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tables []CafeTable
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
