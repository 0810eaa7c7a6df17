package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const menuItemColumns = `id, name, description, category, price, is_available, stock_qty, created_at, updated_at`

func scanMenuItem(row pgx.Row) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Category, &m.Price, &m.IsAvailable, &m.StockQty, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

type CreateMenuItemParams struct {
	Name        string
	Description pgtype.Text
	Category    string
	Price       pgtype.Numeric
	IsAvailable bool
	StockQty    pgtype.Int4
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO menu_items (name, description, category, price, is_available, stock_qty)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+menuItemColumns,
		arg.Name, arg.Description, arg.Category, arg.Price, arg.IsAvailable, arg.StockQty,
	)
	return scanMenuItem(row)
}

func (q *Queries) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id)
	return scanMenuItem(row)
}

// GetMenuItemForOrder is the catalog read the order builder consumes: current
// price, availability, category, and remaining stock.
func (q *Queries) GetMenuItemForOrder(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return q.GetMenuItem(ctx, id)
}

func (q *Queries) ListMenuItems(ctx context.Context, category string) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+menuItemColumns+` FROM menu_items
		WHERE ($1::text = '' OR category = $1::text)
		ORDER BY category, name`, category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

type UpdateMenuItemParams struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	Category    string
	Price       pgtype.Numeric
	IsAvailable bool
	StockQty    pgtype.Int4
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, category = $4, price = $5,
		    is_available = $6, stock_qty = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+menuItemColumns,
		arg.ID, arg.Name, arg.Description, arg.Category, arg.Price, arg.IsAvailable, arg.StockQty,
	)
	return scanMenuItem(row)
}

type DecrementMenuItemStockParams struct {
	ID       uuid.UUID
	Quantity int32
}

// DecrementMenuItemStock takes stock for an order line. The stock_qty >= $2
// guard is what keeps stock from going negative under concurrent orders:
// the losing transaction gets pgx.ErrNoRows instead of a bad write.
// Availability flips off when the decrement empties the stock.
func (q *Queries) DecrementMenuItemStock(ctx context.Context, arg DecrementMenuItemStockParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE menu_items
		SET stock_qty = stock_qty - $2,
		    is_available = (stock_qty - $2) > 0,
		    updated_at = now()
		WHERE id = $1 AND stock_qty IS NOT NULL AND stock_qty >= $2
		RETURNING `+menuItemColumns,
		arg.ID, arg.Quantity,
	)
	return scanMenuItem(row)
}

type RestockMenuItemParams struct {
	ID       uuid.UUID
	StockQty int32
}

// RestockMenuItem sets the absolute stock level and re-derives availability.
func (q *Queries) RestockMenuItem(ctx context.Context, arg RestockMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE menu_items
		SET stock_qty = $2, is_available = $2 > 0, updated_at = now()
		WHERE id = $1
		RETURNING `+menuItemColumns,
		arg.ID, arg.StockQty,
	)
	return scanMenuItem(row)
}
