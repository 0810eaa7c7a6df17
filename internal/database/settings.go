package database

import "context"

func (q *Queries) GetSettings(ctx context.Context) (Settings, error) {
	var s Settings
	err := q.db.QueryRow(ctx, `
		SELECT id, approval_mode, auto_clear_normal_hours, auto_clear_cake_days, updated_at
		FROM settings WHERE id = 1`,
	).Scan(&s.ID, &s.ApprovalMode, &s.AutoClearNormalHours, &s.AutoClearCakeDays, &s.UpdatedAt)
	return s, err
}

type UpdateSettingsParams struct {
	ApprovalMode         string
	AutoClearNormalHours int32
	AutoClearCakeDays    int32
}

func (q *Queries) UpdateSettings(ctx context.Context, arg UpdateSettingsParams) (Settings, error) {
	var s Settings
	err := q.db.QueryRow(ctx, `
		UPDATE settings
		SET approval_mode = $1, auto_clear_normal_hours = $2, auto_clear_cake_days = $3, updated_at = now()
		WHERE id = 1
		RETURNING id, approval_mode, auto_clear_normal_hours, auto_clear_cake_days, updated_at`,
		arg.ApprovalMode, arg.AutoClearNormalHours, arg.AutoClearCakeDays,
	).Scan(&s.ID, &s.ApprovalMode, &s.AutoClearNormalHours, &s.AutoClearCakeDays, &s.UpdatedAt)
	return s, err
}
