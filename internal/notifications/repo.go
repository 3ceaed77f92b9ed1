package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const notificationColumns = `id::text, user_id::text, type, title, message, scheduled_date, sent, created_at`

func scanNotification(row pgx.Row) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.ScheduledDate, &n.Sent, &n.CreatedAt)
	return n, err
}

func (r *Repository) Create(ctx context.Context, userID, typ, title, message string, scheduled *time.Time) (Notification, error) {
	row := r.Pool.QueryRow(ctx, `
INSERT INTO notifications (user_id, type, title, message, scheduled_date)
VALUES ($1::uuid, $2, $3, $4, $5)
RETURNING `+notificationColumns, userID, typ, title, message, scheduled)
	return scanNotification(row)
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1::uuid ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) MarkSent(ctx context.Context, notificationID, userID string) (Notification, error) {
	row := r.Pool.QueryRow(ctx, `
UPDATE notifications SET sent = TRUE
WHERE id = $1::uuid AND user_id = $2::uuid
RETURNING `+notificationColumns, notificationID, userID)
	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Notification{}, ErrNotificationNotFound
	}
	return n, err
}

// Exists is the sweep's dedupe check: same user, same title, same
// scheduled date means the reminder was already created.
func (r *Repository) Exists(ctx context.Context, userID, title string, scheduled time.Time) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM notifications
	WHERE user_id = $1::uuid AND title = $2 AND scheduled_date = $3
)`, userID, title, scheduled).Scan(&exists)
	return exists, err
}
