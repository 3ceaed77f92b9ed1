package bills

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook-backend/internal/money"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const billColumns = `id::text, user_id::text, account_id::text, biller_name, due_date, amount_due::text, status, auto_pay, created_at`

func scanBill(row pgx.Row) (Bill, error) {
	var (
		b   Bill
		due money.Numeric
	)
	err := row.Scan(&b.ID, &b.UserID, &b.AccountID, &b.BillerName, &b.DueDate, &due, &b.Status, &b.AutoPay, &b.CreatedAt)
	if err != nil {
		return Bill{}, err
	}
	b.AmountDue = due.Decimal
	return b, nil
}

func (r *Repository) Create(ctx context.Context, userID string, in CreateInput) (Bill, error) {
	status := in.Status
	if status == "" {
		status = StatusUpcoming
	}
	row := r.Pool.QueryRow(ctx, `
INSERT INTO bills (user_id, account_id, biller_name, due_date, amount_due, status, auto_pay)
VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7)
RETURNING `+billColumns,
		userID, in.AccountID, in.BillerName, in.DueDate, in.AmountDue.StringFixed(2), status, in.AutoPay)
	return scanBill(row)
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Bill, error) {
	return r.list(ctx, `SELECT `+billColumns+` FROM bills WHERE user_id = $1::uuid ORDER BY due_date`, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]Bill, error) {
	return r.list(ctx, `SELECT `+billColumns+` FROM bills ORDER BY created_at DESC`)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Bill, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Bill, 0)
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, billID, userID string) (Bill, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = $1::uuid AND user_id = $2::uuid`,
		billID, userID)
	b, err := scanBill(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Bill{}, ErrBillNotFound
	}
	return b, err
}

// save persists every mutable field in one statement; the caller has
// already applied the patch in memory.
func (r *Repository) save(ctx context.Context, b Bill) (Bill, error) {
	row := r.Pool.QueryRow(ctx, `
UPDATE bills
SET account_id = $2::uuid, biller_name = $3, due_date = $4, amount_due = $5, status = $6, auto_pay = $7
WHERE id = $1::uuid
RETURNING `+billColumns,
		b.ID, b.AccountID, b.BillerName, b.DueDate, b.AmountDue.StringFixed(2), b.Status, b.AutoPay)
	out, err := scanBill(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Bill{}, ErrBillNotFound
	}
	return out, err
}

func (r *Repository) Delete(ctx context.Context, billID, userID string) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM bills WHERE id = $1::uuid AND user_id = $2::uuid`,
		billID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBillNotFound
	}
	return nil
}

// DueSoonUnpaid returns bills not yet paid whose due date falls on or
// before the given day. Used by the reminder sweep.
func (r *Repository) DueSoonUnpaid(ctx context.Context, until string) ([]Bill, error) {
	return r.list(ctx, `
SELECT `+billColumns+` FROM bills WHERE status <> $1 AND due_date <= $2::date`,
		StatusPaid, until)
}
