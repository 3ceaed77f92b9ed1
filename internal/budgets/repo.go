package budgets

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook-backend/internal/money"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const budgetColumns = `id::text, user_id::text, month, year, category, limit_amount::text, spent_amount::text, created_at`

func scanBudget(row pgx.Row) (Budget, error) {
	var (
		b     Budget
		limit money.Numeric
		spent money.Numeric
	)
	err := row.Scan(&b.ID, &b.UserID, &b.Month, &b.Year, &b.Category, &limit, &spent, &b.CreatedAt)
	if err != nil {
		return Budget{}, err
	}
	b.LimitAmount = limit.Decimal
	b.SpentAmount = spent.Decimal
	return b, nil
}

func (r *Repository) Create(ctx context.Context, userID string, in CreateInput) (Budget, error) {
	row := r.Pool.QueryRow(ctx, `
INSERT INTO budgets (user_id, month, year, category, limit_amount, spent_amount)
VALUES ($1::uuid, $2, $3, $4, $5, $6)
RETURNING `+budgetColumns,
		userID, in.Month, in.Year, in.Category, in.LimitAmount.StringFixed(2), in.SpentAmount.StringFixed(2))
	return scanBudget(row)
}

// ListForUser returns a user's budgets, optionally narrowed to a month
// and/or year.
func (r *Repository) ListForUser(ctx context.Context, userID string, month, year *int) ([]Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1::uuid`
	args := []any{userID}
	if month != nil {
		args = append(args, *month)
		query += ` AND month = $2`
	}
	if year != nil {
		args = append(args, *year)
		query += ` AND year = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, budgetID, userID string) (Budget, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = $1::uuid AND user_id = $2::uuid`,
		budgetID, userID)
	b, err := scanBudget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	}
	return b, err
}

func (r *Repository) Update(ctx context.Context, budgetID, userID string, in UpdateInput) (Budget, error) {
	sets := []string{}
	args := []any{budgetID, userID}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if in.Month != nil {
		add("month", *in.Month)
	}
	if in.Year != nil {
		add("year", *in.Year)
	}
	if in.Category != nil {
		add("category", *in.Category)
	}
	if in.LimitAmount != nil {
		add("limit_amount", in.LimitAmount.StringFixed(2))
	}
	if in.SpentAmount != nil {
		add("spent_amount", in.SpentAmount.StringFixed(2))
	}
	if len(sets) == 0 {
		return r.Get(ctx, budgetID, userID)
	}

	row := r.Pool.QueryRow(ctx, `
UPDATE budgets SET `+strings.Join(sets, ", ")+`
WHERE id = $1::uuid AND user_id = $2::uuid
RETURNING `+budgetColumns, args...)
	b, err := scanBudget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Budget{}, ErrBudgetNotFound
	}
	return b, err
}

func (r *Repository) Delete(ctx context.Context, budgetID, userID string) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM budgets WHERE id = $1::uuid AND user_id = $2::uuid`,
		budgetID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

// DriftReport compares a budget's stored spent total with the amount
// recomputed from the transaction ledger.
type DriftReport struct {
	BudgetID string          `json:"budget_id"`
	Stored   decimal.Decimal `json:"stored_spent"`
	Computed decimal.Decimal `json:"computed_spent"`
	Drift    decimal.Decimal `json:"drift"`
}

// Reconcile recomputes spent from debit transactions in the budget's
// month/year/category across the owner's accounts. Read-only: it reports
// drift without correcting it.
func (r *Repository) Reconcile(ctx context.Context, budgetID, userID string) (DriftReport, error) {
	b, err := r.Get(ctx, budgetID, userID)
	if err != nil {
		return DriftReport{}, err
	}

	var computed money.Numeric
	err = r.Pool.QueryRow(ctx, `
SELECT COALESCE(SUM(t.amount), 0)::text
FROM transactions t
JOIN accounts a ON a.id = t.account_id
WHERE a.user_id = $1::uuid
  AND EXTRACT(MONTH FROM t.txn_date) = $2
  AND EXTRACT(YEAR FROM t.txn_date) = $3
  AND LOWER(TRIM(COALESCE(t.category, ''))) = $4
  AND t.txn_type = 'debit'
`, userID, b.Month, b.Year, normalizeCategory(b.Category)).Scan(&computed)
	if err != nil {
		return DriftReport{}, err
	}

	return DriftReport{
		BudgetID: b.ID,
		Stored:   b.SpentAmount,
		Computed: computed.Decimal,
		Drift:    b.SpentAmount.Sub(computed.Decimal),
	}, nil
}
