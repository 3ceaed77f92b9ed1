package accounts

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

const accountColumns = `id::text, user_id::text, bank_name, account_type, masked_account, currency, balance::text, created_at`

func scanAccount(row pgx.Row) (Account, error) {
	var (
		a   Account
		bal money.Numeric
	)
	err := row.Scan(&a.ID, &a.UserID, &a.BankName, &a.AccountType, &a.MaskedAccount, &a.Currency, &bal, &a.CreatedAt)
	if err != nil {
		return Account{}, err
	}
	a.Balance = bal.Decimal
	return a, nil
}

func (r *Repository) Create(ctx context.Context, userID string, in CreateInput) (Account, error) {
	if in.Currency == "" {
		in.Currency = "USD"
	}
	row := r.Pool.QueryRow(ctx, `
INSERT INTO accounts (user_id, bank_name, account_type, masked_account, currency, balance)
VALUES ($1::uuid, $2, $3, $4, $5, $6)
RETURNING `+accountColumns,
		userID, in.BankName, NormalizeType(in.AccountType), in.MaskedAccount, in.Currency, in.Balance.StringFixed(2))
	return scanAccount(row)
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = $1::uuid ORDER BY created_at DESC`, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Account, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Get scopes by owner. GetAny is for admin and internal callers.
func (r *Repository) Get(ctx context.Context, accountID, userID string) (Account, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1::uuid AND user_id = $2::uuid`,
		accountID, userID)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return a, err
}

func (r *Repository) GetAny(ctx context.Context, accountID string) (Account, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1::uuid`, accountID)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return a, err
}

func (r *Repository) Update(ctx context.Context, accountID, userID string, in UpdateInput) (Account, error) {
	sets := []string{}
	args := []any{accountID, userID}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if in.BankName != nil {
		add("bank_name", *in.BankName)
	}
	if in.AccountType != nil {
		add("account_type", NormalizeType(*in.AccountType))
	}
	if in.MaskedAccount != nil {
		add("masked_account", *in.MaskedAccount)
	}
	if in.Currency != nil {
		add("currency", *in.Currency)
	}
	if in.Balance != nil {
		// Manual balance edits bypass the ledger; drift becomes visible
		// through ReconcileBalance.
		add("balance", in.Balance.StringFixed(2))
	}
	if len(sets) == 0 {
		return r.Get(ctx, accountID, userID)
	}

	row := r.Pool.QueryRow(ctx, `
UPDATE accounts SET `+strings.Join(sets, ", ")+`
WHERE id = $1::uuid AND user_id = $2::uuid
RETURNING `+accountColumns, args...)
	a, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return a, err
}

type DeleteSummary struct {
	TxnsDeleted  int64 `json:"txns_deleted"`
	BillsDeleted int64 `json:"bills_deleted"`
}

// Delete removes dependents first, commits, then deletes the account in a
// second transaction. A failure on the account delete leaves the database
// consistent because the dependents are already gone.
func (r *Repository) Delete(ctx context.Context, accountID, userID string) (DeleteSummary, error) {
	if _, err := r.Get(ctx, accountID, userID); err != nil {
		return DeleteSummary{}, err
	}

	var summary DeleteSummary

	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return summary, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE account_id = $1::uuid`, accountID)
	if err != nil {
		return summary, err
	}
	summary.TxnsDeleted = tag.RowsAffected()

	tag, err = tx.Exec(ctx, `DELETE FROM bills WHERE account_id = $1::uuid`, accountID)
	if err != nil {
		return summary, err
	}
	summary.BillsDeleted = tag.RowsAffected()

	if err := tx.Commit(ctx); err != nil {
		return summary, err
	}

	if _, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1::uuid`, accountID); err != nil {
		return summary, err
	}
	return summary, nil
}

// BalanceDrift compares the stored running balance with the signed sum of
// the account's whole transaction history.
type BalanceDrift struct {
	AccountID string          `json:"account_id"`
	Stored    decimal.Decimal `json:"stored_balance"`
	Computed  decimal.Decimal `json:"computed_balance"`
	Drift     decimal.Decimal `json:"drift"`
}

// ReconcileBalance recomputes the balance from the ledger (credits minus
// debits, anything not "debit" counting as credit, matching the engine's
// booking rule). Read-only.
func (r *Repository) ReconcileBalance(ctx context.Context, accountID, userID string) (BalanceDrift, error) {
	a, err := r.Get(ctx, accountID, userID)
	if err != nil {
		return BalanceDrift{}, err
	}

	var computed money.Numeric
	err = r.Pool.QueryRow(ctx, `
SELECT COALESCE(SUM(CASE WHEN txn_type = 'debit' THEN -amount ELSE amount END), 0)::text
FROM transactions
WHERE account_id = $1::uuid
`, accountID).Scan(&computed)
	if err != nil {
		return BalanceDrift{}, err
	}

	return BalanceDrift{
		AccountID: a.ID,
		Stored:    a.Balance,
		Computed:  computed.Decimal,
		Drift:     a.Balance.Sub(computed.Decimal),
	}, nil
}
