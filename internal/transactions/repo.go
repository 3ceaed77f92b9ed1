package transactions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook-backend/internal/ledger"
	"github.com/finbook/finbook-backend/internal/money"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// Repo reads transaction history. Writes happen only through the ledger
// engine (Booker and Importer); history has no update path.
type Repo struct {
	Pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

const txnColumns = `t.id::text, t.account_id::text, t.description, t.category, t.amount::text, t.currency, t.txn_type, t.merchant, t.txn_date, t.posted_date, t.created_at`

func scanTxn(row pgx.Row) (ledger.Transaction, error) {
	var (
		t   ledger.Transaction
		amt money.Numeric
	)
	err := row.Scan(&t.ID, &t.AccountID, &t.Description, &t.Category, &amt, &t.Currency, &t.TxnType, &t.Merchant, &t.TxnDate, &t.PostedDate, &t.CreatedAt)
	if err != nil {
		return ledger.Transaction{}, err
	}
	t.Amount = amt.Decimal
	return t, nil
}

func (r *Repo) ListForAccount(ctx context.Context, accountID string, offset, limit int) ([]ledger.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return r.list(ctx, `
SELECT `+txnColumns+` FROM transactions t
WHERE t.account_id = $1::uuid
ORDER BY t.created_at DESC
OFFSET $2 LIMIT $3`, accountID, offset, limit)
}

// ListForUser joins through accounts: a transaction's owner is transitive
// through the account it belongs to.
func (r *Repo) ListForUser(ctx context.Context, userID string, offset, limit int) ([]ledger.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return r.list(ctx, `
SELECT `+txnColumns+` FROM transactions t
JOIN accounts a ON a.id = t.account_id
WHERE a.user_id = $1::uuid
ORDER BY t.created_at DESC
OFFSET $2 LIMIT $3`, userID, offset, limit)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ledger.Transaction, 0)
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, txnID, accountID string) (ledger.Transaction, error) {
	row := r.Pool.QueryRow(ctx, `
SELECT `+txnColumns+` FROM transactions t
WHERE t.id = $1::uuid AND t.account_id = $2::uuid`, txnID, accountID)
	t, err := scanTxn(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Transaction{}, ErrTransactionNotFound
	}
	return t, err
}
