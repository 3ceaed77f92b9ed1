package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/finbook/finbook-backend/internal/money"
)

// BudgetApplier receives every committed booking so spending totals can
// follow the ledger. Implemented by budgets.Tracker.
type BudgetApplier interface {
	Apply(ctx context.Context, txn Transaction, ownerID string) error
}

// Booker writes a transaction row and the owning account's balance as one
// database transaction. Every money-moving path (direct booking, bill
// payment, reward credit) goes through it.
type Booker struct {
	Pool    *pgxpool.Pool
	Budgets BudgetApplier
	Log     zerolog.Logger
}

func NewBooker(pool *pgxpool.Pool, budgets BudgetApplier, log zerolog.Logger) *Booker {
	return &Booker{Pool: pool, Budgets: budgets, Log: log}
}

// Book inserts the transaction and moves the account balance atomically.
// The account row is locked for the duration of the transaction, so two
// concurrent bookings against one account serialize instead of losing an
// update.
//
// The budget update runs after the commit as a separate best-effort write:
// if it fails the booking stands and the error is only logged.
func (b *Booker) Book(ctx context.Context, accountID string, in Intent) (Transaction, error) {
	if in.Amount.Sign() <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}

	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, err
	}
	defer tx.Rollback(ctx)

	var (
		ownerID string
		balance money.Numeric
	)
	err = tx.QueryRow(ctx,
		`SELECT user_id::text, balance::text FROM accounts WHERE id = $1::uuid FOR UPDATE`,
		accountID,
	).Scan(&ownerID, &balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrAccountNotFound
	}
	if err != nil {
		return Transaction{}, err
	}

	newBalance := nextBalance(balance.Decimal, in.Amount, in.TxnType)

	out := Transaction{
		AccountID:   accountID,
		Description: nilIfEmpty(in.Description),
		Category:    nilIfEmpty(in.Category),
		Amount:      in.Amount,
		Currency:    in.Currency,
		TxnType:     in.TxnType,
		Merchant:    nilIfEmpty(in.Merchant),
		TxnDate:     in.TxnDate,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO transactions (account_id, description, category, amount, currency, txn_type, merchant, txn_date)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text, created_at
`, accountID, out.Description, out.Category, in.Amount.StringFixed(2), in.Currency, in.TxnType, out.Merchant, in.TxnDate,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = $1 WHERE id = $2::uuid`,
		newBalance.StringFixed(2), accountID,
	); err != nil {
		return Transaction{}, fmt.Errorf("update balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Transaction{}, err
	}

	// Best effort only. A budget failure must never unwind the booking.
	if b.Budgets != nil {
		if err := b.Budgets.Apply(ctx, out, ownerID); err != nil {
			b.Log.Warn().
				Err(err).
				Str("transaction_id", out.ID).
				Str("user_id", ownerID).
				Msg("budget update failed after booking")
		}
	}

	return out, nil
}

// OwnerOf returns the user owning an account, for transitive ownership
// checks on transactions.
func (b *Booker) OwnerOf(ctx context.Context, accountID string) (string, error) {
	var ownerID string
	err := b.Pool.QueryRow(ctx,
		`SELECT user_id::text FROM accounts WHERE id = $1::uuid`,
		accountID,
	).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrAccountNotFound
	}
	return ownerID, err
}
