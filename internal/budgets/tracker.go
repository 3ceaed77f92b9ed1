package budgets

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook-backend/internal/ledger"
)

// outgoingKeywords mark a transaction type as money leaving the account.
// This is a substring match, intentionally looser than the CSV importer's
// strict debit/credit check: "withdrawal" or "card payment" still count.
var outgoingKeywords = []string{"debit", "out", "withdraw", "expense", "payment", "transfer"}

// Tracker keeps budget spent totals in step with the ledger. It runs after
// the booking commit, in its own commit; there is no joint rollback and no
// reversal path.
type Tracker struct {
	Pool *pgxpool.Pool
}

func NewTracker(pool *pgxpool.Pool) *Tracker {
	return &Tracker{Pool: pool}
}

// Apply adds the transaction amount to the first budget matching the
// owner, the transaction's month/year, and its category. Quietly does
// nothing when no budget matches or the transaction is not outgoing.
func (t *Tracker) Apply(ctx context.Context, txn ledger.Transaction, ownerID string) error {
	month := int(txn.TxnDate.Month())
	year := txn.TxnDate.Year()

	rows, err := t.Pool.Query(ctx, `
SELECT id::text, COALESCE(category, '')
FROM budgets
WHERE user_id = $1::uuid AND month = $2 AND year = $3
ORDER BY created_at
`, ownerID, month, year)
	if err != nil {
		return err
	}
	defer rows.Close()

	type candidate struct {
		id       string
		category string
	}
	var candidates []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.id, &c.category); err != nil {
			return err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	if !IsOutgoing(txn.TxnType) {
		return nil
	}

	txnCat := normalizeCategory(txn.Category)
	for _, c := range candidates {
		if normalizeCategory(&c.category) != txnCat {
			continue
		}
		// First match only; overlapping budgets for the same category
		// would double count otherwise.
		_, err := t.Pool.Exec(ctx, `
UPDATE budgets SET spent_amount = spent_amount + $1 WHERE id = $2::uuid
`, txn.Amount.StringFixed(2), c.id)
		return err
	}
	return nil
}

// IsOutgoing reports whether a transaction type describes money leaving
// the account. Matching is by substring on the lowercased type.
func IsOutgoing(txnType string) bool {
	lowered := strings.ToLower(txnType)
	for _, kw := range outgoingKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// normalizeCategory lowercases and trims so "Food" and " food " compare
// equal. A nil category normalizes to the empty string.
func normalizeCategory(cat *string) string {
	if cat == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*cat))
}
