package budgets

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrBudgetNotFound = errors.New("budget not found")

// Budget caps spending for one (month, year, category) per user.
// SpentAmount is a stored running total maintained by the Tracker, not a
// derived sum; Reconcile exists to check it against the ledger.
type Budget struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Category    *string         `json:"category,omitempty"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
	SpentAmount decimal.Decimal `json:"spent_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

type CreateInput struct {
	Month       int
	Year        int
	Category    *string
	LimitAmount decimal.Decimal
	SpentAmount decimal.Decimal
}

type UpdateInput struct {
	Month       *int
	Year        *int
	Category    *string
	LimitAmount *decimal.Decimal
	SpentAmount *decimal.Decimal
}
