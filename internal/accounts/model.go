package accounts

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrAccountNotFound = errors.New("account not found")

// Account holds identity, currency and the running balance. The balance
// is a stored total mutated only by the ledger engine, never recomputed
// on read.
type Account struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	BankName      string          `json:"bank_name"`
	AccountType   string          `json:"account_type"`
	MaskedAccount *string         `json:"masked_account,omitempty"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CreateInput struct {
	BankName      string
	AccountType   string
	MaskedAccount *string
	Currency      string
	Balance       decimal.Decimal
}

type UpdateInput struct {
	BankName      *string
	AccountType   *string
	MaskedAccount *string
	Currency      *string
	Balance       *decimal.Decimal
}

var allowedTypes = map[string]bool{
	"savings":     true,
	"checking":    true,
	"credit_card": true,
	"loan":        true,
	"investment":  true,
}

// NormalizeType maps frontend spellings like "Credit Card" onto the enum
// and falls back to "savings" for anything unexpected.
func NormalizeType(raw string) string {
	t := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
	if !allowedTypes[t] {
		return "savings"
	}
	return t
}
