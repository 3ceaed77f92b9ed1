package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
)

const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Transaction is one money movement on an account. Amounts are stored
// positive; txn_type decides the sign against the balance. Rows are never
// updated after insert.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	TxnType     string          `json:"txn_type"`
	Merchant    *string         `json:"merchant,omitempty"`
	TxnDate     time.Time       `json:"txn_date"`
	PostedDate  *time.Time      `json:"posted_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Intent is a validated booking request. TxnType is stored as given; only
// the literal "debit" reduces the balance, every other value credits it.
type Intent struct {
	Description string
	Category    string
	Amount      decimal.Decimal
	Currency    string
	TxnType     string
	Merchant    string
	TxnDate     time.Time
}

// nextBalance applies an amount to a balance. Anything that is not exactly
// "debit" counts as a credit; callers that need strict validation (the CSV
// importer) normalize before getting here.
func nextBalance(balance, amount decimal.Decimal, txnType string) decimal.Decimal {
	if txnType == TypeDebit {
		return balance.Sub(amount)
	}
	return balance.Add(amount)
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
