package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNextBalance(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		txnType string
		want    string
	}{
		{name: "debit subtracts", balance: "1000.00", amount: "150.00", txnType: "debit", want: "850"},
		{name: "credit adds", balance: "1000.00", amount: "25.50", txnType: "credit", want: "1025.5"},
		{name: "unknown type credits", balance: "100.00", amount: "10.00", txnType: "refund", want: "110"},
		{name: "cased debit is not debit", balance: "100.00", amount: "10.00", txnType: "Debit", want: "110"},
		{name: "balance can go negative", balance: "10.00", amount: "75.50", txnType: "debit", want: "-65.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextBalance(dec(tt.balance), dec(tt.amount), tt.txnType)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNextBalanceSequenceIsSignedSum(t *testing.T) {
	// Final balance equals start plus signed sum of all bookings.
	balance := dec("1000.00")
	moves := []struct {
		amount  string
		txnType string
	}{
		{"150.00", "debit"},
		{"200.00", "credit"},
		{"0.01", "debit"},
		{"49.99", "debit"},
	}
	for _, m := range moves {
		balance = nextBalance(balance, dec(m.amount), m.txnType)
	}
	assert.Equal(t, "1000", balance.String())
}
