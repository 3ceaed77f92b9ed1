package budgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOutgoing(t *testing.T) {
	tests := []struct {
		txnType string
		want    bool
	}{
		{"debit", true},
		{"DEBIT", true},
		{"withdrawal", true},
		{"card payment", true},
		{"transfer out", true},
		{"expense", true},
		{"checkout", true}, // substring "out": a known looseness of the matcher
		{"credit", false},
		{"income", false},
		{"refund", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.txnType, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOutgoing(tt.txnType))
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	food := " Food "
	assert.Equal(t, "food", normalizeCategory(&food))

	groceries := "Groceries"
	assert.NotEqual(t, normalizeCategory(&food), normalizeCategory(&groceries))

	empty := ""
	assert.Equal(t, "", normalizeCategory(nil))
	assert.Equal(t, "", normalizeCategory(&empty))
}
