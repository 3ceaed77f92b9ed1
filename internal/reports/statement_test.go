package reports

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignedAmount(t *testing.T) {
	assert.Equal(t, "-15.50", signedAmount(decimal.RequireFromString("15.5"), "debit"))
	assert.Equal(t, "15.50", signedAmount(decimal.RequireFromString("15.5"), "credit"))
	assert.Equal(t, "15.50", signedAmount(decimal.RequireFromString("15.5"), "Debit"))
}

func TestShortAndMaskedIDs(t *testing.T) {
	id := "a3f1c2d4-0000-1111-2222-333344445555"
	assert.Equal(t, "a3f1c2d4", shortID(id))
	assert.Equal(t, "a3f1…5555", maskID(id))
	assert.Equal(t, "short", shortID("short"))
	assert.Equal(t, "short", maskID("short"))
}

func TestTrimTo(t *testing.T) {
	assert.Equal(t, "abc", trimTo("  abc  ", 10))
	long := "aaaaaaaaaaaaaaaaaaaa"
	got := trimTo(long, 10)
	assert.Equal(t, "aaaaaaaaa…", got)
}
