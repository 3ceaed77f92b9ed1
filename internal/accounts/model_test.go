package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, "savings", NormalizeType("Savings"))
	assert.Equal(t, "credit_card", NormalizeType("Credit Card"))
	assert.Equal(t, "checking", NormalizeType("  checking "))
	assert.Equal(t, "loan", NormalizeType("loan"))
	// unexpected values fall back to a safe enum member
	assert.Equal(t, "savings", NormalizeType("crypto"))
	assert.Equal(t, "savings", NormalizeType(""))
}
