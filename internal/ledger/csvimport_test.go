package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "description,category,amount,currency,txn_type,merchant,txn_date\n"

func TestParseRowsHeaderValidation(t *testing.T) {
	t.Run("missing column rejects whole file", func(t *testing.T) {
		// no txn_date column
		in := "description,category,amount,currency,txn_type,merchant\ncoffee,food,3.50,USD,debit,Blue Bottle\n"
		rows, rowErrs, err := parseRows(strings.NewReader(in))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingColumns)
		assert.Contains(t, err.Error(), "txn_date")
		assert.Nil(t, rows)
		assert.Nil(t, rowErrs)
	})

	t.Run("column order does not matter", func(t *testing.T) {
		in := "txn_date,merchant,txn_type,currency,amount,category,description\n" +
			"2024-03-05T10:00:00Z,Esso,debit,USD,40.00,fuel,petrol\n"
		rows, rowErrs, err := parseRows(strings.NewReader(in))
		require.NoError(t, err)
		assert.Empty(t, rowErrs)
		require.Len(t, rows, 1)
		assert.Equal(t, "40", rows[0].amount.String())
		assert.Equal(t, "fuel", *rows[0].category)
	})

	t.Run("empty input", func(t *testing.T) {
		_, _, err := parseRows(strings.NewReader(""))
		require.Error(t, err)
	})
}

func TestParseRowsRowValidation(t *testing.T) {
	in := csvHeader +
		"coffee,food,3.50,USD,debit,Blue Bottle,2024-03-01T08:00:00Z\n" + // row 2, ok
		"salary,,-10,USD,credit,Acme,2024-03-01T08:00:00Z\n" + // row 3, bad amount
		"gift,misc,20.00,USD,transfer,Mom,2024-03-01T08:00:00Z\n" + // row 4, bad type
		"rent,housing,900.00,USD,debit,Landlord,not-a-date\n" + // row 5, bad date
		"lunch,food,12.00,,DEBIT,Deli,2024-03-02\n" // row 6, ok: type case-folded, currency defaulted

	rows, rowErrs, err := parseRows(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, TypeDebit, rows[1].txnType)
	assert.Equal(t, "USD", rows[1].currency)

	require.Len(t, rowErrs, 3)
	assert.Equal(t, 3, rowErrs[0].RowNumber)
	assert.Contains(t, rowErrs[0].Reason, "Invalid amount")
	assert.Equal(t, 4, rowErrs[1].RowNumber)
	assert.Contains(t, rowErrs[1].Reason, "Invalid txn_type: 'transfer'")
	assert.Equal(t, 5, rowErrs[2].RowNumber)
	assert.Contains(t, rowErrs[2].Reason, "Invalid txn_date")
}

func TestParseRowsStrictTxnType(t *testing.T) {
	// The budget tracker accepts substring matches like "withdrawal"; the
	// importer deliberately does not.
	for _, bad := range []string{"withdrawal", "out", "payment", "expense", "deb it", ""} {
		in := csvHeader + "x,y,1.00,USD," + bad + ",m,2024-01-01\n"
		rows, rowErrs, err := parseRows(strings.NewReader(in))
		require.NoError(t, err)
		assert.Empty(t, rows, "txn_type %q must be rejected", bad)
		require.Len(t, rowErrs, 1)
	}
}

func TestParseTxnDate(t *testing.T) {
	ts, err := parseTxnDate("2024-03-01T08:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
	assert.Equal(t, 8, ts.Hour())

	ts, err = parseTxnDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.March, ts.Month())

	_, err = parseTxnDate("03/01/2024")
	require.Error(t, err)
}
