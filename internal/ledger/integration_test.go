package ledger_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/finbook-backend/internal/bills"
	"github.com/finbook/finbook-backend/internal/budgets"
	"github.com/finbook/finbook-backend/internal/ledger"
	"github.com/finbook/finbook-backend/internal/logger"
	"github.com/finbook/finbook-backend/internal/money"
)

// These tests need a real Postgres with the migrations applied. They are
// skipped unless TEST_DATABASE_URL is set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createUser(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	ctx := context.Background()
	email := fmt.Sprintf("it-%d@example.com", time.Now().UnixNano())
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO users (name, email, password) VALUES ('Integration Test', $1, 'x')
RETURNING id::text
`, email).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM audit_logs WHERE user_id = $1::uuid`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM bills WHERE user_id = $1::uuid`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM budgets WHERE user_id = $1::uuid`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM accounts WHERE user_id = $1::uuid`, id)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id = $1::uuid`, id)
	})
	return id
}

func createAccount(t *testing.T, pool *pgxpool.Pool, userID, balance string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
INSERT INTO accounts (user_id, bank_name, account_type, currency, balance)
VALUES ($1::uuid, 'Test Bank', 'checking', 'USD', $2::numeric)
RETURNING id::text
`, userID, balance).Scan(&id)
	require.NoError(t, err)
	return id
}

func accountBalance(t *testing.T, pool *pgxpool.Pool, accountID string) decimal.Decimal {
	t.Helper()
	var n money.Numeric
	err := pool.QueryRow(context.Background(),
		`SELECT balance::text FROM accounts WHERE id = $1::uuid`, accountID).Scan(&n)
	require.NoError(t, err)
	return n.Decimal
}

func txnCount(t *testing.T, pool *pgxpool.Pool, accountID string) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM transactions WHERE account_id = $1::uuid`, accountID).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestBookingUpdatesBalanceAndBudget(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	userID := createUser(t, pool)
	accountID := createAccount(t, pool, userID, "1000.00")

	now := time.Now().UTC()
	groceries := "groceries"
	budgetsRepo := budgets.NewRepository(pool)
	budget, err := budgetsRepo.Create(ctx, userID, budgets.CreateInput{
		Month:       int(now.Month()),
		Year:        now.Year(),
		Category:    &groceries,
		LimitAmount: decimal.RequireFromString("500"),
	})
	require.NoError(t, err)

	booker := ledger.NewBooker(pool, budgets.NewTracker(pool), logger.NewWithWriter(os.Stderr))

	txn, err := booker.Book(ctx, accountID, ledger.Intent{
		Description: "weekly shop",
		Category:    "Groceries",
		Amount:      decimal.RequireFromString("150"),
		Currency:    "USD",
		TxnType:     ledger.TypeDebit,
		TxnDate:     now,
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.TypeDebit, txn.TxnType)

	assert.True(t, accountBalance(t, pool, accountID).Equal(decimal.RequireFromString("850")),
		"1000 debit 150 should leave 850")

	got, err := budgetsRepo.Get(ctx, budget.ID, userID)
	require.NoError(t, err)
	assert.True(t, got.SpentAmount.Equal(decimal.RequireFromString("150")),
		"budget spent should track the category-matched debit")
}

func TestBookingUnknownTypeCredits(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	userID := createUser(t, pool)
	accountID := createAccount(t, pool, userID, "100.00")

	booker := ledger.NewBooker(pool, budgets.NewTracker(pool), logger.NewWithWriter(os.Stderr))
	_, err := booker.Book(ctx, accountID, ledger.Intent{
		Amount:  decimal.RequireFromString("25"),
		TxnType: "Debit",
		TxnDate: time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.True(t, accountBalance(t, pool, accountID).Equal(decimal.RequireFromString("125")),
		`"Debit" is not the debit literal and must credit`)
}

func TestBookingMissingAccount(t *testing.T) {
	pool := testPool(t)

	booker := ledger.NewBooker(pool, budgets.NewTracker(pool), logger.NewWithWriter(os.Stderr))
	_, err := booker.Book(context.Background(), "00000000-0000-0000-0000-000000000000", ledger.Intent{
		Amount:  decimal.RequireFromString("10"),
		TxnType: ledger.TypeDebit,
		TxnDate: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestBillPayBooksOnceAndIsIdempotent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	userID := createUser(t, pool)
	accountID := createAccount(t, pool, userID, "200.00")

	billsRepo := bills.NewRepository(pool)
	booker := ledger.NewBooker(pool, budgets.NewTracker(pool), logger.NewWithWriter(os.Stderr))
	svc := bills.NewService(billsRepo, booker)

	bill, err := billsRepo.Create(ctx, userID, bills.CreateInput{
		AccountID:  &accountID,
		BillerName: "Electric Co",
		DueDate:    time.Now().UTC().AddDate(0, 0, 5),
		AmountDue:  decimal.RequireFromString("75.50"),
	})
	require.NoError(t, err)
	require.Equal(t, bills.StatusUpcoming, bill.Status)

	paid := bills.StatusPaid
	result, err := svc.Update(ctx, bill, bills.Patch{Status: &paid})
	require.NoError(t, err)
	assert.False(t, result.PaidWithoutPayment)
	assert.Equal(t, bills.StatusPaid, result.Bill.Status)

	assert.True(t, accountBalance(t, pool, accountID).Equal(decimal.RequireFromString("124.50")),
		"200 minus the 75.50 bill should leave 124.50")
	assert.Equal(t, 1, txnCount(t, pool, accountID))

	// Re-saving the already-paid bill must not book again.
	result, err = svc.Update(ctx, result.Bill, bills.Patch{Status: &paid})
	require.NoError(t, err)
	assert.Equal(t, 1, txnCount(t, pool, accountID))
	assert.True(t, accountBalance(t, pool, accountID).Equal(decimal.RequireFromString("124.50")))
}

func TestImportCSVAllOrNothing(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	userID := createUser(t, pool)
	accountID := createAccount(t, pool, userID, "500.00")

	importer := ledger.NewImporter(pool)

	t.Run("valid batch commits and adjusts balance", func(t *testing.T) {
		csv := strings.Join([]string{
			"description,category,amount,currency,txn_type,merchant,txn_date",
			"salary,income,1000.00,USD,credit,Acme,2026-08-01",
			"rent,housing,800.00,USD,debit,Landlord,2026-08-02",
		}, "\n")

		summary, err := importer.ImportCSV(ctx, accountID, strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 2, summary.InsertedCount)
		assert.Equal(t, 0, summary.SkippedCount)
		assert.Empty(t, summary.Errors)

		assert.True(t, accountBalance(t, pool, accountID).Equal(decimal.RequireFromString("700")),
			"500 + 1000 - 800")
	})

	t.Run("partially bad batch still commits the good rows", func(t *testing.T) {
		csv := strings.Join([]string{
			"description,category,amount,currency,txn_type,merchant,txn_date",
			"coffee,food,4.50,USD,debit,Cafe,2026-08-03",
			"bad,one,-5,USD,debit,X,2026-08-03",
			"bad,two,10,USD,transfer,X,2026-08-03",
		}, "\n")

		before := txnCount(t, pool, accountID)
		summary, err := importer.ImportCSV(ctx, accountID, strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 1, summary.InsertedCount)
		assert.Equal(t, 2, summary.SkippedCount)
		require.Len(t, summary.Errors, 2)
		assert.Equal(t, 3, summary.Errors[0].RowNumber)
		assert.Equal(t, 4, summary.Errors[1].RowNumber)
		assert.Equal(t, before+1, txnCount(t, pool, accountID))
	})

	t.Run("missing column books nothing", func(t *testing.T) {
		csv := strings.Join([]string{
			"description,category,amount,currency,txn_type,merchant",
			"coffee,food,4.50,USD,debit,Cafe",
		}, "\n")

		before := txnCount(t, pool, accountID)
		_, err := importer.ImportCSV(ctx, accountID, strings.NewReader(csv))
		assert.ErrorIs(t, err, ledger.ErrMissingColumns)
		assert.Equal(t, before, txnCount(t, pool, accountID))
	})

	t.Run("does not touch budgets", func(t *testing.T) {
		now := time.Now().UTC()
		food := "food"
		budgetsRepo := budgets.NewRepository(pool)
		budget, err := budgetsRepo.Create(ctx, userID, budgets.CreateInput{
			Month:       int(now.Month()),
			Year:        now.Year(),
			Category:    &food,
			LimitAmount: decimal.RequireFromString("100"),
		})
		require.NoError(t, err)

		csv := strings.Join([]string{
			"description,category,amount,currency,txn_type,merchant,txn_date",
			"lunch,food,12.00,USD,debit,Deli," + now.Format("2006-01-02"),
		}, "\n")
		_, err = importer.ImportCSV(ctx, accountID, strings.NewReader(csv))
		require.NoError(t, err)

		got, err := budgetsRepo.Get(ctx, budget.ID, userID)
		require.NoError(t, err)
		assert.True(t, got.SpentAmount.IsZero(), "bulk import bypasses budget tracking")
	})
}
