package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook-backend/internal/money"
)

var requiredColumns = []string{"description", "category", "amount", "currency", "txn_type", "merchant", "txn_date"}

var (
	ErrMissingColumns = errors.New("missing required CSV columns")
	ErrNoHeader       = errors.New("CSV has no header row")
)

type RowError struct {
	RowNumber int    `json:"row_number"`
	Reason    string `json:"reason"`
}

type ImportSummary struct {
	AccountID     string     `json:"account_id"`
	InsertedCount int        `json:"inserted_count"`
	SkippedCount  int        `json:"skipped_count"`
	Errors        []RowError `json:"errors"`
}

// Importer loads a batch of transactions from CSV against one account.
// Unlike the Booker it is strict about txn_type (only "debit"/"credit",
// case-insensitive) and it does not touch budgets; imported history is
// treated as backfill, not fresh spending.
type Importer struct {
	Pool *pgxpool.Pool
}

func NewImporter(pool *pgxpool.Pool) *Importer {
	return &Importer{Pool: pool}
}

type csvRow struct {
	description *string
	category    *string
	amount      decimal.Decimal
	currency    string
	txnType     string
	merchant    *string
	txnDate     time.Time
}

// ImportCSV validates every row independently, then commits all valid rows
// plus the final account balance in a single transaction. Row problems are
// reported per row; only a broken header, a missing account, or a commit
// failure abort the whole import.
func (im *Importer) ImportCSV(ctx context.Context, accountID string, r io.Reader) (ImportSummary, error) {
	summary := ImportSummary{AccountID: accountID, Errors: []RowError{}}

	rows, rowErrs, err := parseRows(r)
	if err != nil {
		return summary, err
	}
	summary.Errors = append(summary.Errors, rowErrs...)
	summary.SkippedCount = len(rowErrs)

	tx, err := im.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return summary, err
	}
	defer tx.Rollback(ctx)

	var balance money.Numeric
	err = tx.QueryRow(ctx,
		`SELECT balance::text FROM accounts WHERE id = $1::uuid FOR UPDATE`,
		accountID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return summary, ErrAccountNotFound
	}
	if err != nil {
		return summary, err
	}

	if len(rows) == 0 {
		return summary, nil
	}

	running := balance.Decimal
	for _, row := range rows {
		running = nextBalance(running, row.amount, row.txnType)
	}

	for _, row := range rows {
		if _, err := tx.Exec(ctx, `
INSERT INTO transactions (account_id, description, category, amount, currency, txn_type, merchant, txn_date)
VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
`, accountID, row.description, row.category, row.amount.StringFixed(2), row.currency, row.txnType, row.merchant, row.txnDate,
		); err != nil {
			return summary, fmt.Errorf("insert imported transaction: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = $1 WHERE id = $2::uuid`,
		running.StringFixed(2), accountID,
	); err != nil {
		return summary, fmt.Errorf("update balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return summary, err
	}

	summary.InsertedCount = len(rows)
	return summary, nil
}

// parseRows reads the header and every data row. Data rows are numbered
// from 2 so reported errors line up with what the user sees in a
// spreadsheet.
func parseRows(r io.Reader) ([]csvRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, ErrNoHeader
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, want := range requiredColumns {
		if _, ok := col[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	field := func(record []string, name string) string {
		idx := col[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var (
		rows    []csvRow
		rowErrs []RowError
	)
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{RowNumber: rowNum, Reason: "Malformed row or missing columns"})
			continue
		}

		amountRaw := field(record, "amount")
		amount, err := money.ParsePositive(amountRaw)
		if err != nil {
			rowErrs = append(rowErrs, RowError{RowNumber: rowNum, Reason: fmt.Sprintf("Invalid amount: '%s'", amountRaw)})
			continue
		}

		typeRaw := field(record, "txn_type")
		txnType := strings.ToLower(typeRaw)
		if txnType != TypeDebit && txnType != TypeCredit {
			rowErrs = append(rowErrs, RowError{RowNumber: rowNum, Reason: fmt.Sprintf("Invalid txn_type: '%s'", typeRaw)})
			continue
		}

		dateRaw := field(record, "txn_date")
		txnDate, err := parseTxnDate(dateRaw)
		if err != nil {
			rowErrs = append(rowErrs, RowError{RowNumber: rowNum, Reason: fmt.Sprintf("Invalid txn_date: '%s'", dateRaw)})
			continue
		}

		currency := field(record, "currency")
		if currency == "" {
			currency = "USD"
		}

		rows = append(rows, csvRow{
			description: nilIfEmpty(field(record, "description")),
			category:    nilIfEmpty(field(record, "category")),
			amount:      amount,
			currency:    currency,
			txnType:     txnType,
			merchant:    nilIfEmpty(field(record, "merchant")),
			txnDate:     txnDate,
		})
	}

	return rows, rowErrs, nil
}

var txnDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTxnDate accepts ISO-8601 timestamps, with a trailing "Z" read as
// UTC, and bare dates.
func parseTxnDate(raw string) (time.Time, error) {
	for _, layout := range txnDateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
