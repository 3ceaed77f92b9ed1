package reports

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook-backend/internal/accounts"
	"github.com/finbook/finbook-backend/internal/auth"
	"github.com/finbook/finbook-backend/internal/money"
)

type Handler struct {
	Pool     *pgxpool.Pool
	Accounts *accounts.Repository
}

func NewHandler(pool *pgxpool.Pool, accts *accounts.Repository) *Handler {
	return &Handler{Pool: pool, Accounts: accts}
}

type StatementItem struct {
	ID          string          `json:"id"`
	Description *string         `json:"description,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	TxnType     string          `json:"txn_type"`
	Date        string          `json:"date"`
}

type StatementResponse struct {
	AccountID    string          `json:"account_id"`
	Currency     string          `json:"currency"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	Balance      decimal.Decimal `json:"balance"`
	Items        []StatementItem `json:"items"`
}

// statementPeriod returns the validated from/to range, defaulting to the
// trailing 30 days when either bound is missing.
func statementPeriod(c *fiber.Ctx) (string, string, error) {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		end := time.Now()
		start := end.AddDate(0, 0, -29)
		from = start.Format("2006-01-02")
		to = end.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
	}
	return from, to, nil
}

func (h *Handler) loadAccount(c *fiber.Ctx) (accounts.Account, error) {
	accountID := c.Params("accountID")
	if _, err := uuid.Parse(accountID); err != nil {
		return accounts.Account{}, fiber.NewError(fiber.StatusBadRequest, "invalid account id")
	}

	var (
		acct accounts.Account
		err  error
	)
	if auth.Role(c) == "admin" {
		acct, err = h.Accounts.GetAny(c.UserContext(), accountID)
	} else {
		acct, err = h.Accounts.Get(c.UserContext(), accountID, auth.UserID(c))
	}
	if errors.Is(err, accounts.ErrAccountNotFound) {
		return accounts.Account{}, fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if err != nil {
		return accounts.Account{}, fiber.NewError(fiber.StatusInternalServerError, "could not load account")
	}
	return acct, nil
}

func (h *Handler) statementData(c *fiber.Ctx, acct accounts.Account, from, to string) (StatementResponse, error) {
	rows, err := h.Pool.Query(c.UserContext(), `
SELECT id::text, description, category, amount::text, currency, txn_type, txn_date::date::text
FROM transactions
WHERE account_id = $1::uuid AND txn_date::date BETWEEN $2::date AND $3::date
ORDER BY txn_date DESC, created_at DESC
LIMIT 2000
`, acct.ID, from, to)
	if err != nil {
		return StatementResponse{}, fiber.NewError(fiber.StatusInternalServerError, "could not load statement")
	}
	defer rows.Close()

	resp := StatementResponse{
		AccountID: acct.ID,
		Currency:  acct.Currency,
		From:      from,
		To:        to,
		Balance:   acct.Balance,
	}
	for rows.Next() {
		var (
			it  StatementItem
			amt money.Numeric
		)
		if err := rows.Scan(&it.ID, &it.Description, &it.Category, &amt, &it.Currency, &it.TxnType, &it.Date); err != nil {
			return StatementResponse{}, fiber.NewError(fiber.StatusInternalServerError, "could not load statement")
		}
		it.Amount = amt.Decimal
		if it.TxnType == "debit" {
			resp.TotalDebits = resp.TotalDebits.Add(it.Amount)
		} else {
			resp.TotalCredits = resp.TotalCredits.Add(it.Amount)
		}
		resp.Items = append(resp.Items, it)
	}
	if err := rows.Err(); err != nil {
		return StatementResponse{}, fiber.NewError(fiber.StatusInternalServerError, "could not load statement")
	}
	return resp, nil
}

func (h *Handler) Statement(c *fiber.Ctx) error {
	acct, err := h.loadAccount(c)
	if err != nil {
		return err
	}
	from, to, err := statementPeriod(c)
	if err != nil {
		return err
	}
	resp, err := h.statementData(c, acct, from, to)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
