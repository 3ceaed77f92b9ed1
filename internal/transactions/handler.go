package transactions

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook-backend/internal/accounts"
	"github.com/finbook/finbook-backend/internal/audit"
	"github.com/finbook/finbook-backend/internal/auth"
	"github.com/finbook/finbook-backend/internal/ledger"
)

type Handler struct {
	Repo     *Repo
	Accounts *accounts.Repository
	Booker   *ledger.Booker
	Importer *ledger.Importer
	Audit    *pgxpool.Pool
}

func NewHandler(repo *Repo, accts *accounts.Repository, booker *ledger.Booker, importer *ledger.Importer, auditDB *pgxpool.Pool) *Handler {
	return &Handler{Repo: repo, Accounts: accts, Booker: booker, Importer: importer, Audit: auditDB}
}

func (h *Handler) writeAudit(c *fiber.Ctx, action, entityID string, metadata []byte) {
	userID := auth.UserID(c)
	ip := c.IP()
	ua := c.Get(fiber.HeaderUserAgent)
	_ = audit.Write(c.UserContext(), h.Audit, audit.Entry{
		UserID:     &userID,
		Action:     action,
		EntityType: "transaction",
		EntityID:   &entityID,
		IP:         &ip,
		UserAgent:  &ua,
		Metadata:   metadata,
	})
}

type createRequest struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	TxnType     string          `json:"txn_type"`
	Merchant    string          `json:"merchant"`
	TxnDate     time.Time       `json:"txn_date"`
}

func accountIDParam(c *fiber.Ctx) (string, error) {
	raw := c.Params("accountID")
	if _, err := uuid.Parse(raw); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid account id")
	}
	return raw, nil
}

// requireOwnAccount rejects bookings against accounts the caller does not
// own; admins pass for any account.
func (h *Handler) requireOwnAccount(c *fiber.Ctx, accountID string) error {
	if auth.Role(c) == "admin" {
		if _, err := h.Accounts.GetAny(c.UserContext(), accountID); errors.Is(err, accounts.ErrAccountNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "account not found")
		} else if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load account")
		}
		return nil
	}
	if _, err := h.Accounts.Get(c.UserContext(), accountID, auth.UserID(c)); errors.Is(err, accounts.ErrAccountNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load account")
	}
	return nil
}

func (h *Handler) Create(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}
	if err := h.requireOwnAccount(c, accountID); err != nil {
		return err
	}

	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Amount.Sign() <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be a positive number")
	}
	if body.TxnDate.IsZero() {
		body.TxnDate = time.Now().UTC()
	}

	txn, err := h.Booker.Book(c.UserContext(), accountID, ledger.Intent{
		Description: body.Description,
		Category:    body.Category,
		Amount:      body.Amount,
		Currency:    body.Currency,
		TxnType:     body.TxnType,
		Merchant:    body.Merchant,
		TxnDate:     body.TxnDate,
	})
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if errors.Is(err, ledger.ErrInvalidAmount) {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be a positive number")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create transaction")
	}

	meta, _ := json.Marshal(fiber.Map{"account_id": accountID, "amount": txn.Amount, "txn_type": txn.TxnType})
	h.writeAudit(c, "transaction.create", txn.ID, meta)
	return c.Status(fiber.StatusCreated).JSON(txn)
}

func (h *Handler) ListForAccount(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}
	if err := h.requireOwnAccount(c, accountID); err != nil {
		return err
	}

	out, err := h.Repo.ListForAccount(c.UserContext(), accountID, c.QueryInt("skip"), c.QueryInt("limit"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list transactions")
	}
	return c.JSON(out)
}

func (h *Handler) ListForUser(c *fiber.Ctx) error {
	out, err := h.Repo.ListForUser(c.UserContext(), auth.UserID(c), c.QueryInt("skip"), c.QueryInt("limit"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list transactions")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}
	if err := h.requireOwnAccount(c, accountID); err != nil {
		return err
	}

	txnID := c.Params("txnID")
	if _, err := uuid.Parse(txnID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid transaction id")
	}

	txn, err := h.Repo.Get(c.UserContext(), txnID, accountID)
	if errors.Is(err, ErrTransactionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "transaction not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load transaction")
	}
	return c.JSON(txn)
}

// ImportCSV accepts the file either as a multipart "file" field or as the
// raw request body.
func (h *Handler) ImportCSV(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}
	if err := h.requireOwnAccount(c, accountID); err != nil {
		return err
	}

	var content []byte
	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
		}
		defer f.Close()
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(f); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read uploaded file")
		}
		content = buf.Bytes()
	} else {
		content = c.Body()
	}
	if len(content) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty CSV input")
	}

	summary, err := h.Importer.ImportCSV(c.UserContext(), accountID, bytes.NewReader(content))
	if errors.Is(err, ledger.ErrMissingColumns) || errors.Is(err, ledger.ErrNoHeader) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not import transactions")
	}

	meta, _ := json.Marshal(fiber.Map{"inserted": summary.InsertedCount, "skipped": summary.SkippedCount})
	h.writeAudit(c, "transaction.import", accountID, meta)
	return c.JSON(summary)
}
