package accounts

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook-backend/internal/auth"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type createRequest struct {
	BankName      string          `json:"bank_name"`
	AccountType   string          `json:"account_type"`
	MaskedAccount *string         `json:"masked_account"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
}

type updateRequest struct {
	BankName      *string          `json:"bank_name"`
	AccountType   *string          `json:"account_type"`
	MaskedAccount *string          `json:"masked_account"`
	Currency      *string          `json:"currency"`
	Balance       *decimal.Decimal `json:"balance"`
}

func parseID(c *fiber.Ctx, param string) (string, error) {
	raw := c.Params(param)
	if _, err := uuid.Parse(raw); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return raw, nil
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.BankName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "bank_name required")
	}

	acct, err := h.Repo.Create(c.UserContext(), auth.UserID(c), CreateInput{
		BankName:      body.BankName,
		AccountType:   body.AccountType,
		MaskedAccount: body.MaskedAccount,
		Currency:      body.Currency,
		Balance:       body.Balance,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create account")
	}
	return c.Status(fiber.StatusCreated).JSON(acct)
}

func (h *Handler) List(c *fiber.Ctx) error {
	// Admins may ask for every account; everyone else sees their own.
	if c.QueryBool("all") && auth.Role(c) == "admin" {
		out, err := h.Repo.ListAll(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list accounts")
		}
		return c.JSON(out)
	}

	out, err := h.Repo.ListForUser(c.UserContext(), auth.UserID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list accounts")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	acct, err := h.Repo.Get(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrAccountNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load account")
	}
	return c.JSON(acct)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var body updateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	acct, err := h.Repo.Update(c.UserContext(), id, auth.UserID(c), UpdateInput{
		BankName:      body.BankName,
		AccountType:   body.AccountType,
		MaskedAccount: body.MaskedAccount,
		Currency:      body.Currency,
		Balance:       body.Balance,
	})
	if errors.Is(err, ErrAccountNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update account")
	}
	return c.JSON(acct)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.Repo.Delete(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrAccountNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete account")
	}
	return c.JSON(summary)
}

func (h *Handler) Reconcile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	drift, err := h.Repo.ReconcileBalance(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrAccountNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not reconcile account")
	}
	return c.JSON(drift)
}
