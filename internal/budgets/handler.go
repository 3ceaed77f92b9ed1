package budgets

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
	Month       int              `json:"month"`
	Year        int              `json:"year"`
	Category    *string          `json:"category"`
	LimitAmount decimal.Decimal  `json:"limit_amount"`
	SpentAmount *decimal.Decimal `json:"spent_amount"`
}

type updateRequest struct {
	Month       *int             `json:"month"`
	Year        *int             `json:"year"`
	Category    *string          `json:"category"`
	LimitAmount *decimal.Decimal `json:"limit_amount"`
	SpentAmount *decimal.Decimal `json:"spent_amount"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Month < 1 || body.Month > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "month must be 1-12")
	}
	if body.Year < 1970 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid year")
	}
	spent := decimal.Zero
	if body.SpentAmount != nil {
		spent = *body.SpentAmount
	}

	b, err := h.Repo.Create(c.UserContext(), auth.UserID(c), CreateInput{
		Month:       body.Month,
		Year:        body.Year,
		Category:    body.Category,
		LimitAmount: body.LimitAmount,
		SpentAmount: spent,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create budget")
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *Handler) List(c *fiber.Ctx) error {
	var month, year *int
	if m := c.QueryInt("month"); m != 0 {
		month = &m
	}
	if y := c.QueryInt("year"); y != 0 {
		year = &y
	}

	out, err := h.Repo.ListForUser(c.UserContext(), auth.UserID(c), month, year)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list budgets")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	b, err := h.Repo.Get(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrBudgetNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "budget not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load budget")
	}
	return c.JSON(b)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	var body updateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Month != nil && (*body.Month < 1 || *body.Month > 12) {
		return fiber.NewError(fiber.StatusBadRequest, "month must be 1-12")
	}

	b, err := h.Repo.Update(c.UserContext(), id, auth.UserID(c), UpdateInput{
		Month:       body.Month,
		Year:        body.Year,
		Category:    body.Category,
		LimitAmount: body.LimitAmount,
		SpentAmount: body.SpentAmount,
	})
	if errors.Is(err, ErrBudgetNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "budget not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update budget")
	}
	return c.JSON(b)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	err := h.Repo.Delete(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrBudgetNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "budget not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete budget")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Reconcile(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	report, err := h.Repo.Reconcile(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrBudgetNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "budget not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not reconcile budget")
	}
	return c.JSON(report)
}
