package bills

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook-backend/internal/audit"
	"github.com/finbook/finbook-backend/internal/auth"
)

type Handler struct {
	Service *Service
	Audit   *pgxpool.Pool
}

func NewHandler(service *Service, auditDB *pgxpool.Pool) *Handler {
	return &Handler{Service: service, Audit: auditDB}
}

type createRequest struct {
	AccountID  *string         `json:"account_id"`
	BillerName string          `json:"biller_name"`
	DueDate    string          `json:"due_date"` // YYYY-MM-DD
	AmountDue  decimal.Decimal `json:"amount_due"`
	Status     string          `json:"status"`
	AutoPay    bool            `json:"auto_pay"`
}

type updateRequest struct {
	AccountID  *string          `json:"account_id"`
	BillerName *string          `json:"biller_name"`
	DueDate    *string          `json:"due_date"`
	AmountDue  *decimal.Decimal `json:"amount_due"`
	Status     *string          `json:"status"`
	AutoPay    *bool            `json:"auto_pay"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.BillerName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "biller_name required")
	}
	due, err := time.Parse("2006-01-02", body.DueDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "due_date must be YYYY-MM-DD")
	}
	if body.AmountDue.Sign() <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount_due must be a positive number")
	}
	if body.AccountID != nil {
		if _, err := uuid.Parse(*body.AccountID); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid account_id")
		}
	}

	bill, err := h.Service.Repo.Create(c.UserContext(), auth.UserID(c), CreateInput{
		AccountID:  body.AccountID,
		BillerName: body.BillerName,
		DueDate:    due,
		AmountDue:  body.AmountDue,
		Status:     body.Status,
		AutoPay:    body.AutoPay,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create bill")
	}
	return c.Status(fiber.StatusCreated).JSON(bill)
}

func (h *Handler) List(c *fiber.Ctx) error {
	if c.QueryBool("all") && auth.Role(c) == "admin" {
		out, err := h.Service.Repo.ListAll(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list bills")
		}
		return c.JSON(out)
	}

	out, err := h.Service.Repo.ListForUser(c.UserContext(), auth.UserID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list bills")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	bill, err := h.Service.Repo.Get(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrBillNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "bill not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load bill")
	}
	return c.JSON(bill)
}

// Update runs the state machine. When the bill flips to paid and a
// payment account resolves, the response carries the bill after its field
// commit; a booking failure after that point is a 500 with the bill
// already marked paid, which is the documented partial-effect window.
func (h *Handler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var body updateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	bill, err := h.Service.Repo.Get(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrBillNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "bill not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load bill")
	}

	patch := Patch{
		AccountID:  body.AccountID,
		BillerName: body.BillerName,
		AmountDue:  body.AmountDue,
		Status:     body.Status,
		AutoPay:    body.AutoPay,
	}
	if body.DueDate != nil && *body.DueDate != "" {
		due, err := time.Parse("2006-01-02", *body.DueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "due_date must be YYYY-MM-DD")
		}
		patch.DueDate = &due
	}
	if body.AccountID != nil && *body.AccountID != "" {
		if _, err := uuid.Parse(*body.AccountID); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid account_id")
		}
	}

	wasPaid := bill.Status == StatusPaid
	result, err := h.Service.Update(c.UserContext(), bill, patch)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not record bill payment transaction")
	}

	if !wasPaid && result.Bill.Status == StatusPaid {
		userID := auth.UserID(c)
		ip := c.IP()
		ua := c.Get(fiber.HeaderUserAgent)
		meta, _ := json.Marshal(fiber.Map{
			"biller_name":          result.Bill.BillerName,
			"amount_due":           result.Bill.AmountDue,
			"paid_without_payment": result.PaidWithoutPayment,
		})
		_ = audit.Write(c.UserContext(), h.Audit, audit.Entry{
			UserID:     &userID,
			Action:     "bill.pay",
			EntityType: "bill",
			EntityID:   &result.Bill.ID,
			IP:         &ip,
			UserAgent:  &ua,
			Metadata:   meta,
		})
	}
	return c.JSON(result)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	err := h.Service.Repo.Delete(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrBillNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "bill not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete bill")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
