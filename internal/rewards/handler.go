package rewards

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/finbook/finbook-backend/internal/auth"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type createRequest struct {
	ProgramName   string  `json:"program_name"`
	PointsBalance int64   `json:"points_balance"`
	AccountID     *string `json:"account_id"`
}

type updateRequest struct {
	ProgramName   *string `json:"program_name"`
	PointsBalance *int64  `json:"points_balance"`
}

type bulkAssignRequest struct {
	UserIDs       []string `json:"user_ids"`
	ProgramName   string   `json:"program_name"`
	PointsBalance int64    `json:"points_balance"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.ProgramName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "program_name required")
	}
	if body.AccountID != nil && *body.AccountID != "" {
		if _, err := uuid.Parse(*body.AccountID); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid account_id")
		}
	}

	reward, err := h.Repo.Create(c.UserContext(), auth.UserID(c), CreateInput{
		ProgramName:   body.ProgramName,
		PointsBalance: body.PointsBalance,
		AccountID:     body.AccountID,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create reward")
	}
	return c.Status(fiber.StatusCreated).JSON(reward)
}

func (h *Handler) List(c *fiber.Ctx) error {
	if c.QueryBool("all") && auth.Role(c) == "admin" {
		out, err := h.Repo.ListAll(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list rewards")
		}
		return c.JSON(out)
	}

	out, err := h.Repo.ListForUser(c.UserContext(), auth.UserID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list rewards")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	reward, err := h.Repo.Get(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrRewardNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "reward not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load reward")
	}
	return c.JSON(reward)
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

	reward, err := h.Repo.Update(c.UserContext(), id, auth.UserID(c), UpdateInput{
		ProgramName:   body.ProgramName,
		PointsBalance: body.PointsBalance,
	})
	if errors.Is(err, ErrRewardNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "reward not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update reward")
	}
	return c.JSON(reward)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	err := h.Repo.Delete(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrRewardNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "reward not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete reward")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkAssign is admin-only (the route carries RequireAdmin).
func (h *Handler) BulkAssign(c *fiber.Ctx) error {
	var body bulkAssignRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.ProgramName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "program_name required")
	}
	for _, uid := range body.UserIDs {
		if _, err := uuid.Parse(uid); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid user id: "+uid)
		}
	}

	summary, err := h.Repo.BulkAssign(c.UserContext(), BulkAssignInput{
		UserIDs:       body.UserIDs,
		ProgramName:   body.ProgramName,
		PointsBalance: body.PointsBalance,
	})
	if errors.Is(err, ErrUnknownUserIDs) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not assign rewards")
	}
	return c.JSON(summary)
}
