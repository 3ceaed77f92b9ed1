package notifications

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

func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.Repo.ListForUser(c.UserContext(), auth.UserID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list notifications")
	}
	return c.JSON(out)
}

func (h *Handler) MarkSent(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	n, err := h.Repo.MarkSent(c.UserContext(), id, auth.UserID(c))
	if errors.Is(err, ErrNotificationNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "notification not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update notification")
	}
	return c.JSON(n)
}
