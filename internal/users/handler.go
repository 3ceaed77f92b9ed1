package users

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler serves admin user management; every route is behind
// auth.RequireAdmin.
type Handler struct {
	Repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{Repo: repo}
}

type updateRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	KycStatus *string `json:"kyc_status"`
}

func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.Repo.List(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not list users")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	u, err := h.Repo.Get(c.UserContext(), id)
	if errors.Is(err, ErrUserNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load user")
	}
	return c.JSON(u)
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
	if body.Role != nil && *body.Role != "user" && *body.Role != "admin" {
		return fiber.NewError(fiber.StatusBadRequest, "role must be user or admin")
	}
	if body.KycStatus != nil && *body.KycStatus != "unverified" && *body.KycStatus != "verified" {
		return fiber.NewError(fiber.StatusBadRequest, "kyc_status must be unverified or verified")
	}

	u, err := h.Repo.Update(c.UserContext(), id, UpdateInput{
		Name:      body.Name,
		Phone:     body.Phone,
		Role:      body.Role,
		KycStatus: body.KycStatus,
	})
	if errors.Is(err, ErrUserNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update user")
	}
	return c.JSON(u)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	err := h.Repo.Delete(c.UserContext(), id)
	if errors.Is(err, ErrUserNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete user")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	s, err := h.Repo.Stats(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load stats")
	}
	return c.JSON(s)
}
