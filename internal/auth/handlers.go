package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB     *pgxpool.Pool
	Tokens *Tokens
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Name == "" || body.Email == "" || body.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name, email and password required")
	}

	ctx := c.UserContext()

	var exists bool
	if err := h.DB.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, body.Email,
	).Scan(&exists); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	if exists {
		return fiber.NewError(fiber.StatusConflict, "email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	var userID string
	err = h.DB.QueryRow(ctx, `
INSERT INTO users (name, email, password, phone)
VALUES ($1, $2, $3, NULLIF($4, ''))
RETURNING id::text
`, body.Name, body.Email, string(hashed), body.Phone).Scan(&userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
	}

	access, refresh, err := h.Tokens.Issue(userID, "user")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}
	return c.Status(fiber.StatusCreated).JSON(tokenResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	var (
		userID   string
		hashed   string
		userRole string
	)
	err := h.DB.QueryRow(c.UserContext(),
		`SELECT id::text, password, role FROM users WHERE email = $1`,
		body.Email,
	).Scan(&userID, &hashed, &userRole)
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(body.Password)); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	access, refresh, err := h.Tokens.Issue(userID, userRole)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}
	return c.JSON(tokenResponse{AccessToken: access, RefreshToken: refresh})
}

// Refresh rotates the refresh token and re-issues the access token with
// the role currently on the user row.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var body refreshRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	claims, err := h.Tokens.Verify(body.RefreshToken)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired refresh token")
	}

	var role string
	err = h.DB.QueryRow(c.UserContext(),
		`SELECT role FROM users WHERE id = $1::uuid`, claims.UserID,
	).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusUnauthorized, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	access, refresh, err := h.Tokens.Issue(claims.UserID, role)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
	}
	return c.JSON(tokenResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	var (
		name  string
		email string
		phone *string
		role  string
		kyc   string
	)
	err := h.DB.QueryRow(c.UserContext(),
		`SELECT name, email, phone, role, kyc_status FROM users WHERE id = $1::uuid`,
		UserID(c),
	).Scan(&name, &email, &phone, &role, &kyc)
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(fiber.Map{
		"id":         UserID(c),
		"name":       name,
		"email":      email,
		"phone":      phone,
		"role":       role,
		"kyc_status": kyc,
	})
}
