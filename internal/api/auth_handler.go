package api

import (
	"github.com/gofiber/fiber/v2"

	"nexusmart.com/internal/domain"
	"nexusmart.com/internal/model"
)

// AuthHandler 处理注册、登录与令牌刷新
type AuthHandler struct {
	accounts domain.AccountService
	tokens   domain.TokenService
}

func NewAuthHandler(accounts domain.AccountService, tokens domain.TokenService) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// Register creates a new user account
// POST /api/auth/register/
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	user, err := h.accounts.CreateUser(c.Context(), req.Email, req.Password, domain.UserFields{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return SendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user": fiber.Map{
			"email": user.Email,
			"id":    user.ID,
		},
	})
}

// Login verifies credentials and returns an access/refresh token pair
// POST /api/auth/login/
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Email and password are required"})
	}

	pair, err := h.tokens.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return SendError(c, err)
	}

	return c.JSON(pair)
}

// Refresh exchanges a refresh token for a new access token
// POST /api/auth/token/refresh/
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	access, err := h.tokens.Refresh(c.Context(), req.Refresh)
	if err != nil {
		return SendError(c, err)
	}

	return c.JSON(fiber.Map{"access": access})
}

// GetMe returns the authenticated user's profile
// GET /api/auth/me
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*model.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized"})
	}

	return c.JSON(fiber.Map{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"is_staff":   user.IsStaff,
		"is_active":  user.IsActive,
		"created_at": user.CreatedAt,
	})
}

// Logout is a placeholder for client-side token removal. Tokens stay valid
// until natural expiry; there is no server-side denylist.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
