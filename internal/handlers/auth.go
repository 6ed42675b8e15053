package handlers

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gadhub/internal/auth"
	"github.com/yourorg/gadhub/internal/middleware"
	"github.com/yourorg/gadhub/internal/models"
)

// AuthHandler exposes the signup/login/profile flows over HTTP.
type AuthHandler struct {
	svc      *auth.Service
	validate *validator.Validate
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

// Signup handles POST /api/auth/signup. A successful signup responds with a
// message only; logging in is a separate call.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return validationError(c, err)
	}

	err = h.svc.Signup(c.Context(), auth.SignupParams{
		StudentID: req.StudentID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Birthday:  birthday,
		Password:  req.Password,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.MsgResponse{Msg: "registered"})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	resp, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}

	c.Set("Cache-Control", "no-store")
	return c.Status(fiber.StatusOK).JSON(resp)
}

// Profile handles GET /api/auth/profile. The route runs behind RequireAuth,
// so a verified claim is already in the request context.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
		})
	}

	user, err := h.svc.GetUser(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	if user == nil {
		// Token outlived the account.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "profile retrieved",
		"user":    user.Public(),
	})
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
		})
	}

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	var birthday *time.Time
	if req.Birthday != nil {
		parsed, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return validationError(c, err)
		}
		birthday = &parsed
	}

	user, err := h.svc.UpdateProfile(c.Context(), userID, req.FirstName, req.LastName, birthday)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "profile updated",
		"user":    user.Public(),
	})
}

// ChangePassword handles POST /api/auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
		})
	}

	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	if err := h.svc.ChangePassword(c.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.MsgResponse{Msg: "password changed"})
}
