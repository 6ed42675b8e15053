package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/yourorg/gadhub/internal/auth"
	"github.com/yourorg/gadhub/internal/middleware"
	"github.com/yourorg/gadhub/internal/models"
	"github.com/yourorg/gadhub/internal/s3"
)

// AvatarHandler implements the avatar upload plumbing: the client asks for a
// presigned PUT URL, uploads directly to object storage, then registers the
// resulting reference on the profile.
type AvatarHandler struct {
	svc       *auth.Service
	presigner *s3.FilePresigner
	validate  *validator.Validate
}

func NewAvatarHandler(svc *auth.Service, presigner *s3.FilePresigner) *AvatarHandler {
	return &AvatarHandler{
		svc:       svc,
		presigner: presigner,
		validate:  validator.New(),
	}
}

// GetUploadURL handles POST /api/auth/avatar/upload-url.
func (h *AvatarHandler) GetUploadURL(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
		})
	}
	if h.presigner == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error: "avatar uploads not configured",
		})
	}

	objectKey := fmt.Sprintf("avatars/%d/%s.jpg", userID, uuid.New().String())
	uploadURL, publicURL, err := h.presigner.PresignUpload(c.Context(), objectKey)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"upload_url": uploadURL,
		"storage_id": objectKey,
		"url":        publicURL,
	})
}

// SetAvatar handles PUT /api/auth/avatar, persisting the uploaded reference.
func (h *AvatarHandler) SetAvatar(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
		})
	}

	var req models.SetAvatarRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if err := h.validate.Struct(&req); err != nil {
		return validationError(c, err)
	}

	user, err := h.svc.SetAvatar(c.Context(), userID, models.Avatar{
		StorageID: req.StorageID,
		URL:       req.URL,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "avatar updated",
		"user":    user.Public(),
	})
}
