package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gadhub/internal/chatbot"
	"github.com/yourorg/gadhub/internal/models"
)

// ChatbotHandler relays messages to the external generative-AI API.
type ChatbotHandler struct {
	client *chatbot.Client
}

func NewChatbotHandler(client *chatbot.Client) *ChatbotHandler {
	return &ChatbotHandler{client: client}
}

// Ask handles POST /api/chatbot (authenticated).
func (h *ChatbotHandler) Ask(c *fiber.Ctx) error {
	if h.client == nil || !h.client.IsConfigured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error: "chatbot not configured",
		})
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{
			Error: "message required",
		})
	}

	reply, err := h.client.Ask(c.Context(), req.Message)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"reply": reply})
}
