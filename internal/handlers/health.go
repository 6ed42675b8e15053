package handlers

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gadhub/internal/chatbot"
)

// HealthResponse describes the state of the system's collaborators.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version,omitempty"`
}

// HealthHandler aggregates a shallow check over the backing services.
type HealthHandler struct {
	db      *sql.DB
	chatbot *chatbot.Client
}

func NewHealthHandler(db *sql.DB, bot *chatbot.Client) *HealthHandler {
	return &HealthHandler{db: db, chatbot: bot}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	services := make(map[string]string)
	overall := "healthy"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			services["database"] = "unhealthy: " + err.Error()
			overall = "degraded"
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "not_initialized"
		overall = "degraded"
	}

	if h.chatbot != nil && h.chatbot.IsConfigured() {
		services["chatbot"] = "configured"
	} else {
		services["chatbot"] = "not_configured"
	}

	statusCode := fiber.StatusOK
	if overall == "degraded" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  services,
		Version:   os.Getenv("APP_VERSION"),
	})
}
