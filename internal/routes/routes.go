package routes

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/gadhub/internal/auth"
	"github.com/yourorg/gadhub/internal/cache"
	"github.com/yourorg/gadhub/internal/chatbot"
	"github.com/yourorg/gadhub/internal/debug"
	"github.com/yourorg/gadhub/internal/handlers"
	"github.com/yourorg/gadhub/internal/middleware"
	"github.com/yourorg/gadhub/internal/s3"
	"github.com/yourorg/gadhub/internal/store"
	"github.com/yourorg/gadhub/internal/token"
)

// Deps carries the shared dependencies the route tree needs.
type Deps struct {
	DB        *sql.DB
	Tokens    *token.Issuer
	Auth      *auth.Service
	Presigner *s3.FilePresigner
	Chatbot   *chatbot.Client
}

// Register wires the HTTP surface.
func Register(app *fiber.App, deps Deps) {
	contentCache := cache.NewCache(5*time.Minute, 10*time.Minute)

	authHandler := handlers.NewAuthHandler(deps.Auth)
	avatarHandler := handlers.NewAvatarHandler(deps.Auth, deps.Presigner)
	contentHandler := handlers.NewContentHandler(store.NewContentStore(deps.DB), contentCache)
	chatbotHandler := handlers.NewChatbotHandler(deps.Chatbot)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Chatbot)

	requireAuth := middleware.RequireAuth(deps.Tokens)

	api := app.Group("/api")

	// Health check (no rate limiting)
	api.Get("/health", healthHandler.Health)

	// ============================================================================
	// AUTHENTICATION (strict rate limiting, brute-force protection)
	// ============================================================================
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", middleware.StrictRateLimiter(), authHandler.Signup)
	authGroup.Post("/login", middleware.StrictRateLimiter(), authHandler.Login)

	// Profile endpoints sit behind the auth gate.
	authGroup.Get("/profile", requireAuth, authHandler.Profile)
	authGroup.Put("/profile", requireAuth, authHandler.UpdateProfile)
	authGroup.Post("/password", requireAuth, authHandler.ChangePassword)
	authGroup.Post("/avatar/upload-url", requireAuth, avatarHandler.GetUploadURL)
	authGroup.Put("/avatar", requireAuth, avatarHandler.SetAvatar)

	// ============================================================================
	// INFORMATIONAL CONTENT (public reads, authenticated writes)
	// ============================================================================
	api.Get("/circulars", contentHandler.ListCirculars)
	api.Post("/circulars", requireAuth, contentHandler.CreateCircular)
	api.Get("/resolutions", contentHandler.ListResolutions)
	api.Post("/resolutions", requireAuth, contentHandler.CreateResolution)
	api.Get("/programs", contentHandler.ListPrograms)
	api.Post("/programs", requireAuth, contentHandler.CreateProgram)
	api.Get("/hotlines", contentHandler.ListHotlines)
	api.Post("/hotlines", requireAuth, contentHandler.CreateHotline)

	// ============================================================================
	// CHATBOT RELAY (authenticated, general rate limiting)
	// ============================================================================
	api.Post("/chatbot", middleware.RateLimiter(), requireAuth, chatbotHandler.Ask)

	// ============================================================================
	// DEBUG DASHBOARD (websocket, enabled via GADHUB_DEBUG_DASHBOARD)
	// ============================================================================
	if debug.IsEnabled() {
		app.Get("/debug/dashboard/ws", websocket.New(debug.HandleWebSocketFiber))
	}
}
