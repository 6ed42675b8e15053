package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/yourorg/gadhub/internal/auth"
	"github.com/yourorg/gadhub/internal/chatbot"
	appdb "github.com/yourorg/gadhub/internal/db"
	"github.com/yourorg/gadhub/internal/debug"
	"github.com/yourorg/gadhub/internal/middleware"
	"github.com/yourorg/gadhub/internal/routes"
	"github.com/yourorg/gadhub/internal/s3"
	"github.com/yourorg/gadhub/internal/store"
	"github.com/yourorg/gadhub/internal/token"
)

func main() {
	_ = godotenv.Load()

	app := fiber.New()
	app.Use(logger.New())
	if debug.IsEnabled() {
		app.Use(middleware.DashboardLogger())
		debug.StartHeartbeat(30 * time.Second)
	}

	// ============================================================================
	// TOKEN SIGNING SECRET
	// ============================================================================
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("ENV") == "production" || os.Getenv("ENVIRONMENT") == "production" {
			log.Fatal("CRITICAL: JWT_SECRET must be set in production environment")
		}
		log.Println("WARNING: using default JWT secret (development only)")
		secret = "dev-secret-change-me-dev-secret-change-me"
	}
	if len(secret) < 32 {
		log.Fatalf("CRITICAL: JWT_SECRET must be at least 32 characters long (current: %d)", len(secret))
	}

	tokenTTL := 24 * time.Hour
	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		dur, err := time.ParseDuration(ttl)
		if err != nil || dur <= 0 {
			log.Printf("invalid JWT_TTL=%q, using default %s", ttl, tokenTTL)
		} else {
			tokenTTL = dur
		}
	}
	tokens := token.NewIssuer([]byte(secret), tokenTTL)

	// ============================================================================
	// DB CONNECTION
	// ============================================================================
	db, err := appdb.Connect()
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		log.Printf("db not ready: %v (retrying in 2s)", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("db unreachable: %v", err)
	}
	if err := appdb.EnsureSchema(db); err != nil {
		log.Fatalf("ensure schema error: %v", err)
	}
	log.Println("database ready")

	// ============================================================================
	// AVATAR STORAGE (optional; disabled when S3_ENDPOINT unset)
	// ============================================================================
	var presigner *s3.FilePresigner
	if os.Getenv("S3_ENDPOINT") != "" {
		presigner, err = s3.NewFilePresigner(context.Background())
		if err != nil {
			log.Fatalf("s3 presigner init error: %v", err)
		}
		log.Println("avatar storage presigner ready")
	} else {
		log.Println("S3_ENDPOINT not set, avatar uploads disabled")
	}

	bot := chatbot.NewClient()
	if !bot.IsConfigured() {
		log.Println("CHATBOT_API_URL not set, chatbot relay disabled")
	}

	authService := auth.NewService(store.NewMySQLUserStore(db), tokens)

	routes.Register(app, routes.Deps{
		DB:        db,
		Tokens:    tokens,
		Auth:      authService,
		Presigner: presigner,
		Chatbot:   bot,
	})

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("shutdown signal received, closing server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("error closing server: %v", err)
		}
		if err := db.Close(); err != nil {
			log.Printf("error closing db: %v", err)
		}
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("server listening on :%s", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
