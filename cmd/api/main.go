package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/prasetyadev/notulen-assistant/pkg/validator"

	"github.com/prasetyadev/notulen-assistant/internal/adapter/handler"
	"github.com/prasetyadev/notulen-assistant/internal/infrastructure/cache"
	aaiprovider "github.com/prasetyadev/notulen-assistant/internal/infrastructure/external/assemblyai"
	"github.com/prasetyadev/notulen-assistant/internal/infrastructure/external/whisper"
	"github.com/prasetyadev/notulen-assistant/internal/infrastructure/storage"
	"github.com/prasetyadev/notulen-assistant/internal/usecase/minutes"
	sessionUsecase "github.com/prasetyadev/notulen-assistant/internal/usecase/session"
	"github.com/prasetyadev/notulen-assistant/internal/usecase/transcription"
	pkgai "github.com/prasetyadev/notulen-assistant/pkg/ai"
	"github.com/prasetyadev/notulen-assistant/pkg/config"
	"github.com/prasetyadev/notulen-assistant/pkg/jwt"
)

// @title           Notulen Assistant API
// @version         1.0
// @description     API that turns Indonesian meeting audio into structured minutes of meeting

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize session store
	sessionStore := cache.NewSessionStore(cfg.Session.TTL)

	// Initialize audio archive. The service degrades gracefully when object
	// storage is unreachable; transcription then uses the local file only.
	var audioStore sessionUsecase.AudioStore
	log.Println("📦 Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Printf("⚠️  Object storage unavailable, audio archiving disabled: %v", err)
	} else {
		audioStore = minioClient
	}

	// Initialize transcription providers
	log.Println("🎙️  Initializing transcription providers...")
	whisperProvider := whisper.NewProvider(&cfg.Whisper, logger)
	assemblyProvider := aaiprovider.NewProvider(&cfg.Assembly, logger)
	transcriber := transcription.NewService(whisperProvider, assemblyProvider, logger)

	// Initialize minutes extractor
	log.Println("🤖 Initializing minutes extractor...")
	geminiClient := pkgai.NewGeminiClient(&cfg.Gemini)
	extractor := minutes.NewExtractor(geminiClient, logger)

	// Initialize session service
	sessionService := sessionUsecase.NewService(sessionStore, audioStore, transcriber, extractor, logger)

	// Initialize JWT manager for session tokens
	log.Println("🔑 Initializing token manager...")
	jwtManager := jwt.NewManager(cfg.Session.TokenSecret, cfg.Session.TTL)

	// Initialize handlers and routes
	log.Println("🛣️  Setting up routes...")
	sessionHandler := handler.NewSession(sessionService, jwtManager, logger)
	router := handler.NewRouter(cfg, sessionHandler, jwtManager)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited")
}
