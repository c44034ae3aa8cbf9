package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	appmiddleware "github.com/prasetyadev/notulen-assistant/internal/infrastructure/http/middleware"
	"github.com/prasetyadev/notulen-assistant/pkg/config"
	"github.com/prasetyadev/notulen-assistant/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	sessionHandler *Session
	tokens         *jwt.Manager
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, sessionHandler *Session, tokens *jwt.Manager) *Router {
	return &Router{
		cfg:            cfg,
		sessionHandler: sessionHandler,
		tokens:         tokens,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	v1 := e.Group("/v1")
	rt.setupSessionRoutes(v1)
}

// setupSessionRoutes configures the session lifecycle routes. Everything
// under /sessions/:id requires the bearer token issued at session creation.
func (rt *Router) setupSessionRoutes(g *echo.Group) {
	sessions := g.Group("/sessions")
	sessions.POST("", rt.sessionHandler.Create)

	protected := sessions.Group("/:id", appmiddleware.RequireSessionToken(rt.tokens))
	protected.GET("", rt.sessionHandler.Get)
	protected.DELETE("", rt.sessionHandler.Delete)

	protected.POST("/audio", rt.sessionHandler.UploadAudio)
	protected.GET("/audio", rt.sessionHandler.AudioURL)

	protected.GET("/transcript", rt.sessionHandler.GetTranscript)
	protected.PUT("/transcript", rt.sessionHandler.SetTranscript)

	protected.POST("/minutes", rt.sessionHandler.ExtractMinutes)
	protected.GET("/minutes", rt.sessionHandler.GetMinutes)
	protected.PUT("/minutes/topics/:index", rt.sessionHandler.UpdateTopic)
	protected.POST("/minutes/document", rt.sessionHandler.RenderDocument)
	protected.GET("/minutes/document", rt.sessionHandler.DownloadDocument)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := ""
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
	})
}
