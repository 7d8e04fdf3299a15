package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Muhammed-IrfanAC/signup-bot/internal/handler"
	"github.com/Muhammed-IrfanAC/signup-bot/internal/middleware"
	"github.com/Muhammed-IrfanAC/signup-bot/pkg/logger"
)

// Config holds router settings
type Config struct {
	ServiceToken string
	Development  bool
}

// New builds the HTTP router
func New(cfg Config, log *logger.Logger, events *handler.EventHandler, signups *handler.SignupHandler, health *handler.HealthHandler) *gin.Engine {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))

	r.GET("/health", health.Health)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.ServiceToken(cfg.ServiceToken))

	guilds := v1.Group("/guilds/:guild_id")
	{
		guilds.POST("/events", events.Create)
		guilds.GET("/events", events.List)
		guilds.GET("/events/:name", events.Get)
		guilds.DELETE("/events/:name", events.Delete)
		guilds.POST("/events/:name/close", events.Close)
		guilds.PUT("/events/:name/message", events.BindMessage)
		guilds.GET("/events/:name/export", events.Export)

		guilds.POST("/events/:name/signups", signups.Signup)
		guilds.GET("/events/:name/signups", signups.List)
		guilds.POST("/events/:name/removals", signups.Remove)
		guilds.POST("/events/:name/check", signups.Check)

		guilds.POST("/leader-roles", events.GrantLeaderRole)
		guilds.GET("/leader-roles", events.ListLeaderRoles)
		guilds.DELETE("/leader-roles/:role_id", events.RevokeLeaderRole)
	}

	return r
}
