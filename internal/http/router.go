package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/talekeep/talekeep-backend/internal/http/handlers"
	httpMW "github.com/talekeep/talekeep-backend/internal/http/middleware"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler         *httpH.AuthHandler
	BranchHandler       *httpH.BranchHandler
	MemoryHandler       *httpH.MemoryHandler
	ConversationHandler *httpH.ConversationHandler
	CharacterHandler    *httpH.CharacterHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS())
	r.Use(otelgin.Middleware("talekeep-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public, dev token mint)
		if cfg.AuthHandler != nil {
			api.POST("/auth/token", cfg.AuthHandler.MintToken)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Branches
		if cfg.BranchHandler != nil {
			protected.GET("/chat/branches", cfg.BranchHandler.List)
			protected.POST("/chat/branches", cfg.BranchHandler.Create)
			protected.POST("/chat/branches/merge", cfg.BranchHandler.Merge)
			protected.GET("/chat/branches/:id", cfg.BranchHandler.Get)
			protected.PUT("/chat/branches/:id", cfg.BranchHandler.Rename)
			protected.DELETE("/chat/branches/:id", cfg.BranchHandler.Delete)
		}

		// Memories
		if cfg.MemoryHandler != nil {
			protected.GET("/memories", cfg.MemoryHandler.List)
			protected.POST("/memories", cfg.MemoryHandler.Create)
			protected.PUT("/memories/:id", cfg.MemoryHandler.Update)
			protected.DELETE("/memories/:id", cfg.MemoryHandler.Delete)
		}

		// Conversations
		if cfg.ConversationHandler != nil {
			protected.GET("/conversations", cfg.ConversationHandler.List)
			protected.POST("/conversations", cfg.ConversationHandler.Create)
			protected.POST("/conversations/default", cfg.ConversationHandler.FindOrCreateDefault)
			protected.GET("/conversations/:id/messages", cfg.ConversationHandler.ListMessages)
			protected.POST("/conversations/:id/messages", cfg.ConversationHandler.AppendMessage)
		}

		// Characters
		if cfg.CharacterHandler != nil {
			protected.GET("/characters", cfg.CharacterHandler.List)
			protected.POST("/characters", cfg.CharacterHandler.Create)
			protected.GET("/characters/:id", cfg.CharacterHandler.Get)
		}
	}

	return r
}
