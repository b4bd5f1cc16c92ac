package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/talekeep/talekeep-backend/internal/data/db"
	"github.com/talekeep/talekeep-backend/internal/data/repos"
	httpx "github.com/talekeep/talekeep-backend/internal/http"
	"github.com/talekeep/talekeep-backend/internal/http/handlers"
	"github.com/talekeep/talekeep-backend/internal/http/middleware"
	"github.com/talekeep/talekeep-backend/internal/observability"
	"github.com/talekeep/talekeep-backend/internal/pkg/envutil"
	"github.com/talekeep/talekeep-backend/internal/pkg/logger"
	"github.com/talekeep/talekeep-backend/internal/realtime/bus"
	"github.com/talekeep/talekeep-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "talekeep-backend",
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})
	if shutdownOtel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(ctx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	// Database
	dbService, err := db.NewService(log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	gormDB := dbService.DB()
	if err := db.AutoMigrateAll(gormDB); err != nil {
		log.Fatal("Auto migration failed", "error", err)
	}

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(gormDB, log)
	characterRepo := repos.NewCharacterRepo(gormDB, log)
	conversationRepo := repos.NewConversationRepo(gormDB, log)
	branchRepo := repos.NewBranchRepo(gormDB, log)
	messageRepo := repos.NewMessageRepo(gormDB, log)
	factRepo := repos.NewMemoryFactRepo(gormDB, log)

	// Event bus
	eventBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Warn("Redis bus unavailable, branch events disabled", "error", err)
		eventBus = bus.NewNopBus()
	}
	defer eventBus.Close()

	// Services
	log.Info("Setting up services...")
	tokenService := services.NewTokenService()
	notifier := services.NewBranchNotifier(log, eventBus)
	conversationService := services.NewConversationService(gormDB, log, conversationRepo, characterRepo, messageRepo)
	branchService := services.NewBranchService(gormDB, log, conversationRepo, branchRepo, messageRepo, notifier)
	memoryService := services.NewMemoryService(log, characterRepo, factRepo)
	characterService := services.NewCharacterService(log, characterRepo)

	// Handlers
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(tokenService, userRepo)
	branchHandler := handlers.NewBranchHandler(branchService)
	memoryHandler := handlers.NewMemoryHandler(memoryService)
	conversationHandler := handlers.NewConversationHandler(conversationService)
	characterHandler := handlers.NewCharacterHandler(characterService)
	healthHandler := handlers.NewHealthHandler()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, tokenService)

	// Router
	router := httpx.NewRouter(httpx.RouterConfig{
		Log:                 log,
		AuthMiddleware:      authMiddleware,
		AuthHandler:         authHandler,
		BranchHandler:       branchHandler,
		MemoryHandler:       memoryHandler,
		ConversationHandler: conversationHandler,
		CharacterHandler:    characterHandler,
		HealthHandler:       healthHandler,
	})

	port := envutil.String("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
