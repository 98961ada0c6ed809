package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avelar/chatvault-be/internal/api"
	"github.com/avelar/chatvault-be/internal/auth"
	"github.com/avelar/chatvault-be/internal/completion"
	"github.com/avelar/chatvault-be/internal/config"
	"github.com/avelar/chatvault-be/internal/database"
	"github.com/avelar/chatvault-be/internal/logger"
	"github.com/avelar/chatvault-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Session plumbing
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	cookies := auth.NewCookieManager(cfg.CookieSecret, cfg.CookieDomain, cfg.AppEnv == "production")

	// Set up services
	userService := services.NewUserService(db)
	completer := completion.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIOrganization, cfg.OpenAIModel)
	chatService := services.NewChatService(userService, completer)

	// Set up router
	router := api.NewRouter(cfg, tokens, cookies, userService, chatService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
