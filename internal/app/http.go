package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohdfaziel/InnerPath/internal/auth/credentials"
	authhandler "github.com/mohdfaziel/InnerPath/internal/auth/handler"
	"github.com/mohdfaziel/InnerPath/internal/auth/provider"
	"github.com/mohdfaziel/InnerPath/internal/auth/provider/google"
	"github.com/mohdfaziel/InnerPath/internal/auth/resolver"
	"github.com/mohdfaziel/InnerPath/internal/config"
	"github.com/mohdfaziel/InnerPath/internal/logger"
	"github.com/mohdfaziel/InnerPath/internal/middleware"
	"github.com/mohdfaziel/InnerPath/internal/token"
	"github.com/mohdfaziel/InnerPath/internal/wellness"
	wellnesshandler "github.com/mohdfaziel/InnerPath/internal/wellness/handler"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	tokenStore := token.NewRedisStore(infra.Redis.Client)
	identityResolver := resolver.NewDBResolver(infra.DB)
	credentialService := credentials.NewService(infra.DB)

	var providers []provider.OAuthProvider
	if cfg.GoogleClientID != "" {
		googleProvider, err := google.New(
			ctx,
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
		)
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, googleProvider)
	} else {
		logger.Warn("google oauth not configured, oauth login disabled", nil)
	}

	registry := provider.NewRegistry(providers...)

	authHandler := authhandler.NewHandler(
		credentialService,
		registry,
		tokenStore,
		identityResolver,
		cfg.TokenTTL,
	)

	sessionStore := wellness.NewPostgresStore(infra.DB)
	sessionService := wellness.NewService(sessionStore)
	sessionHandler := wellnesshandler.NewHandler(sessionService, cfg.Development())

	authMiddleware := middleware.NewAuthMiddleware(tokenStore)
	requireAuth := middleware.GinRequireAuth(authMiddleware)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router)
	sessionHandler.RegisterRoutes(router, requireAuth)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "InnerPath API is running!",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
