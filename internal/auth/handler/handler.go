package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohdfaziel/InnerPath/internal/auth/credentials"
	"github.com/mohdfaziel/InnerPath/internal/auth/provider"
	"github.com/mohdfaziel/InnerPath/internal/auth/resolver"
	"github.com/mohdfaziel/InnerPath/internal/logger"
	"github.com/mohdfaziel/InnerPath/internal/token"
)

type Handler struct {
	credentialService *credentials.Service
	providers         *provider.Registry
	tokenStore        token.Store
	resolver          resolver.Resolver
	tokenTTL          time.Duration
}

func NewHandler(
	credentialService *credentials.Service,
	registry *provider.Registry,
	tokenStore token.Store,
	resolver resolver.Resolver,
	tokenTTL time.Duration,
) *Handler {
	return &Handler{
		credentialService: credentialService,
		providers:         registry,
		tokenStore:        tokenStore,
		resolver:          resolver,
		tokenTTL:          tokenTTL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
}

// issueToken mints an opaque bearer token for a user and persists it
// with an absolute expiry.
func (h *Handler) issueToken(ctx context.Context, userID string) (string, time.Time, error) {
	id, err := token.GenerateID()
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	expiresAt := now.Add(h.tokenTTL)

	err = h.tokenStore.Create(ctx, token.Token{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", time.Time{}, err
	}

	return id, expiresAt, nil
}

// Logout revokes the presented bearer token, if any. Idempotent.
func (h *Handler) Logout(c *gin.Context) {
	id := token.FromRequest(c.Request)
	if id != "" {
		// best-effort revocation
		_ = h.tokenStore.Delete(c.Request.Context(), id)
		logger.Info("token revoked", map[string]any{
			"ip": c.ClientIP(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
