package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohdfaziel/InnerPath/internal/client"
	"github.com/mohdfaziel/InnerPath/internal/middleware"
	"github.com/mohdfaziel/InnerPath/internal/token"
	"github.com/mohdfaziel/InnerPath/internal/wellness"
	"github.com/mohdfaziel/InnerPath/internal/wellness/handler"
)

// newTestServer assembles the real session routes over memory stores,
// plus a login stub that issues tokens the way the auth handler does.
func newTestServer(t *testing.T) (*httptest.Server, *token.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := token.NewMemoryStore()
	store := wellness.NewMemoryStore()
	service := wellness.NewService(store)

	requireAuth := middleware.GinRequireAuth(middleware.NewAuthMiddleware(tokens))

	router := gin.New()
	handler.NewHandler(service, false).RegisterRoutes(router, requireAuth)

	router.POST("/auth/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}

		id, err := token.GenerateID()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
			return
		}
		err = tokens.Create(c.Request.Context(), token.Token{
			ID:        id,
			UserID:    "user-1",
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
			return
		}
		store.SetAuthor("user-1", req.Email)

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   id,
			"user":    gin.H{"id": "user-1", "email": req.Email},
		})
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, tokens
}

func TestClientFullFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	c := client.New(srv.URL, srv.Client())
	ctx := context.Background()

	auth, err := c.Login(ctx, "user1@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth.Token == "" || auth.UserID != "user-1" {
		t.Fatalf("auth state = %+v", auth)
	}

	sess, err := c.SaveDraft(ctx, client.DraftPayload{
		Title:       "Morning Calm",
		Tags:        []string{"meditation"},
		ResourceURL: "https://x.com/s.json",
	})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if sess.ID == "" || sess.Status != wellness.StatusDraft {
		t.Fatalf("draft = %+v", sess)
	}

	mine, err := c.MySessions(ctx)
	if err != nil {
		t.Fatalf("MySessions: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("my sessions = %d, want 1", len(mine))
	}

	public, err := c.PublicSessions(ctx)
	if err != nil {
		t.Fatalf("PublicSessions: %v", err)
	}
	if len(public) != 0 {
		t.Fatalf("draft leaked publicly: %+v", public)
	}

	if _, err := c.Publish(ctx, sess.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	public, err = c.PublicSessions(ctx)
	if err != nil {
		t.Fatalf("PublicSessions: %v", err)
	}
	if len(public) != 1 || public[0].Author != "user1@example.com" {
		t.Fatalf("public listing = %+v", public)
	}

	if err := c.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.MySession(ctx, sess.ID); err == nil {
		t.Fatal("deleted session still retrievable")
	}
}

func TestClientValidationError(t *testing.T) {
	srv, _ := newTestServer(t)
	c := client.New(srv.URL, srv.Client())
	ctx := context.Background()

	if _, err := c.Login(ctx, "user1@example.com", "hunter22"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	_, err := c.SaveDraft(ctx, client.DraftPayload{Title: "  "})

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || len(apiErr.Fields) == 0 {
		t.Fatalf("api error = %+v", apiErr)
	}
}

func TestClientClearsAuthOnRejectedToken(t *testing.T) {
	srv, tokens := newTestServer(t)
	c := client.New(srv.URL, srv.Client())
	ctx := context.Background()

	auth, err := c.Login(ctx, "user1@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	expired := false
	c.OnExpired(func() { expired = true })

	// the server revokes the token out from under the client
	if err := tokens.Delete(ctx, auth.Token); err != nil {
		t.Fatalf("Delete token: %v", err)
	}

	_, err = c.MySessions(ctx)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}

	if !expired {
		t.Error("forced re-login hook never fired")
	}
	if c.Auth() != nil {
		t.Error("auth state survived a rejected token")
	}
}

func TestClientLoginFailureKeepsNoState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, srv.Client())

	expired := false
	c.OnExpired(func() { expired = true })

	_, err := c.Login(context.Background(), "user1@example.com", "wrong")
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}

	// a failed login is not an expired session
	if expired {
		t.Error("re-login hook fired on an auth endpoint")
	}
	if c.Auth() != nil {
		t.Error("auth state set after failed login")
	}
}
