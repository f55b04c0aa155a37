// Package client is the Go API client for the InnerPath service. It
// injects the bearer token on every request and keeps authentication
// state in an explicit object: populated at login or register, cleared
// at logout or when the server rejects the token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mohdfaziel/InnerPath/internal/wellness"
)

// AuthState is the client-side authentication context.
type AuthState struct {
	Token  string
	UserID string
	Email  string
}

// APIError is a non-2xx response decoded from the envelope.
type APIError struct {
	Status  int
	Message string
	Fields  []wellness.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	httpc   *http.Client

	mu        sync.Mutex
	auth      *AuthState
	onExpired func()
}

func New(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// OnExpired registers the forced re-login hook, called after the
// server answers 401 or 403 on a non-auth endpoint and local auth
// state has been cleared.
func (c *Client) OnExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = fn
}

// Auth returns a copy of the current auth state, or nil when logged out.
func (c *Client) Auth() *AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.auth == nil {
		return nil
	}
	out := *c.auth
	return &out
}

type envelope struct {
	Message  string                `json:"message"`
	Token    string                `json:"token"`
	Session  *wellness.Session     `json:"session"`
	Sessions []wellness.Session    `json:"sessions"`
	Errors   []wellness.FieldError `json:"errors"`
	User     struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, authRoute bool) (*envelope, error) {
	var buf *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: marshal request: %w", err)
		}
		buf = bytes.NewReader(data)
	} else {
		buf = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	if c.auth != nil {
		req.Header.Set("Authorization", "Bearer "+c.auth.Token)
	}
	c.mu.Unlock()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("client: decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if (resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden) && !authRoute {
			c.expire()
		}
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Fields:  env.Errors,
		}
	}

	return &env, nil
}

// expire clears auth state and fires the re-login hook. The hook runs
// outside the lock.
func (c *Client) expire() {
	c.mu.Lock()
	c.auth = nil
	fn := c.onExpired
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (c *Client) setAuth(env *envelope) *AuthState {
	auth := &AuthState{
		Token:  env.Token,
		UserID: env.User.ID,
		Email:  env.User.Email,
	}

	c.mu.Lock()
	c.auth = auth
	c.mu.Unlock()

	out := *auth
	return &out
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, email, password string) (*AuthState, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/register",
		credentialsRequest{Email: email, Password: password}, true)
	if err != nil {
		return nil, err
	}
	return c.setAuth(env), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthState, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/login",
		credentialsRequest{Email: email, Password: password}, true)
	if err != nil {
		return nil, err
	}
	return c.setAuth(env), nil
}

// Logout revokes the token server-side, then clears local state
// regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, true)

	c.mu.Lock()
	c.auth = nil
	c.mu.Unlock()

	return err
}

func (c *Client) PublicSessions(ctx context.Context) ([]wellness.Session, error) {
	env, err := c.do(ctx, http.MethodGet, "/sessions", nil, false)
	if err != nil {
		return nil, err
	}
	return env.Sessions, nil
}

func (c *Client) MySessions(ctx context.Context) ([]wellness.Session, error) {
	env, err := c.do(ctx, http.MethodGet, "/my-sessions", nil, false)
	if err != nil {
		return nil, err
	}
	return env.Sessions, nil
}

func (c *Client) MySession(ctx context.Context, id string) (*wellness.Session, error) {
	env, err := c.do(ctx, http.MethodGet, "/my-sessions/"+id, nil, false)
	if err != nil {
		return nil, err
	}
	return env.Session, nil
}

// DraftPayload is the save-draft request body. SessionID empty means
// create.
type DraftPayload struct {
	SessionID   string   `json:"sessionId,omitempty"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	ResourceURL string   `json:"json_file_url"`
}

func (c *Client) SaveDraft(ctx context.Context, p DraftPayload) (*wellness.Session, error) {
	env, err := c.do(ctx, http.MethodPost, "/my-sessions/save-draft", p, false)
	if err != nil {
		return nil, err
	}
	return env.Session, nil
}

func (c *Client) Publish(ctx context.Context, sessionID string) (*wellness.Session, error) {
	env, err := c.do(ctx, http.MethodPost, "/my-sessions/publish",
		map[string]string{"sessionId": sessionID}, false)
	if err != nil {
		return nil, err
	}
	return env.Session, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/my-sessions/"+id, nil, false)
	return err
}
