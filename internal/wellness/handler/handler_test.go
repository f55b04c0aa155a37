package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mohdfaziel/InnerPath/internal/middleware"
	"github.com/mohdfaziel/InnerPath/internal/token"
	"github.com/mohdfaziel/InnerPath/internal/wellness"
	"github.com/mohdfaziel/InnerPath/internal/wellness/handler"
)

type testEnv struct {
	router *gin.Engine
	tokens *token.MemoryStore
	store  *wellness.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := token.NewMemoryStore()
	store := wellness.NewMemoryStore()
	service := wellness.NewService(store)

	requireAuth := middleware.GinRequireAuth(middleware.NewAuthMiddleware(tokens))

	router := gin.New()
	handler.NewHandler(service, false).RegisterRoutes(router, requireAuth)

	return &testEnv{router: router, tokens: tokens, store: store}
}

// bearer issues a token for a user and registers the email shown on
// public listings.
func (e *testEnv) bearer(t *testing.T, userID, email string) string {
	t.Helper()

	id, err := token.GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}

	err = e.tokens.Create(context.Background(), token.Token{
		ID:        id,
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("seed token: %v", err)
	}

	e.store.SetAuthor(userID, email)
	return id
}

type envelope struct {
	Message  string             `json:"message"`
	Session  *wellness.Session  `json:"session"`
	Sessions []wellness.Session `json:"sessions"`
	Errors   []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (e *testEnv) request(t *testing.T, method, path, bearer string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, env
}

func draftBody(sessionID string) map[string]any {
	return map[string]any{
		"title":         "Morning Calm",
		"tags":          []string{"meditation"},
		"json_file_url": "https://x.com/s.json",
		"sessionId":     sessionID,
	}
}

func TestSessionLifecycleScenario(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.bearer(t, "user-1", "user1@example.com")

	// create draft
	code, resp := env.request(t, http.MethodPost, "/my-sessions/save-draft", bearer, draftBody(""))
	if code != http.StatusOK {
		t.Fatalf("save-draft = %d, body %+v", code, resp)
	}
	id := resp.Session.ID
	if id == "" || resp.Session.Status != wellness.StatusDraft {
		t.Fatalf("unexpected session %+v", resp.Session)
	}

	// draft visible privately, not publicly
	code, resp = env.request(t, http.MethodGet, "/my-sessions", bearer, nil)
	if code != http.StatusOK || len(resp.Sessions) != 1 {
		t.Fatalf("my-sessions = %d %+v", code, resp)
	}
	code, resp = env.request(t, http.MethodGet, "/sessions", "", nil)
	if code != http.StatusOK || len(resp.Sessions) != 0 {
		t.Fatalf("draft leaked publicly: %d %+v", code, resp)
	}

	// publish: visible in both, author attached publicly
	code, resp = env.request(t, http.MethodPost, "/my-sessions/publish", bearer,
		map[string]string{"sessionId": id})
	if code != http.StatusOK || resp.Session.Status != wellness.StatusPublished {
		t.Fatalf("publish = %d %+v", code, resp)
	}

	code, resp = env.request(t, http.MethodGet, "/sessions", "", nil)
	if code != http.StatusOK || len(resp.Sessions) != 1 {
		t.Fatalf("published session missing publicly: %d %+v", code, resp)
	}
	if resp.Sessions[0].Author != "user1@example.com" {
		t.Errorf("author = %q", resp.Sessions[0].Author)
	}

	code, resp = env.request(t, http.MethodGet, "/my-sessions", bearer, nil)
	if code != http.StatusOK || len(resp.Sessions) != 1 {
		t.Fatalf("published session missing privately: %d %+v", code, resp)
	}

	// delete: gone everywhere, get is 404
	code, _ = env.request(t, http.MethodDelete, "/my-sessions/"+id, bearer, nil)
	if code != http.StatusOK {
		t.Fatalf("delete = %d", code)
	}
	code, resp = env.request(t, http.MethodGet, "/sessions", "", nil)
	if len(resp.Sessions) != 0 {
		t.Fatalf("deleted session still public: %+v", resp)
	}
	code, resp = env.request(t, http.MethodGet, "/my-sessions", bearer, nil)
	if len(resp.Sessions) != 0 {
		t.Fatalf("deleted session still private: %+v", resp)
	}
	code, _ = env.request(t, http.MethodGet, "/my-sessions/"+id, bearer, nil)
	if code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", code)
	}
}

func TestRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/my-sessions"},
		{http.MethodGet, "/my-sessions/some-id"},
		{http.MethodPost, "/my-sessions/save-draft"},
		{http.MethodPost, "/my-sessions/publish"},
		{http.MethodDelete, "/my-sessions/some-id"},
	}

	for _, p := range paths {
		code, resp := env.request(t, p.method, p.path, "", nil)
		if code != http.StatusUnauthorized {
			t.Errorf("%s %s without token = %d, want 401", p.method, p.path, code)
		}
		if resp.Message != "Unauthorized" {
			t.Errorf("%s %s message = %q", p.method, p.path, resp.Message)
		}
	}

	code, _ := env.request(t, http.MethodGet, "/my-sessions", "bogus-token", nil)
	if code != http.StatusUnauthorized {
		t.Errorf("invalid token = %d, want 401", code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	err := env.tokens.Create(context.Background(), token.Token{
		ID:        "stale",
		UserID:    "user-1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("seed token: %v", err)
	}

	code, _ := env.request(t, http.MethodGet, "/my-sessions", "stale", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("expired token = %d, want 401", code)
	}

	// revoked on sight
	tok, _ := env.tokens.Get(context.Background(), "stale")
	if tok != nil {
		t.Fatal("expired token not revoked")
	}
}

func TestNonOwnerGets404(t *testing.T) {
	env := newTestEnv(t)
	owner := env.bearer(t, "owner", "owner@example.com")
	intruder := env.bearer(t, "intruder", "intruder@example.com")

	_, resp := env.request(t, http.MethodPost, "/my-sessions/save-draft", owner, draftBody(""))
	id := resp.Session.ID

	code, resp := env.request(t, http.MethodGet, "/my-sessions/"+id, intruder, nil)
	if code != http.StatusNotFound {
		t.Fatalf("non-owner get = %d, want 404", code)
	}
	if resp.Session != nil {
		t.Fatal("non-owner response leaked session data")
	}

	code, _ = env.request(t, http.MethodPost, "/my-sessions/save-draft", intruder, draftBody(id))
	if code != http.StatusNotFound {
		t.Fatalf("non-owner update = %d, want 404", code)
	}

	code, _ = env.request(t, http.MethodDelete, "/my-sessions/"+id, intruder, nil)
	if code != http.StatusNotFound {
		t.Fatalf("non-owner delete = %d, want 404", code)
	}
}

func TestSaveDraftValidation(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.bearer(t, "user-1", "user1@example.com")

	body := map[string]any{"title": "  ", "json_file_url": "not a url"}
	code, resp := env.request(t, http.MethodPost, "/my-sessions/save-draft", bearer, body)

	if code != http.StatusBadRequest {
		t.Fatalf("invalid draft = %d, want 400", code)
	}
	if resp.Message != "Validation failed" || len(resp.Errors) == 0 {
		t.Fatalf("envelope = %+v", resp)
	}

	// nothing was created
	_, listResp := env.request(t, http.MethodGet, "/my-sessions", bearer, nil)
	if len(listResp.Sessions) != 0 {
		t.Fatalf("invalid payload created sessions: %+v", listResp.Sessions)
	}
}

func TestPublishValidation(t *testing.T) {
	env := newTestEnv(t)
	bearer := env.bearer(t, "user-1", "user1@example.com")

	code, resp := env.request(t, http.MethodPost, "/my-sessions/publish", bearer,
		map[string]string{})
	if code != http.StatusBadRequest {
		t.Fatalf("publish without id = %d, want 400", code)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "sessionId" {
		t.Fatalf("envelope = %+v", resp)
	}

	code, _ = env.request(t, http.MethodPost, "/my-sessions/publish", bearer,
		map[string]string{"sessionId": "missing"})
	if code != http.StatusNotFound {
		t.Fatalf("publish unknown id = %d, want 404", code)
	}
}
