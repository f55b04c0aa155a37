package token

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestGenerateIDUnique(t *testing.T) {
	a, err := GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}
	b, err := GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}

	if a == "" || a == b {
		t.Fatalf("ids not unique: %q %q", a, b)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tok := Token{
		ID:        "abc",
		UserID:    "user-1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := store.Create(ctx, tok); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.UserID != "user-1" {
		t.Fatalf("Get = %+v", got)
	}

	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err = store.Get(ctx, "abc")
	if err != nil || got != nil {
		t.Fatalf("Get after delete = %+v, %v", got, err)
	}
}

func TestMemoryStoreRejectsIncomplete(t *testing.T) {
	store := NewMemoryStore()

	if err := store.Create(context.Background(), Token{ID: "abc"}); err == nil {
		t.Fatal("expected error for missing user_id")
	}
	if err := store.Create(context.Background(), Token{UserID: "u"}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestFromRequest(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", ""},
		{"bearer", "Bearer tok123", "tok123"},
		{"case insensitive scheme", "bearer tok123", "tok123"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"no value", "Bearer", ""},
		{"padded value", "Bearer  tok123 ", "tok123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			if got := FromRequest(r); got != tc.want {
				t.Fatalf("FromRequest(%q) = %q, want %q", tc.header, got, tc.want)
			}
		})
	}
}
