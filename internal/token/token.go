package token

import (
	"context"
	"time"
)

// Token is an issued bearer credential. It stores only an identity
// pointer, never auth state or user data.
type Token struct {
	ID        string    // opaque bearer value handed to the client
	UserID    string    // references users.id
	CreatedAt time.Time
	ExpiresAt time.Time // absolute expiry
}

// Store defines how issued tokens are persisted and revoked.
// Implementations must treat token values as opaque.
type Store interface {
	Create(ctx context.Context, t Token) error
	Get(ctx context.Context, id string) (*Token, error)
	Delete(ctx context.Context, id string) error
}
