package token

import (
	"net/http"
	"strings"
)

const scheme = "Bearer"

// FromRequest extracts the bearer token from the Authorization header.
// Returns "" when the header is absent or not a bearer credential.
func FromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
