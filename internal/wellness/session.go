package wellness

import (
	"net/url"
	"strings"
	"time"
)

// Status is the publication state of a wellness session.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Session is a user-authored wellness content record. Not to be
// confused with an authentication session; those live in the token
// package.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	Tags        []string  `json:"tags"`
	ResourceURL string    `json:"json_file_url"`
	Status      Status    `json:"status"`
	Author      string    `json:"author,omitempty"` // owner email, public listings only
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Fields is the mutable portion of a session. Updates apply all
// fields at once; there is no partial write.
type Fields struct {
	Title       string
	Tags        []string
	ResourceURL string
	Status      Status
}

// ValidateFields normalizes and checks a draft payload. Title and
// resource URL must be non-empty after trimming, and the URL must be
// syntactically valid (it is never fetched). The whole payload is
// rejected on the first failure; nothing is applied partially.
func ValidateFields(title string, tags []string, resourceURL string) (Fields, error) {
	title = strings.TrimSpace(title)
	resourceURL = strings.TrimSpace(resourceURL)

	var fieldErrs []FieldError
	if title == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "title", Message: "Title is required"})
	}
	if resourceURL == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "json_file_url", Message: "JSON file URL is required"})
	} else if !validURL(resourceURL) {
		fieldErrs = append(fieldErrs, FieldError{Field: "json_file_url", Message: "JSON file URL must be a valid URL"})
	}

	if len(fieldErrs) > 0 {
		return Fields{}, &ValidationError{Fields: fieldErrs}
	}

	return Fields{
		Title:       title,
		Tags:        normalizeTags(tags),
		ResourceURL: resourceURL,
		Status:      StatusDraft,
	}, nil
}

func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ParseTags splits a comma-separated tag string, trimming each tag
// and dropping empties: "a, b ,c" -> ["a" "b" "c"].
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return normalizeTags(strings.Split(s, ","))
}

// FormatTags renders tags for display: ["a" "b" "c"] -> "a, b, c".
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}
