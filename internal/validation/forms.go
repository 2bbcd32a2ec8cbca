// Package validation holds typed form inputs and pure validators for
// user-submitted content.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// FieldErrors maps form field names to a validation message. An empty map
// means the form is valid.
type FieldErrors map[string]string

// Any reports whether any field failed validation.
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// PostForm is the raw submission for creating or editing a post.
type PostForm struct {
	Text      string
	GroupSlug string
}

// PostData is a validated, sanitized post submission.
type PostData struct {
	Text      string
	GroupSlug string
}

// Clean validates and normalizes the form. It returns the cleaned data and
// field-level errors; callers must not persist anything when errors are
// present.
func (f PostForm) Clean() (PostData, FieldErrors) {
	errs := FieldErrors{}

	text := strings.TrimSpace(sanitizer.Sanitize(f.Text))
	if text == "" {
		errs["text"] = "Text is required"
	}

	slug := strings.TrimSpace(f.GroupSlug)
	if slug != "" {
		if err := ValidateGroupSlug(slug); err != nil {
			errs["group"] = err.Error()
		}
	}

	return PostData{Text: text, GroupSlug: slug}, errs
}

// CommentForm is the raw submission for a comment.
type CommentForm struct {
	Text string
}

// CommentData is a validated, sanitized comment submission.
type CommentData struct {
	Text string
}

// Clean validates and normalizes the comment form.
func (f CommentForm) Clean() (CommentData, FieldErrors) {
	errs := FieldErrors{}

	text := strings.TrimSpace(sanitizer.Sanitize(f.Text))
	if text == "" {
		errs["text"] = "Text is required"
	}

	return CommentData{Text: text}, errs
}

var groupSlugRegex = regexp.MustCompile(`^[a-z0-9-]{1,50}$`)

// ValidateGroupSlug validates group slug format.
func ValidateGroupSlug(slug string) error {
	if !groupSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 1-50 characters and contain only lowercase letters, numbers, and hyphens")
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}
	return nil
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,150}$`)

// Usernames live in the root URL namespace next to these fixed routes, so
// they can never collide with them.
var reservedUsernames = map[string]struct{}{
	"new":     {},
	"follow":  {},
	"group":   {},
	"about":   {},
	"auth":    {},
	"login":   {},
	"signup":  {},
	"logout":  {},
	"media":   {},
	"metrics": {},
	"health":  {},
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-150 characters and contain only letters, numbers, dots, hyphens, and underscores")
	}
	if _, exists := reservedUsernames[strings.ToLower(username)]; exists {
		return fmt.Errorf("username is reserved")
	}
	return nil
}
