package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostForm_Clean(t *testing.T) {
	tests := []struct {
		name       string
		form       PostForm
		wantText   string
		wantErrors []string
	}{
		{"Valid text only", PostForm{Text: "hello world"}, "hello world", nil},
		{"Valid with group", PostForm{Text: "hi", GroupSlug: "cooking"}, "hi", nil},
		{"Empty text", PostForm{Text: ""}, "", []string{"text"}},
		{"Whitespace only", PostForm{Text: "   \n\t"}, "", []string{"text"}},
		{"Script stripped then empty", PostForm{Text: "<script>alert(1)</script>"}, "", []string{"text"}},
		{"HTML sanitized", PostForm{Text: "a <b>bold</b> <script>x</script>claim"}, "a <b>bold</b> claim", nil},
		{"Bad group slug", PostForm{Text: "ok", GroupSlug: "Not A Slug"}, "ok", []string{"group"}},
		{"Hyphen-edged slug", PostForm{Text: "ok", GroupSlug: "-edge-"}, "ok", []string{"group"}},
		{"Empty text and bad slug", PostForm{GroupSlug: "??"}, "", []string{"text", "group"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, errs := tt.form.Clean()
			if len(tt.wantErrors) == 0 {
				assert.False(t, errs.Any())
				assert.Equal(t, tt.wantText, data.Text)
			} else {
				for _, field := range tt.wantErrors {
					assert.Contains(t, errs, field)
				}
				assert.Len(t, errs, len(tt.wantErrors))
			}
		})
	}
}

func TestCommentForm_Clean(t *testing.T) {
	data, errs := CommentForm{Text: "  nice post  "}.Clean()
	assert.False(t, errs.Any())
	assert.Equal(t, "nice post", data.Text)

	_, errs = CommentForm{Text: " "}.Clean()
	assert.True(t, errs.Any())
	assert.Contains(t, errs, "text")
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("leo_tolstoy"))
	assert.NoError(t, ValidateUsername("user.42"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has space"))
	// Reserved: these are fixed routes in the root namespace.
	for _, name := range []string{"new", "follow", "group", "about", "auth", "Login"} {
		assert.Error(t, ValidateUsername(name), name)
	}
}

func TestValidateGroupSlug(t *testing.T) {
	assert.NoError(t, ValidateGroupSlug("daily-notes"))
	assert.Error(t, ValidateGroupSlug("UPPER"))
	assert.Error(t, ValidateGroupSlug(""))
	assert.Error(t, ValidateGroupSlug("trailing-"))
}
