package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		total int64
		want  int
	}{
		{0, 1},
		{1, 1},
		{10, 1},
		{11, 2},
		{13, 2},
		{20, 2},
		{21, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pageCount(tt.total), "total=%d", tt.total)
	}
}

func TestLoginRedirectTarget(t *testing.T) {
	assert.Equal(t, "/auth/login?next=/new/", loginRedirectTarget("/new/"))
	assert.Equal(t, "/auth/login?next=/follow/", loginRedirectTarget("/follow/"))
	// Query strings survive, with the separator escaped.
	assert.Equal(t, "/auth/login?next=/new/%3Fpage%3D2", loginRedirectTarget("/new/?page=2"))
}

func TestSafeNextTarget(t *testing.T) {
	tests := []struct {
		name string
		next string
		want string
	}{
		{"empty falls back", "", "/"},
		{"local path passes", "/new/", "/new/"},
		{"absolute URL falls back", "https://evil.example.com/", "/"},
		{"scheme-relative falls back", "//evil.example.com/", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeNextTarget(tt.next, "/"))
		})
	}
}
