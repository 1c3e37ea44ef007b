package urlhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer("https://docs.nginx.com")
	require.NoError(t, err)
	return n
}

func TestNewNormalizer_InvalidBase(t *testing.T) {
	for _, base := range []string{"", "docs.nginx.com", "ftp://docs.nginx.com", "/relative"} {
		_, err := NewNormalizer(base)
		assert.ErrorIs(t, err, ErrInvalidBaseURL, base)
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name     string
		input    string
		expected string
		absent   bool
	}{
		{name: "already canonical", input: "https://docs.nginx.com/nginx/admin-guide/", expected: "https://docs.nginx.com/nginx/admin-guide/"},
		{name: "adds trailing slash", input: "https://docs.nginx.com/nginx/admin-guide", expected: "https://docs.nginx.com/nginx/admin-guide/"},
		{name: "strips query and fragment", input: "https://docs.nginx.com/nginx/?utm=1#install", expected: "https://docs.nginx.com/nginx/"},
		{name: "collapses duplicate slashes", input: "https://docs.nginx.com//nginx///admin-guide", expected: "https://docs.nginx.com/nginx/admin-guide/"},
		{name: "repairs extra scheme slashes", input: "https:///docs.nginx.com/nginx", expected: "https://docs.nginx.com/nginx/"},
		{name: "repairs missing scheme slash", input: "https:/docs.nginx.com/nginx", expected: "https://docs.nginx.com/nginx/"},
		{name: "lowercases scheme and host", input: "HTTPS://Docs.NGINX.com/NGINX/", expected: "https://docs.nginx.com/NGINX/"},
		{name: "bare path joined to base", input: "/nginx/admin-guide", expected: "https://docs.nginx.com/nginx/admin-guide/"},
		{name: "relative path joined to base", input: "nginx/admin-guide/", expected: "https://docs.nginx.com/nginx/admin-guide/"},
		{name: "file name joined to base", input: "index.html", expected: "https://docs.nginx.com/index.html/"},
		{name: "scheme relative", input: "//docs.nginx.com/nginx", expected: "https://docs.nginx.com/nginx/"},
		{name: "host without scheme", input: "docs.nginx.com/nginx", expected: "https://docs.nginx.com/nginx/"},
		{name: "root", input: "https://docs.nginx.com", expected: "https://docs.nginx.com/"},
		{name: "surrounding whitespace", input: "  /nginx/  ", expected: "https://docs.nginx.com/nginx/"},
		{name: "empty", input: "", absent: true},
		{name: "blank", input: "   ", absent: true},
		{name: "fragment only", input: "#top", absent: true},
		{name: "other scheme", input: "ftp://files.example.com/x", absent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Normalize(tt.input)
			if tt.absent {
				assert.False(t, ok)
				assert.Empty(t, got)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := newTestNormalizer(t)

	inputs := []string{
		"https://docs.nginx.com/nginx/admin-guide",
		"http://example.com//a//b?x=1#y",
		"https:////docs.nginx.com/a%20b/c",
		"/path with spaces/x",
		"docs.nginx.com:8443/nginx",
		"//cdn.example.org",
		"nginx-one/",
		"https://docs.nginx.com/a%2Fb/",
		"/",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once, ok := n.Normalize(in)
			require.True(t, ok)
			twice, ok := n.Normalize(once)
			require.True(t, ok)
			assert.Equal(t, once, twice)
		})
	}
}

func TestCleanURL(t *testing.T) {
	assert.Equal(t, "https://docs.nginx.com/nginx/", CleanURL("https://docs.nginx.com/nginx#top"))
	assert.Equal(t, "https://docs.nginx.com/nginx/?a=1/", CleanURL("https://docs.nginx.com/nginx/?a=1"))
	assert.Equal(t, "https://docs.nginx.com/nginx/", CleanURL(" https://docs.nginx.com/nginx/ "))
	assert.Equal(t, "", CleanURL("#only"))
	assert.Equal(t, "", CleanURL(""))
}

func TestPathSegments(t *testing.T) {
	assert.Equal(t, []string{"nginx-one", "getting-started"}, PathSegments("https://docs.nginx.com/nginx-one/getting-started/#x"))
	assert.Equal(t, []string{"a", "b"}, PathSegments("/a//b/"))
	assert.Empty(t, PathSegments("https://docs.nginx.com"))
}
