package urlhandler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// schemeMarkerRegex matches a http(s) scheme followed by any number of slashes
	schemeMarkerRegex = regexp.MustCompile(`(?i)^(https?):/*`)
	// hostFirstRegex matches strings like "docs.nginx.com/path" that lack a scheme
	hostFirstRegex      = regexp.MustCompile(`(?i)^([a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*\.([a-z]{2,63}))(:\d+)?(/|$)`)
	duplicateSlashRegex = regexp.MustCompile(`/{2,}`)
	otherSchemeRegex    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

// fileExtensions are last labels that mark a relative file name rather than a host
var fileExtensions = map[string]bool{
	"html": true, "htm": true, "md": true, "php": true,
	"xml": true, "txt": true, "json": true, "pdf": true,
}

// Normalizer produces the canonical form of documentation URLs:
// scheme://host/path/ with no query, no fragment and no repeated slashes.
type Normalizer struct {
	scheme string
	host   string
}

// NewNormalizer creates a Normalizer that resolves bare paths against baseURL
func NewNormalizer(baseURL string) (*Normalizer, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	return &Normalizer{scheme: scheme, host: strings.ToLower(u.Host)}, nil
}

// BaseURL returns the scheme and host bare paths are resolved against
func (n *Normalizer) BaseURL() string {
	return n.scheme + "://" + n.host
}

// Normalize returns the canonical form of raw. The boolean is false when raw is
// empty or cannot be interpreted as a URL; callers treat that as an absent value.
// Normalize is idempotent.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	s := stripQueryAndFragment(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	switch {
	case schemeMarkerRegex.MatchString(s):
		s = schemeMarkerRegex.ReplaceAllString(s, "${1}://")
	case strings.HasPrefix(s, "//"):
		s = n.scheme + ":" + s
	case otherSchemeRegex.MatchString(s):
		return "", false
	case looksLikeHost(s):
		s = n.scheme + "://" + s
	default:
		s = n.scheme + "://" + n.host + "/" + strings.TrimLeft(s, "/")
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}

	path := duplicateSlashRegex.ReplaceAllString(u.EscapedPath(), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + path, true
}

// CleanURL is the light cleanup used for analytics exports: the fragment is
// dropped and a trailing slash is enforced. The query string is kept.
func CleanURL(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return ""
	}
	return strings.TrimRight(s, "/") + "/"
}

// PathSegments returns the non-empty path segments of a URL
func PathSegments(raw string) []string {
	s := stripQueryAndFragment(strings.TrimSpace(raw))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "/"); j >= 0 {
			s = s[j:]
		} else {
			s = ""
		}
	}
	var segments []string
	for _, part := range strings.Split(s, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func stripQueryAndFragment(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

func looksLikeHost(s string) bool {
	if strings.HasPrefix(s, "/") {
		return false
	}
	m := hostFirstRegex.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	return !fileExtensions[strings.ToLower(m[5])]
}
