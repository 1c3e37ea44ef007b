package redirects

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/urlhandler"
	"github.com/rs/zerolog"
)

var (
	returnRegex  = regexp.MustCompile(`\breturn\s+(\d{3})\s+("[^"]*"|'[^']*'|[^;\s]+)`)
	rewriteRegex = regexp.MustCompile(`\brewrite\s+(\S+)\s+("[^"]*"|'[^']*'|[^;\s]+)(?:\s+(permanent|redirect|last|break))?`)
	// hostVarRegex matches a target that rebuilds the request host from variables
	hostVarRegex  = regexp.MustCompile(`^(?:\$scheme|https?)://\$(?:host|http_host|server_name)`)
	variableRegex = regexp.MustCompile(`\$\{?[A-Za-z0-9_]+\}?`)
)

// locationModifiers are the optional match modifiers of a location selector
var locationModifiers = map[string]bool{"=": true, "^~": true, "~": true, "~*": true}

// redirectCodes are the status codes that make a return directive a redirect
var redirectCodes = map[string]bool{"301": true, "302": true, "303": true, "307": true, "308": true}

// ParseStats summarizes one parse
type ParseStats struct {
	Lines      int
	Rules      int
	Skipped    int
	Duplicates int
}

// Parser turns redirect directive files into rule tables. It is tolerant:
// unrecognized lines are skipped and logged at debug level.
type Parser struct {
	normalizer *urlhandler.Normalizer
	logger     zerolog.Logger
	stats      ParseStats
}

// NewParser creates a Parser normalizing paths with normalizer
func NewParser(normalizer *urlhandler.Normalizer, logger zerolog.Logger) *Parser {
	return &Parser{
		normalizer: normalizer,
		logger:     logger.With().Str("component", "RedirectParser").Logger(),
	}
}

// Stats returns counters from the last Parse call
func (p *Parser) Stats() ParseStats {
	return p.stats
}

// LoadFile parses the rule file at path. A missing file is not an error: a
// warning is logged and an empty RuleSet is returned.
func (p *Parser) LoadFile(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn().Str("path", path).Msg("Redirect rule file not found, no canonicalization available")
			return NewRuleSet(nil), nil
		}
		return nil, common.WrapErrorf(err, "failed to open redirect rule file: %s", path)
	}
	defer f.Close()

	rs, err := p.Parse(f)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to parse redirect rule file: %s", path)
	}
	p.logger.Info().
		Str("path", path).
		Int("rules", rs.Len()).
		Int("skipped_lines", p.stats.Skipped).
		Int("duplicates", p.stats.Duplicates).
		Msg("Loaded redirect rules")
	return rs, nil
}

// Parse reads directives from r and returns the ordered rule table
func (p *Parser) Parse(r io.Reader) (*RuleSet, error) {
	p.stats = ParseStats{}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	p.stats.Lines = len(lines)

	var rules []RedirectRule
	consumed := make(map[int]bool)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || consumed[i] {
			continue
		}
		fields := strings.Fields(line)

		var oldRaw, newRaw string
		switch {
		case fields[0] == "location":
			selector, ok := parseLocation(fields)
			if !ok {
				p.skip(i, line, "location without path")
				continue
			}
			target, at := p.findBlockTarget(lines, i)
			if at < 0 {
				p.skip(i, line, "location without redirect target")
				continue
			}
			if at != i {
				consumed[at] = true
			}
			oldRaw, newRaw = selector, target
		case fields[0] == "rewrite":
			target, ok := rewriteTarget(line, true)
			if !ok {
				p.skip(i, line, "rewrite without redirect flag")
				continue
			}
			oldRaw, newRaw = literalPrefix(rewriteRegex.FindStringSubmatch(line)[1]), target
		case isTwoTokenRule(fields):
			oldRaw, newRaw = fields[0], unquote(strings.TrimSuffix(fields[1], ";"))
		default:
			if line != "}" && line != "{" {
				p.skip(i, line, "unrecognized directive")
			}
			continue
		}

		rule, ok := p.buildRule(i, oldRaw, newRaw)
		if !ok {
			continue
		}
		rules = append(rules, rule)
	}

	rs := NewRuleSet(rules)
	p.stats.Duplicates = len(rules) - rs.Len()
	p.stats.Rules = rs.Len()
	return rs, nil
}

// findBlockTarget looks for a redirect directive on the opener line itself and
// then on following lines until the block closes or the next location opener.
// It returns the target and the index of the line holding it, or -1.
func (p *Parser) findBlockTarget(lines []string, start int) (string, int) {
	opener := lines[start]
	opened := strings.Contains(opener, "{")
	depth := strings.Count(opener, "{") - strings.Count(opener, "}")
	sameLine := opener
	if opened {
		sameLine = opener[strings.Index(opener, "{")+1:]
	}
	if target, ok := directiveTarget(sameLine); ok {
		return target, start
	}
	if opened && depth <= 0 {
		return "", -1
	}
	for j := start + 1; j < len(lines); j++ {
		line := strings.TrimSpace(lines[j])
		if strings.HasPrefix(line, "location ") || line == "location" {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if target, ok := directiveTarget(line); ok {
			return target, j
		}
		if strings.Contains(line, "{") {
			opened = true
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if opened && depth <= 0 {
			break
		}
	}
	return "", -1
}

func (p *Parser) buildRule(i int, oldRaw, newRaw string) (RedirectRule, bool) {
	oldPath, ok := p.normalizer.Normalize(stripVariables(oldRaw))
	if !ok || oldPath == p.normalizer.BaseURL()+"/" {
		p.skip(i, oldRaw, "old path is empty or the site root")
		return RedirectRule{}, false
	}
	newPath, ok := p.normalizer.Normalize(stripVariables(newRaw))
	if !ok {
		p.skip(i, newRaw, "target does not normalize")
		return RedirectRule{}, false
	}
	if oldPath == newPath {
		p.skip(i, oldRaw, "self redirect")
		return RedirectRule{}, false
	}
	return RedirectRule{OldPath: oldPath, NewPath: newPath, Line: i + 1}, true
}

func (p *Parser) skip(i int, line, reason string) {
	p.stats.Skipped++
	p.logger.Debug().Int("line", i+1).Str("text", line).Str("reason", reason).Msg("Skipping redirect line")
}

// parseLocation returns the literal path selected by a location opener
func parseLocation(fields []string) (string, bool) {
	if len(fields) < 2 {
		return "", false
	}
	idx := 1
	modifier := ""
	if locationModifiers[fields[1]] {
		modifier = fields[1]
		idx = 2
	}
	if idx >= len(fields) {
		return "", false
	}
	path := strings.TrimSuffix(fields[idx], "{")
	if path == "" || path == "{" {
		return "", false
	}
	if modifier == "~" || modifier == "~*" {
		path = literalPrefix(path)
	}
	return path, path != ""
}

// directiveTarget extracts a redirect target from a return or rewrite directive
func directiveTarget(text string) (string, bool) {
	if m := returnRegex.FindStringSubmatch(text); m != nil {
		if !redirectCodes[m[1]] {
			return "", false
		}
		return unquote(m[2]), true
	}
	return rewriteTarget(text, false)
}

// rewriteTarget extracts the replacement of a rewrite directive. Standalone
// rewrites only count when flagged permanent or redirect.
func rewriteTarget(text string, requireFlag bool) (string, bool) {
	m := rewriteRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if requireFlag && m[3] != "permanent" && m[3] != "redirect" {
		return "", false
	}
	return unquote(m[2]), true
}

// unquote removes one matching pair of double or single quotes
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// isTwoTokenRule accepts "<old> <new>" and "<old> <new> <3xx>" lines
func isTwoTokenRule(fields []string) bool {
	if len(fields) == 3 && redirectCodes[strings.TrimSuffix(fields[2], ";")] {
		fields = fields[:2]
	}
	if len(fields) != 2 {
		return false
	}
	return looksLikePath(fields[0]) && looksLikePath(strings.TrimSuffix(fields[1], ";"))
}

func looksLikePath(token string) bool {
	return strings.HasPrefix(token, "/") || strings.Contains(token, "://")
}

// literalPrefix returns the leading literal part of a regular expression
func literalPrefix(pattern string) string {
	pattern = strings.TrimPrefix(pattern, "^")
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			next := pattern[i+1]
			if strings.IndexByte(`./-_~`, next) >= 0 {
				b.WriteByte(next)
				i++
				continue
			}
			break
		}
		if strings.IndexByte(`.*+?()[]{}|$`, c) >= 0 {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}

// stripVariables removes server-side template variables from a path or URL
func stripVariables(s string) string {
	s = hostVarRegex.ReplaceAllString(s, "")
	s = variableRegex.ReplaceAllString(s, "")
	if s == "" {
		return "/"
	}
	return s
}
