package redirects

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// RedirectRule maps an old canonical URL prefix to its new canonical URL.
// Both fields are normalized absolute URLs.
type RedirectRule struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
	// Line is the 1-based line of the rule file the rule came from
	Line int `json:"line"`
}

// RuleSet is an ordered, read-only rule table. Rules are unique by OldPath
// and sorted by descending OldPath length so specific rules match first.
type RuleSet struct {
	rules []RedirectRule
}

// NewRuleSet deduplicates rules by OldPath (first wins) and orders them
func NewRuleSet(rules []RedirectRule) *RuleSet {
	seen := make(map[string]bool, len(rules))
	unique := make([]RedirectRule, 0, len(rules))
	for _, r := range rules {
		if r.OldPath == "" || seen[r.OldPath] {
			continue
		}
		seen[r.OldPath] = true
		unique = append(unique, r)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return len(unique[i].OldPath) > len(unique[j].OldPath)
	})
	return &RuleSet{rules: unique}
}

// Rules returns a copy of the ordered rules
func (rs *RuleSet) Rules() []RedirectRule {
	out := make([]RedirectRule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Apply rewrites url with the first rule whose OldPath prefixes it. Only the
// leading occurrence is replaced. The boolean reports whether a rule matched.
func (rs *RuleSet) Apply(url string) (string, bool) {
	for _, r := range rs.rules {
		if strings.HasPrefix(url, r.OldPath) {
			return r.NewPath + url[len(r.OldPath):], true
		}
	}
	return url, false
}

// Mapper applies a RuleSet row by row and keeps an audit count of changes
type Mapper struct {
	rules   *RuleSet
	logger  zerolog.Logger
	changes int
}

// NewMapper creates a Mapper logging through logger
func NewMapper(rules *RuleSet, logger zerolog.Logger) *Mapper {
	return &Mapper{
		rules:  rules,
		logger: logger.With().Str("component", "RedirectMapper").Logger(),
	}
}

// Map rewrites url for the given row and logs the row when the value changes
func (a *Mapper) Map(row int, url string) string {
	mapped, matched := a.rules.Apply(url)
	if matched && mapped != url {
		a.changes++
		a.logger.Info().
			Int("row", row).
			Str("before", url).
			Str("after", mapped).
			Msg("URL rewritten by redirect rule")
	}
	return mapped
}

// Changes returns how many rows were rewritten so far
func (a *Mapper) Changes() int {
	return a.changes
}
