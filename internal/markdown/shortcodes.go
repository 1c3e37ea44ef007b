package markdown

import (
	"path"
	"regexp"
	"strings"
)

var (
	includePattern  = regexp.MustCompile(`{{<\s*include\s*["']([^"']+)["']\s*>}}`)
	versionsPattern = regexp.MustCompile(`{{<\s*versions\s+.*?>}}`)
	relrefPattern   = regexp.MustCompile(`{{<\s*relref\s*["']([^"']+)["']\s*>}}`)
	commentPattern  = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// IncludeTargets returns the targets of every include shortcode in text
func IncludeTargets(text string) []string {
	var targets []string
	for _, m := range includePattern.FindAllStringSubmatch(text, -1) {
		targets = append(targets, m[1])
	}
	return targets
}

// ReplaceIncludes replaces each include shortcode with resolve(target)
func ReplaceIncludes(text string, resolve func(target string) string) string {
	return includePattern.ReplaceAllStringFunc(text, func(token string) string {
		return resolve(includePattern.FindStringSubmatch(token)[1])
	})
}

// HasIncludes reports whether text contains an include shortcode
func HasIncludes(text string) bool {
	return includePattern.MatchString(text)
}

// RemoveVersionLines drops every line holding a versions shortcode
func RemoveVersionLines(text string) string {
	if !versionsPattern.MatchString(text) {
		return text
	}
	lines := strings.SplitAfter(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !versionsPattern.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "")
}

// RemoveHTMLComments strips HTML comments, including multi-line ones
func RemoveHTMLComments(text string) string {
	return commentPattern.ReplaceAllString(text, "")
}

// ReplaceRelrefs rewrites relref shortcodes as paths relative to currentDir.
// A leading "/<docSet>/" or "/" is removed from the target first.
func ReplaceRelrefs(text, currentDir, docSet string) string {
	if currentDir == "" {
		currentDir = "."
	}
	return relrefPattern.ReplaceAllStringFunc(text, func(token string) string {
		target := relrefPattern.FindStringSubmatch(token)[1]
		switch {
		case docSet != "" && strings.HasPrefix(target, "/"+docSet+"/"):
			target = strings.TrimPrefix(target, "/"+docSet+"/")
		case strings.HasPrefix(target, "/"):
			target = target[1:]
		}
		return relativePath(path.Clean(currentDir), path.Clean(target))
	})
}

func relativePath(from, to string) string {
	if from == "." {
		return to
	}
	fromParts := strings.Split(from, "/")
	toParts := strings.Split(to, "/")
	i := 0
	for i < len(fromParts) && i < len(toParts) && fromParts[i] == toParts[i] {
		i++
	}
	var parts []string
	for range fromParts[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[i:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}
