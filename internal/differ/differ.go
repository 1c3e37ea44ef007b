package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStatistics holds diff calculation results
type DiffStatistics struct {
	LinesAdded   int
	LinesDeleted int
	IsIdentical  bool
}

// FileDiff is a line diff between two versions of one file
type FileDiff struct {
	Path  string
	Diffs []diffmatchpatch.Diff
	Stats DiffStatistics
}

// LineDiffer produces line-oriented diffs for dry-run previews
type LineDiffer struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	config DiffConfig
}

// NewLineDiffer creates a new line differ
func NewLineDiffer(config DiffConfig) *LineDiffer {
	return &LineDiffer{
		dmp:    diffmatchpatch.New(),
		config: config,
	}
}

// Diff compares two versions of the file at path
func (ld *LineDiffer) Diff(path, before, after string) *FileDiff {
	a, b, lines := ld.dmp.DiffLinesToChars(before, after)
	diffs := ld.dmp.DiffMain(a, b, false)
	diffs = ld.dmp.DiffCharsToLines(diffs, lines)

	return &FileDiff{
		Path:  path,
		Diffs: diffs,
		Stats: calculateStats(diffs),
	}
}

func calculateStats(diffs []diffmatchpatch.Diff) DiffStatistics {
	stats := DiffStatistics{IsIdentical: true}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			stats.LinesAdded += len(splitLines(d.Text))
			stats.IsIdentical = false
		case diffmatchpatch.DiffDelete:
			stats.LinesDeleted += len(splitLines(d.Text))
			stats.IsIdentical = false
		}
	}
	return stats
}

// Render writes the diff in a unified-like text form. Unchanged runs longer
// than twice the context are collapsed to a marker line.
func (ld *LineDiffer) Render(w io.Writer, fd *FileDiff) error {
	if fd.Stats.IsIdentical {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", fd.Path, fd.Path)

	context := ld.config.ContextLines
	for i, d := range fd.Diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writePrefixed(&b, "-", lines)
		case diffmatchpatch.DiffInsert:
			writePrefixed(&b, "+", lines)
		case diffmatchpatch.DiffEqual:
			head, tail := context, context
			if i == 0 {
				head = 0
			}
			if i == len(fd.Diffs)-1 {
				tail = 0
			}
			if len(lines) <= head+tail {
				writePrefixed(&b, " ", lines)
				continue
			}
			writePrefixed(&b, " ", lines[:head])
			b.WriteString("@@\n")
			writePrefixed(&b, " ", lines[len(lines)-tail:])
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writePrefixed(b *strings.Builder, prefix string, lines []string) {
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
