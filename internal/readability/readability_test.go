package readability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountSyllables(t *testing.T) {
	tests := map[string]int{
		"cat":         1,
		"make":        1,
		"table":       2,
		"rhythm":      1,
		"queue":       1,
		"readability": 5,
		"NGINX":       1,
	}
	for word, want := range tests {
		t.Run(word, func(t *testing.T) {
			assert.Equal(t, want, CountSyllables(word))
		})
	}
}

func TestAnalyze(t *testing.T) {
	stats := Analyze("The cat sat. Did it? Yes! -- ")
	assert.Equal(t, TextStats{Words: 6, Sentences: 3, Syllables: 6}, stats)
}

func TestFleschKincaidGrade(t *testing.T) {
	assert.InDelta(t, -1.45, FleschKincaidGrade("The cat sat on the mat."), 1e-9)
	assert.Equal(t, 0.0, FleschKincaidGrade("  "))
}

func TestPlainText_DropsCodeBlocks(t *testing.T) {
	a := NewAnalyzer(zerolog.Nop())
	text, err := a.PlainText([]byte("---\ntitle: T\n---\n# Title\n\nSome *text*.\n\n```\ncode here\n```\n"))
	require.NoError(t, err)
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Some text.")
	assert.NotContains(t, text, "code here")
	assert.NotContains(t, text, "title: T")
}

func TestRun_SkipsIndexFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("The cat sat on the mat.\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_index.md"), []byte("Index.\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	frame, err := NewAnalyzer(zerolog.Nop()).Run(dir)
	require.NoError(t, err)
	require.Equal(t, 1, frame.Len())
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "a.md")), frame.Get(0, ColumnFilePath).Value)
	assert.Equal(t, "-1.45", frame.Get(0, ColumnReadingLevel).Value)
}
