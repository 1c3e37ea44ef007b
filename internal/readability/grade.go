package readability

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

var sentenceEnd = regexp.MustCompile(`[.!?]+(?:\s|$)`)

// TextStats holds the counts a grade is computed from
type TextStats struct {
	Words     int
	Sentences int
	Syllables int
}

// Analyze counts words, sentences and syllables in plain text
func Analyze(text string) TextStats {
	var stats TextStats
	for _, field := range strings.Fields(text) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word == "" {
			continue
		}
		stats.Words++
		stats.Syllables += CountSyllables(word)
	}

	for _, segment := range sentenceEnd.Split(text, -1) {
		if strings.IndexFunc(segment, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			stats.Sentences++
		}
	}
	return stats
}

// FleschKincaidGrade returns the US grade level of text rounded to two
// decimals. Text without words scores zero.
func FleschKincaidGrade(text string) float64 {
	stats := Analyze(text)
	if stats.Words == 0 {
		return 0
	}
	if stats.Sentences == 0 {
		stats.Sentences = 1
	}
	grade := 0.39*(float64(stats.Words)/float64(stats.Sentences)) +
		11.8*(float64(stats.Syllables)/float64(stats.Words)) -
		15.59
	return math.Round(grade*100) / 100
}

// CountSyllables estimates syllables from vowel groups. A trailing silent e
// is discounted and every word has at least one syllable.
func CountSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if count > 1 && strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
