package symspell

import (
	"regexp"
	"strings"
)

// wordRegexp matches runs of letters, digits, and apostrophes - the
// Unicode-aware equivalent of `['’\w]+` with underscore excluded (RE2 has no
// character-class subtraction, so the class is spelled out directly).
var wordRegexp = regexp.MustCompile(`['’\p{L}\p{N}]+`)

// parseWords splits the input text into words.
func parseWords(text string) []string {
	// Compatible with non-latin characters, does not split words at apostrophes
	return wordRegexp.FindAllString(strings.ToLower(text), -1)
}

func addToSet(set map[string]struct{}, key string) bool {
	if _, found := set[key]; found {
		return false
	}
	set[key] = struct{}{}
	return true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// maxInt64 returns the maximum of two int64 numbers.
func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// minInt64 returns the minimum of two int64 numbers.
func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
