package llmutils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var reThink = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Truncate shortens a string to at most n runes, adding "..." if it was truncated.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

// StripThink removes <think>…</think> blocks that some models embed.
func StripThink(s string) string {
	return reThink.ReplaceAllString(s, "")
}

// StringOrDefault returns s if it's not empty, or def if s is empty.
func StringOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// SplitCommand splits user input into a lower-cased verb and the remaining
// argument text, e.g. "Price  btc" -> ("price", "btc").
func SplitCommand(input string) (verb, rest string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", ""
	}
	verb = strings.ToLower(fields[0])
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), fields[0]))
	return verb, rest
}
