// Package match decides whether a typed answer counts as correct under
// a session's configurable leniency rules. All checks are pure string
// functions; empty input is normalized and compared like any other
// value, never treated as an error.
package match

import (
	"strings"

	"github.com/Loekiboy/loek-it-up/internal/study/textdiff"
)

// Options are the session-level leniency flags controlling how strictly
// a typed answer must match the canonical answer.
type Options struct {
	// AcceptSlash accepts a match against any single alternative of a
	// slash-separated answer ("big/large" accepts "big" and "large").
	AcceptSlash bool `json:"accept_slash"`

	// IgnoreParentheses removes "(...)" substrings before comparing.
	IgnoreParentheses bool `json:"ignore_parentheses"`

	// AllowTypos accepts answers within a small edit distance of the
	// correct one (1 edit up to 7 characters, 2 beyond).
	AllowTypos bool `json:"allow_typos"`

	// CaseSensitive disables case folding.
	CaseSensitive bool `json:"case_sensitive"`

	// StrictDiacritics disables diacritic and quote-variant folding.
	StrictDiacritics bool `json:"strict_diacritics"`
}

// DefaultOptions are the leniency flags a new session starts with.
func DefaultOptions() Options {
	return Options{
		AcceptSlash:       true,
		IgnoreParentheses: true,
	}
}

// typoThreshold is the maximum accepted edit distance for a correct
// answer of the given folded length.
func typoThreshold(length int) int {
	if length <= 7 {
		return 1
	}
	return 2
}

// objectMarkers are the optional-object placeholders common in bilingual
// school lists ("show sb sth"). Answers with and without them compare
// equal.
var objectMarkers = []string{"sb", "sth", "s.b.", "s.th."}

// Check reports whether userInput counts as a correct answer for
// correctAnswer under the given options.
func Check(userInput, correctAnswer string, opts Options) bool {
	user := Normalize(userInput, opts)
	correct := Normalize(correctAnswer, opts)

	if user == correct {
		return true
	}

	// "show sb sth" ~ "show": compare with the object markers and any
	// slashes stripped from both sides.
	if containsObjectMarker(correct) {
		if stripObjectMarkers(user) == stripObjectMarkers(correct) {
			return true
		}
	}

	if opts.AcceptSlash && strings.ContainsRune(correctAnswer, '/') {
		for _, alt := range strings.Split(correctAnswer, "/") {
			if user == Normalize(alt, opts) {
				return true
			}
		}
	}

	if opts.AllowTypos {
		a := foldLettersDigits(user)
		b := foldLettersDigits(correct)
		if len(a) > 0 && len(b) > 0 {
			if textdiff.Distance(a, b) <= typoThreshold(len([]rune(b))) {
				return true
			}
		}
	}

	return false
}

func containsObjectMarker(s string) bool {
	for _, tok := range strings.Fields(s) {
		trimmed := strings.Trim(tok, "/")
		for _, m := range objectMarkers {
			if trimmed == m {
				return true
			}
		}
	}
	return false
}

// stripObjectMarkers removes the sb/sth tokens and slash characters,
// then re-collapses spacing.
func stripObjectMarkers(s string) string {
	fields := strings.Fields(strings.ReplaceAll(s, "/", " "))
	kept := fields[:0]
	for _, tok := range fields {
		marker := false
		for _, m := range objectMarkers {
			if tok == m {
				marker = true
				break
			}
		}
		if !marker {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}
