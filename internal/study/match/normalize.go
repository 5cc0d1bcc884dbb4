package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes to NFD, drops combining marks, and
// recomposes. Built once; transform.Chain values are stateless between
// String calls via transform.String.
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// quoteVariants maps typographic quote characters to their ASCII forms
// so `it's` and `it’s` compare equal.
var quoteVariants = strings.NewReplacer(
	"‘", "'", // left single
	"’", "'", // right single
	"‚", "'",
	"′", "'", // prime
	"“", `"`, // left double
	"”", `"`, // right double
	"„", `"`,
	"´", "'", // acute accent used as apostrophe
	"`", "'", // backtick
)

// Normalize reduces a string to its canonical comparison form under the
// given options: trimmed, case-folded unless CaseSensitive,
// diacritic-folded unless StrictDiacritics, with parenthesized
// substrings removed when IgnoreParentheses is set.
func Normalize(s string, opts Options) string {
	out := strings.TrimSpace(s)

	if !opts.CaseSensitive {
		out = strings.ToLower(out)
	}

	if !opts.StrictDiacritics {
		out = quoteVariants.Replace(out)
		if folded, _, err := transform.String(diacriticStripper, out); err == nil {
			out = folded
		}
	}

	if opts.IgnoreParentheses {
		out = stripParenthesized(out)
	}

	return collapseSpaces(out)
}

// stripParenthesized removes every "(...)" substring. An unbalanced
// opening parenthesis drops the rest of the string, matching how the
// original list authors used trailing "(opmerking" annotations.
func stripParenthesized(s string) string {
	if !strings.ContainsRune(s, '(') {
		return s
	}

	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// collapseSpaces folds runs of whitespace into single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// foldLettersDigits reduces a string to its letters and digits only,
// lowercased and diacritic-folded, for typo-distance comparison.
func foldLettersDigits(s string) string {
	folded := s
	if stripped, _, err := transform.String(diacriticStripper, folded); err == nil {
		folded = stripped
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
