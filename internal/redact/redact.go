// Package redact scrubs sensitive material from strings before they
// reach logs or error responses. The rule set covers what this service
// can actually leak: the postgres connection URL, password and secret
// parameters, the Gemini API key and JWT secret, issued bearer tokens,
// user email addresses, SQL fragments from store errors, and file paths
// from config or migration failures.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

// rule pairs a pattern with its placeholder. Rules apply in order, so
// the connection-string rule consumes embedded passwords before the
// password rule sees them.
type rule struct {
	re          *regexp.Regexp
	placeholder string
}

var rules = []rule{
	// postgres connection URL userinfo (pgx DSN from config)
	{regexp.MustCompile(`(?i)postgres(ql)?://[^@\s]+@`), RedactedCredentialPlaceholder},

	// password parameters in messages or DSN fragments
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},

	// API keys and shared secrets (Gemini key, JWT signing secret)
	{regexp.MustCompile(`(?i)(api[_-]?key|jwt[_-]?secret|secret|token|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), RedactedKeyPlaceholder},

	// three-part base64url JWT, as issued by the auth service
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},

	// SQL fragments surfaced by driver errors
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE)(?:[\s\w,*()='"]+)?`), RedactedSQLPlaceholder},

	// file paths from config loading and migration errors
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},

	// account email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`), RedactedEmailPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
