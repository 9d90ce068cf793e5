// Package redact removes credentials from storage URLs and from error
// messages that may embed them before they are logged or printed.
package redact

import (
	"net/url"
	"regexp"
	"strings"
)

// Placeholders substituted for redacted values.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

var (
	// scheme://user:password@ inside free text
	connCredentialRegex = regexp.MustCompile(`(?i)\b((?:postgres|postgresql|redis|rediss|sqlite|file)://)[^/@\s]+@`)

	// password=secret as found in key/value DSNs and query strings
	passwordRegex = regexp.MustCompile(`(?i)\b(password|passwd|pwd)(\s*[=:]\s*['"]?)[^'"&\s]+`)

	patterns = []struct {
		re          *regexp.Regexp
		replacement string
	}{
		{connCredentialRegex, "${1}" + RedactedCredentialPlaceholder + "@"},
		{passwordRegex, "${1}${2}" + RedactedCredentialPlaceholder},
	}
)

// String redacts credentials from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range patterns {
		result = p.re.ReplaceAllString(result, p.replacement)
	}
	return result
}

// Error redacts credentials from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// URL returns raw with its credentials redacted, keeping the scheme, host
// and path readable. Values without a scheme, such as SQLite paths or
// host:port addresses, are treated as free text.
func URL(raw string) string {
	if !strings.Contains(raw, "://") {
		return String(raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return RedactionPlaceholder
	}
	return String(u.Redacted())
}
