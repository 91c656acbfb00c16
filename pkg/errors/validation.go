package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// loginRegex matches valid GitHub logins: alphanumeric segments joined by
// single hyphens, no leading or trailing hyphen.
var loginRegex = regexp.MustCompile(`^[a-zA-Z0-9](?:-?[a-zA-Z0-9])*$`)

// ValidateLogin validates a GitHub account login.
//
// The validation rules follow GitHub's username constraints:
//   - No empty names
//   - Maximum length of 39 characters
//   - Alphanumeric characters and single hyphens only
//   - Cannot begin or end with a hyphen
func ValidateLogin(login string) error {
	if login == "" {
		return New(ErrCodeInvalidLogin, "login cannot be empty")
	}

	if len(login) > 39 {
		return New(ErrCodeInvalidLogin, "login too long (max 39 characters)")
	}

	if !loginRegex.MatchString(login) {
		return New(ErrCodeInvalidLogin, "invalid login: %q", login)
	}

	return nil
}

// ValidateRepoName validates a fully qualified repository name of the form
// "owner/name". It rejects names that could be used for path traversal when
// the name later appears in cache keys or request paths.
//
// The validation rules are intentionally conservative:
//   - Exactly one slash separating non-empty owner and name
//   - No control characters or null bytes
//   - No path traversal sequences (..)
//   - Maximum length of 256 characters
func ValidateRepoName(fullName string) error {
	if fullName == "" {
		return New(ErrCodeInvalidRepo, "repository name cannot be empty")
	}

	if len(fullName) > 256 {
		return New(ErrCodeInvalidRepo, "repository name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range fullName {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRepo, "repository name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(fullName, pattern) {
			return New(ErrCodeInvalidRepo, "repository name contains invalid characters: %q", pattern)
		}
	}

	owner, name, found := strings.Cut(fullName, "/")
	if !found || owner == "" || name == "" {
		return New(ErrCodeInvalidRepo, "repository name must have the form owner/name: %q", fullName)
	}
	if strings.Contains(name, "/") {
		return New(ErrCodeInvalidRepo, "repository name must contain exactly one slash: %q", fullName)
	}

	return nil
}

// ValidateExclusions validates a list of repository exclusions. Every entry
// must be a well-formed owner/name pair; the error reports the first bad one.
func ValidateExclusions(exclusions []string) error {
	for _, entry := range exclusions {
		if err := ValidateRepoName(entry); err != nil {
			return Wrap(ErrCodeInvalidConfig, err, "invalid exclusion entry %q", entry)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
