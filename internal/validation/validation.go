package validation

import "regexp"

var (
	emailRe   = regexp.MustCompile(`(?i)^[\w.-]+@([\w-]+\.)+[\w-]{2,}$`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[\W_]`)
)

// IsValidEmail reports whether s looks like local@domain.tld, allowing
// subdomains, dots and hyphens. Case-insensitive.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsStrongPassword reports whether s is at least 8 characters and contains
// at least one lowercase letter, one uppercase letter, one digit and one
// non-word character.
func IsStrongPassword(s string) bool {
	return len(s) >= 8 &&
		lowerRe.MatchString(s) &&
		upperRe.MatchString(s) &&
		digitRe.MatchString(s) &&
		specialRe.MatchString(s)
}
