package user

import "regexp"

// emailPattern matches local-part@domain.tld: word characters, dot and hyphen
// in the local part, alphanumeric/dot/hyphen domain, 2+ letter TLD.
var emailPattern = regexp.MustCompile(`^[\w.-]+@[a-zA-Z\d.-]+\.[a-zA-Z]{2,}$`)

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasDigit  = regexp.MustCompile(`\d`)
)

// IsValidEmail checks the shape of an email candidate. Rejects the empty
// string.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPassword checks password strength: at least 8 characters, at least
// one letter and at least one digit. No upper bound and no special-character
// requirement. Login only validates email shape, not strength, so existing
// weak passwords still authenticate.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return hasLetter.MatchString(password) && hasDigit.MatchString(password)
}
