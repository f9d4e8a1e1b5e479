package users

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/teamtrack/backend/internal/models"
)

// NonFieldErrors is the reserved ErrorMap key for business-rule violations
// that are not attributable to a single input field.
const NonFieldErrors = "non_field_errors"

// Fixed validation messages; the texts are part of the API contract.
const (
	msgUsernameCharset  = "The username must be alphanumeric characters or have only _ symbol"
	msgAlphaOnly        = "The %s must contain only alphabet symbols"
	msgPasswordMismatch = "Passwords don't match"
	msgRequired         = "This field is required."
	msgInvalidEmail     = "Enter a valid email address."
)

// ErrorMap maps a field name (or NonFieldErrors) to the ordered list of
// messages collected for it. A nil map means the input passed every check.
type ErrorMap map[string][]string

func (e ErrorMap) add(key, msg string) {
	e[key] = append(e[key], msg)
}

// ValidUsername reports whether every character of s is alphanumeric or '_'.
func ValidUsername(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// ValidAlpha reports whether s contains only alphabetic characters.
func ValidAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ValidEmail reports whether s is a plain address with a local part and a
// dotted domain. Display names and angle brackets are not accepted.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	domain := s[strings.LastIndex(s, "@")+1:]
	return strings.Contains(domain, ".")
}

// ValidateRegistration runs every registration rule eagerly, so a single
// submission reports all of its violations at once instead of stopping at
// the first one. Structural problems (missing field, malformed email) land
// under their own field key; charset and alpha-only rule breaks go to the
// shared non_field_errors bucket; a password confirmation mismatch is
// reported against the password field itself. Returns nil when clean.
func ValidateRegistration(req models.RegisterRequest) ErrorMap {
	errs := ErrorMap{}

	required := []struct{ key, value string }{
		{"username", req.Username},
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
		{"email", req.Email},
		{"position", req.Position},
		{"password", req.Password},
		{"re_password", req.RePassword},
	}
	for _, f := range required {
		if f.value == "" {
			errs.add(f.key, msgRequired)
		}
	}

	if req.Email != "" && !ValidEmail(req.Email) {
		errs.add("email", msgInvalidEmail)
	}

	if !ValidUsername(req.Username) {
		errs.add(NonFieldErrors, msgUsernameCharset)
	}
	if !ValidAlpha(req.FirstName) {
		errs.add(NonFieldErrors, fmt.Sprintf(msgAlphaOnly, "first name"))
	}
	if !ValidAlpha(req.LastName) {
		errs.add(NonFieldErrors, fmt.Sprintf(msgAlphaOnly, "last name"))
	}

	if req.Position != "" && !models.Position(req.Position).Valid() {
		errs.add("position", fmt.Sprintf("%q is not a valid choice.", req.Position))
	}

	if req.Password != req.RePassword {
		errs.add("password", msgPasswordMismatch)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
