// Package emailx normalizes email addresses before they are stored or
// compared.
package emailx

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize trims surrounding whitespace and lower-cases the domain part of
// an address. The local part is kept as typed since mailbox names may be
// case sensitive. The split happens at the last '@'; an address without one
// is returned trimmed and otherwise untouched.
func Normalize(email string) string {
	email = strings.TrimSpace(email)

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}

	return email[:at] + "@" + cases.Lower(language.Und).String(email[at+1:])
}
