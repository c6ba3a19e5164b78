// Package phone decides whether free text is a usable phone number.
//
// Numbers are parsed without a default region, so national formats without a
// leading "+" and country code are rejected.
package phone

import (
	"strings"
	"unicode"

	"phonebook/errs"

	"github.com/nyaruka/phonenumbers"
)

// noRegion makes the parser require an explicit country calling code.
const noRegion = ""

var ErrInvalidNumber = errs.Errorf(errs.EINVALID, "invalid phone number")

// IsValidNumber reports whether text parses as a phone number that the
// numbering plan of its detected region accepts. Empty text is not valid.
func IsValidNumber(text string) bool {
	_, ok := parse(text)
	return ok
}

// Format returns the E.164 form of a valid number.
func Format(text string) (string, error) {
	num, ok := parse(text)
	if !ok {
		return "", ErrInvalidNumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func parse(text string) (*phonenumbers.PhoneNumber, bool) {
	if text == "" || !plainNumber(text) {
		return nil, false
	}
	num, err := phonenumbers.Parse(text, noRegion)
	if err != nil {
		return nil, false
	}
	return num, phonenumbers.IsValidNumber(num)
}

// plainNumber reports whether text holds only digits, a leading '+',
// whitespace and the separators ()-./. The parser would otherwise pick a
// number out of surrounding letters or extension markers.
func plainNumber(text string) bool {
	for i, r := range text {
		switch {
		case r >= '0' && r <= '9':
		case r == '+' && strings.TrimSpace(text[:i]) == "":
		case unicode.IsSpace(r):
		case strings.ContainsRune("()-./", r):
		default:
			return false
		}
	}
	return true
}
