package contact

import (
	"phonebook/errs"
	"phonebook/phone"
	"strings"
)

var (
	ErrInvalidName   = errs.Errorf(errs.EINVALID, "invalid name")
	ErrInvalidNumber = phone.ErrInvalidNumber
)

// Contact is one stored name and number pair. The store keys rows by Name but
// does not enforce uniqueness.
type Contact struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Validate is the client side gate applied before a contact is submitted.
// The store accepts any row verbatim.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidName
	}

	if !phone.IsValidNumber(c.Number) {
		return ErrInvalidNumber
	}

	return nil
}
