package protocol

import (
	"fmt"

	"phonebook/errs"
)

var (
	ErrMalformedMessage = errs.Errorf(errs.EMALFORMED, "protocol: malformed message")
	ErrMessageTooLarge  = errs.Errorf(errs.EINVALID, "protocol: message exceeds datagram size")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformedMessage}, args...)...)
}
