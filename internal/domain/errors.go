package domain

import "fmt"

// ValidationError carries a user-facing French message. Handlers map it
// to a 400 and pass the message through verbatim.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

func Validationf(format string, args ...any) error {
	return ValidationError(fmt.Sprintf(format, args...))
}
