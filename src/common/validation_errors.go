package common

import "fmt"

// ValidationErrType ...
type ValidationErrType uint32

const (
	// OutOfRange ...
	OutOfRange ValidationErrType = iota
	// BadLength ...
	BadLength
	// Negative ...
	Negative
)

// ValidationErr describes a malformed inbound command. It carries the name
// of the offending field and its value so that the network layer can build
// a client-facing error response.
type ValidationErr struct {
	field   string
	value   interface{}
	errType ValidationErrType
}

// NewValidationErr ...
func NewValidationErr(field string, value interface{}, errType ValidationErrType) ValidationErr {
	return ValidationErr{
		field:   field,
		value:   value,
		errType: errType,
	}
}

// Field returns the name of the offending field.
func (e ValidationErr) Field() string {
	return e.field
}

// Value returns the offending value.
func (e ValidationErr) Value() interface{} {
	return e.value
}

// Error ...
func (e ValidationErr) Error() string {
	m := ""
	switch e.errType {
	case OutOfRange:
		m = "Out Of Range"
	case BadLength:
		m = "Bad Length"
	case Negative:
		m = "Negative"
	}

	return fmt.Sprintf("%s, %v, %s", e.field, e.value, m)
}

// IsValidation checks that an error is of type ValidationErr and that its
// code matches the provided ValidationErr code.
func IsValidation(err error, t ValidationErrType) bool {
	validationErr, ok := err.(ValidationErr)
	return ok && validationErr.errType == t
}
