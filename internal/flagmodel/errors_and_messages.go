package flagmodel

import (
	"errors"
	"fmt"
)

// ErrEmptyPayload is returned by DecodeFlag if it is given an empty string. This is a usage error on the
// caller's part rather than a problem with the stored data.
var ErrEmptyPayload = errors.New("flag payload cannot be empty")

// DecodeError is returned by DecodeFlag if the payload is not a JSON object or does not contain the
// required properties.
type DecodeError struct {
	// Property is the name of the missing or invalid property, or "" if the payload as a whole could not
	// be parsed.
	Property string

	// Err is the underlying parser error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Property == "" && e.Err != nil:
		return fmt.Sprintf("invalid flag JSON: %s", e.Err)
	case e.Property == "":
		return "invalid flag JSON: expected an object"
	case e.Err != nil:
		return fmt.Sprintf("invalid flag JSON: property %q: %s", e.Property, e.Err)
	default:
		return fmt.Sprintf("invalid flag JSON: missing required property %q", e.Property)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func errNotAnObject() error {
	return &DecodeError{}
}

func errUnparseable(err error) error {
	return &DecodeError{Err: err}
}

func errMissingProperty(name string) error {
	return &DecodeError{Property: name}
}

func errWrongPropertyType(name, expected string) error {
	return &DecodeError{Property: name, Err: fmt.Errorf("expected a %s value", expected)}
}
