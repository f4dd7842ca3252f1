package schema

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a schema definition error.
type ErrorCode string

const (
	// ErrMalformed indicates a descriptor that is not shaped like one.
	ErrMalformed ErrorCode = "SCHEMA_MALFORMED"
	// ErrUnknownType indicates a descriptor with an unrecognized type.
	ErrUnknownType ErrorCode = "SCHEMA_UNKNOWN_TYPE"
	// ErrDuplicateField indicates a field name declared twice in one form.
	ErrDuplicateField ErrorCode = "SCHEMA_DUPLICATE_FIELD"
	// ErrBadDefault indicates a default value that does not match its form.
	ErrBadDefault ErrorCode = "SCHEMA_BAD_DEFAULT"
	// ErrBadOptions indicates options that are missing or not a list of atoms.
	ErrBadOptions ErrorCode = "SCHEMA_BAD_OPTIONS"
	// ErrBadBounds indicates a minimum greater than its maximum.
	ErrBadBounds ErrorCode = "SCHEMA_BAD_BOUNDS"
	// ErrNotAtomic indicates a tuple field that is not atomic.
	ErrNotAtomic ErrorCode = "SCHEMA_NOT_ATOMIC"
	// ErrBadCombination indicates a value combination naming unknown fields.
	ErrBadCombination ErrorCode = "SCHEMA_BAD_COMBINATION"
	// ErrNotSimple indicates a root field outside the simple grammar.
	ErrNotSimple ErrorCode = "SCHEMA_NOT_SIMPLE"
)

// Error is a schema definition error located by its path within the schema.
type Error struct {
	Code    ErrorCode
	Path    string
	Message string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s at %s", e.Code, e.Message, e.Path)
}

func newErrorf(code ErrorCode, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is, or wraps, a schema error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
