package orders

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrRowNotFound     = errors.New("row not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotHotel        = errors.New("row is not a hotel row")
	ErrInvalidType     = errors.New("invalid product type")
	ErrProductMismatch = errors.New("product type does not match row type")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidRoom     = errors.New("invalid room type")
)

// ValidationError collects user-facing messages per field. Submission is
// blocked while any are present.
type ValidationError struct {
	fields map[string][]string
}

func newValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string][]string)}
}

func IsValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func (e *ValidationError) add(field, msg string) {
	e.fields[field] = append(e.fields[field], msg)
}

func (e *ValidationError) count() int { return len(e.fields) }

func (e *ValidationError) Fields() map[string][]string { return e.fields }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.fields[k], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
