package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedCode is wrapped by SchemaError when a strict code policy rejects
// a raw attribute value.
var ErrMalformedCode = errors.New("malformed code")

// SchemaError reports a dataset that does not match the expected layout: a
// required attribute column is missing, or a value is malformed under the
// strict code policy.
type SchemaError struct {
	Source string
	Column string
	Value  string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema: %s: column %q value %q: %v", e.Source, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("schema: %s: missing attribute column %q", e.Source, e.Column)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IOError reports an unreadable shapefile or an unwritable artifact path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// InvalidKeyError reports a mode, variable, or date outside the supported sets.
type InvalidKeyError struct {
	Field string
	Value string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}
