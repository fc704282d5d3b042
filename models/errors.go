package models

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to test a returned error against them.
var (
	ErrMissingFile    = errors.New("missing file")
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrParseFailure   = errors.New("parse failure")
	ErrShapeMismatch  = errors.New("shape mismatch")
)

//PipelineError is returned when an input can't be turned into a feature table or scored
type PipelineError struct {
	Kind   error
	Source string
	Err    error
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Source)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Source, e.Err)
}

func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func MissingFile(source string, err error) error {
	return &PipelineError{Kind: ErrMissingFile, Source: source, Err: err}
}

func SchemaMismatch(source string, format string, args ...interface{}) error {
	return &PipelineError{Kind: ErrSchemaMismatch, Source: source, Err: fmt.Errorf(format, args...)}
}

func ParseFailure(source string, err error) error {
	return &PipelineError{Kind: ErrParseFailure, Source: source, Err: err}
}

func ShapeMismatch(source string, format string, args ...interface{}) error {
	return &PipelineError{Kind: ErrShapeMismatch, Source: source, Err: fmt.Errorf(format, args...)}
}
