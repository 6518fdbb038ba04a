package ports

import (
	"errors"
	"os"
)

// Sentinel errors for the run-level error taxonomy.
var (
	ErrUnknownOntology = errors.New("unknown ontology")
	ErrUnknownDataset  = errors.New("unknown dataset")
	ErrNoInputSource   = errors.New("either a dataset or an input file is required")
	ErrInvalidLinkMode = errors.New("invalid link mode")
	ErrInvalidModel    = errors.New("invalid model")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrMissingResource = errors.New("missing resource")
	ErrMalformedRecord = errors.New("malformed record")
)

// ErrorClass is the coarse category of a run failure.
type ErrorClass string

const (
	ClassConfiguration   ErrorClass = "configuration"
	ClassMissingResource ErrorClass = "missing_resource"
	ClassMalformed       ErrorClass = "malformed"
	ClassUnknown         ErrorClass = "unknown"
)

// Classify maps an error to its class. Only sentinel errors and standard
// library error types are inspected, never message text.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassUnknown
	case errors.Is(err, ErrUnknownOntology), errors.Is(err, ErrUnknownDataset),
		errors.Is(err, ErrNoInputSource), errors.Is(err, ErrInvalidLinkMode),
		errors.Is(err, ErrInvalidModel), errors.Is(err, ErrInvalidConfig):
		return ClassConfiguration
	case errors.Is(err, ErrMissingResource), errors.Is(err, os.ErrNotExist):
		return ClassMissingResource
	case errors.Is(err, ErrMalformedRecord):
		return ClassMalformed
	}
	return ClassUnknown
}
