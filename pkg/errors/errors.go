// Package errors provides custom error types for the wdtaxa system.
// These errors enable programmatic checking of the reconciliation
// outcomes (unavailable sources, bad rows, ambiguous candidates, failed
// matches, rejected citations) so that callers can count them instead
// of aborting a batch.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the wdtaxa system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates that a query service or authority
	// returned a non-ok response
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrRateLimited indicates that the endpoint rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrRowParse indicates that a single result row lacked the expected structure
	ErrRowParse = errors.New("row parse error")

	// ErrAmbiguousCandidate indicates that a candidate key groups more than one record
	ErrAmbiguousCandidate = errors.New("ambiguous candidate")

	// ErrNoAuthorityMatch indicates zero or several authority hits survived filtering
	ErrNoAuthorityMatch = errors.New("no authority match")

	// ErrUnparseableCitation indicates an author citation outside the supported grammar
	ErrUnparseableCitation = errors.New("unparseable citation")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SourceError reports a non-ok response from the query boundary.
type SourceError struct {
	Source     string
	StatusCode int
}

// Error implements the error interface
func (e *SourceError) Error() string {
	return fmt.Sprintf("request to %s failed with status code: %d", e.Source, e.StatusCode)
}

// Is implements errors.Is support
func (e *SourceError) Is(target error) bool {
	if target == ErrSourceUnavailable {
		return true
	}
	return e.StatusCode == 429 && target == ErrRateLimited
}

// NewSourceError creates a new SourceError
func NewSourceError(source string, statusCode int) *SourceError {
	return &SourceError{Source: source, StatusCode: statusCode}
}

// APIError represents an error from an authority API
type APIError struct {
	Source     string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. Every API error means the source
// could not serve the request.
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 && target == ErrRateLimited {
		return true
	}
	return target == ErrSourceUnavailable
}

// NewAPIError creates a new APIError
func NewAPIError(source string, statusCode int, message string) *APIError {
	return &APIError{
		Source:     source,
		StatusCode: statusCode,
		Message:    message,
	}
}

// RowError reports one result row that could not be turned into a record.
type RowError struct {
	Row     int // zero-based position in the result document
	Field   string
	Message string
}

// Error implements the error interface
func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: field %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Is implements errors.Is support
func (e *RowError) Is(target error) bool {
	return target == ErrRowParse
}

// NewRowError creates a new RowError
func NewRowError(row int, field, message string) *RowError {
	return &RowError{Row: row, Field: field, Message: message}
}

// AmbiguousError reports a candidate key shared by several records.
type AmbiguousError struct {
	Key   string
	Count int
}

// Error implements the error interface
func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("candidate %q is shared by %d records", e.Key, e.Count)
}

// Is implements errors.Is support
func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguousCandidate
}

// MatchError reports an authority lookup that did not reduce to exactly one hit.
type MatchError struct {
	Source    string
	Key       string
	Hits      int
	Survivors int
}

// Error implements the error interface
func (e *MatchError) Error() string {
	if e.Survivors > 1 {
		return fmt.Sprintf("%s: %d hits for %q agree on the disambiguator", e.Source, e.Survivors, e.Key)
	}
	return fmt.Sprintf("%s: no hit for %q (%d returned)", e.Source, e.Key, e.Hits)
}

// Is implements errors.Is support
func (e *MatchError) Is(target error) bool {
	return target == ErrNoAuthorityMatch
}

// CitationError reports an author citation rejected by the parser.
type CitationError struct {
	Citation string
	Reason   string
}

// Error implements the error interface
func (e *CitationError) Error() string {
	return fmt.Sprintf("cannot parse citation %q: %s", e.Citation, e.Reason)
}

// Is implements errors.Is support
func (e *CitationError) Is(target error) bool {
	return target == ErrUnparseableCitation
}

// NewCitationError creates a new CitationError
func NewCitationError(citation, reason string) *CitationError {
	return &CitationError{Citation: citation, Reason: reason}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "xml", "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsSourceUnavailable checks if an error came from a non-ok source response
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsRowParse checks if an error is a single-row parse failure
func IsRowParse(err error) bool {
	return errors.Is(err, ErrRowParse)
}

// IsAmbiguous checks if an error is an ambiguous candidate exclusion
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousCandidate)
}

// IsNoMatch checks if an error is a failed authority match
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoAuthorityMatch)
}

// IsUnparseableCitation checks if an error is a rejected citation
func IsUnparseableCitation(err error) bool {
	return errors.Is(err, ErrUnparseableCitation)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
