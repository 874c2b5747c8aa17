package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeCatalogError      = "CATALOG_ERROR"
	CodeMetadataFetch     = "METADATA_FETCH_ERROR"
	CodeMetadataParse     = "METADATA_PARSE_ERROR"
	CodeNotLoaded         = "NOT_LOADED"
	CodeUnknownInfluencer = "UNKNOWN_INFLUENCER"
	CodeValidation        = "VALIDATION_ERROR"
)

type CatalogError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// ErrorCode is promoted to every wrapper type so CodeOf can match any of them.
func (e *CatalogError) ErrorCode() string {
	return e.Code
}

func NewCatalogError(message, code string, context map[string]any) *CatalogError {
	return &CatalogError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *CatalogError) WithCause(cause error) *CatalogError {
	e.Cause = cause
	return e
}

// MetadataFetchError reports a transport failure or a non-success response
// while fetching metadata.json. StatusCode is 0 when no response was received.
type MetadataFetchError struct {
	*CatalogError
	URL        string
	StatusCode int
}

func NewMetadataFetchError(message, url string, statusCode int, cause error) *MetadataFetchError {
	return &MetadataFetchError{
		CatalogError: &CatalogError{
			Message: message,
			Code:    CodeMetadataFetch,
			Context: map[string]any{
				"url":         url,
				"status_code": statusCode,
			},
			Cause: cause,
		},
		URL:        url,
		StatusCode: statusCode,
	}
}

// MetadataParseError reports a body that is not JSON or does not have the
// catalog shape. Path points at the offending field, e.g. "alice.videos.v1.weight".
type MetadataParseError struct {
	*CatalogError
	Path string
}

func NewMetadataParseError(message, path string, cause error) *MetadataParseError {
	return &MetadataParseError{
		CatalogError: &CatalogError{
			Message: message,
			Code:    CodeMetadataParse,
			Context: map[string]any{
				"path": path,
			},
			Cause: cause,
		},
		Path: path,
	}
}

type NotLoadedError struct {
	*CatalogError
}

func NewNotLoadedError(operation string) *NotLoadedError {
	return &NotLoadedError{
		CatalogError: &CatalogError{
			Message: "catalog metadata not loaded",
			Code:    CodeNotLoaded,
			Context: map[string]any{
				"operation": operation,
			},
		},
	}
}

type UnknownInfluencerError struct {
	*CatalogError
	ID string
}

func NewUnknownInfluencerError(id string) *UnknownInfluencerError {
	return &UnknownInfluencerError{
		CatalogError: &CatalogError{
			Message: fmt.Sprintf("unknown influencer %q", id),
			Code:    CodeUnknownInfluencer,
			Context: map[string]any{
				"id": id,
			},
		},
		ID: id,
	}
}

type ValidationError struct {
	*CatalogError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		CatalogError: &CatalogError{
			Message: message,
			Code:    CodeValidation,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

func IsFetch(err error) bool {
	var target *MetadataFetchError
	return stderrors.As(err, &target)
}

func IsParse(err error) bool {
	var target *MetadataParseError
	return stderrors.As(err, &target)
}

func IsNotLoaded(err error) bool {
	var target *NotLoadedError
	return stderrors.As(err, &target)
}

func IsUnknownInfluencer(err error) bool {
	var target *UnknownInfluencerError
	return stderrors.As(err, &target)
}

// CodeOf returns the catalog error code carried by err, or "" when err is not
// a catalog error.
func CodeOf(err error) string {
	var target interface{ ErrorCode() string }
	if stderrors.As(err, &target) {
		return target.ErrorCode()
	}
	return ""
}
