package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error types that can be used to categorize errors
var (
	// ErrConfiguration indicates an error in the user's configuration
	ErrConfiguration = errors.New("configuration error")

	// ErrValidation indicates invalid input from the user
	ErrValidation = errors.New("validation error")

	// ErrMissingArtifact indicates the primary ROM archive was not produced
	ErrMissingArtifact = errors.New("missing artifact")

	// ErrBuildFailed indicates the build tool exited without producing a successful build
	ErrBuildFailed = errors.New("build failed")

	// ErrSyncFailed indicates the source sync could not complete
	ErrSyncFailed = errors.New("sync failed")

	// ErrUpload indicates a distribution upload failed
	ErrUpload = errors.New("upload error")

	// ErrNotify indicates the chat notification could not be delivered
	ErrNotify = errors.New("notification error")

	// ErrInternal indicates an internal error in the CLI
	ErrInternal = errors.New("internal error")

	// ErrUserAborted indicates the user has canceled an operation
	ErrUserAborted = errors.New("user aborted")
)

// Error represents a CLI error with context
type Error struct {
	// Original is the underlying error
	Original error

	// Category is the broad category of the error
	Category error

	// Details contains additional detail about the error
	Details string

	// Suggestions provides hints on how to fix the error
	Suggestions []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var msg strings.Builder

	if e.Category != nil {
		msg.WriteString(e.Category.Error())
		msg.WriteString(": ")
	}

	if e.Original != nil {
		msg.WriteString(e.Original.Error())
	}

	if e.Details != "" {
		// Only add a separator if we've already written something
		if e.Original != nil {
			msg.WriteString(" (")
			msg.WriteString(e.Details)
			msg.WriteString(")")
		} else {
			msg.WriteString(e.Details)
		}
	}

	return msg.String()
}

// FormattedError returns a formatted multi-line error message suitable for display
func (e *Error) FormattedError() string {
	var msg strings.Builder

	if e.Category != nil {
		category := e.Category.Error()
		if len(category) > 0 {
			msg.WriteString(strings.ToUpper(category[:1]) + category[1:])
			msg.WriteString(": ")
		}
	}

	if e.Original != nil {
		msg.WriteString(e.Original.Error())
	} else if e.Details != "" {
		msg.WriteString(e.Details)
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\n")
		for i, suggestion := range e.Suggestions {
			if i > 0 {
				msg.WriteString("\n")
			}
			msg.WriteString("• ")
			msg.WriteString(suggestion)
		}
	}

	return msg.String()
}

// Unwrap implements the errors.Unwrap interface to allow using errors.Is and errors.As
func (e *Error) Unwrap() error {
	if e.Original != nil {
		return e.Original
	}
	return e.Category
}

// Is implements the errors.Is interface to allow checking error types
func (e *Error) Is(target error) bool {
	return errors.Is(e.Category, target) || (e.Original != nil && errors.Is(e.Original, target))
}

// NewError creates a new Error with the given attributes
func NewError(original error, category error, details string, suggestions ...string) *Error {
	return &Error{
		Original:    original,
		Category:    category,
		Details:     details,
		Suggestions: suggestions,
	}
}

// WithSuggestions adds suggestions to an existing error
func WithSuggestions(err error, suggestions ...string) error {
	if cliErr, ok := err.(*Error); ok {
		cliErr.Suggestions = append(cliErr.Suggestions, suggestions...)
		return cliErr
	}

	return NewError(err, nil, "", suggestions...)
}

// WithDetails adds details to an existing error
func WithDetails(err error, details string) error {
	if cliErr, ok := err.(*Error); ok {
		if cliErr.Details == "" {
			cliErr.Details = details
		} else {
			cliErr.Details = fmt.Sprintf("%s: %s", cliErr.Details, details)
		}
		return cliErr
	}

	return NewError(err, nil, details)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrConfiguration, details, suggestions...)
}

// NewValidationError creates a new validation error
func NewValidationError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrValidation, details, suggestions...)
}

// NewMissingArtifactError creates an error for an absent primary ROM archive
func NewMissingArtifactError(details string, suggestions ...string) error {
	return NewError(nil, ErrMissingArtifact, details, suggestions...)
}

// NewBuildFailedError creates an error for a failed compilation
func NewBuildFailedError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrBuildFailed, details, suggestions...)
}

// NewSyncFailedError creates an error for a failed source sync
func NewSyncFailedError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrSyncFailed, details, suggestions...)
}

// NewUploadError creates a new upload error
func NewUploadError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrUpload, details, suggestions...)
}

// NewNotifyError creates a new notification error
func NewNotifyError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrNotify, details, suggestions...)
}

// NewInternalError creates a new internal error
func NewInternalError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrInternal, details, suggestions...)
}

// NewUserAbortedError creates a new user aborted error
func NewUserAbortedError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrUserAborted, details, suggestions...)
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsMissingArtifact checks if an error signals an absent ROM archive
func IsMissingArtifact(err error) bool {
	return errors.Is(err, ErrMissingArtifact)
}

// IsBuildFailed checks if an error signals a failed compilation
func IsBuildFailed(err error) bool {
	return errors.Is(err, ErrBuildFailed)
}

// IsSyncFailed checks if an error signals a failed source sync
func IsSyncFailed(err error) bool {
	return errors.Is(err, ErrSyncFailed)
}

// IsUploadError checks if an error is an upload error
func IsUploadError(err error) bool {
	return errors.Is(err, ErrUpload)
}

// IsUserAborted checks if an error indicates the user aborted
func IsUserAborted(err error) bool {
	return errors.Is(err, ErrUserAborted)
}
