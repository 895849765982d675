package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorInterface(t *testing.T) {
	t.Parallel()

	t.Run("implements error interface", func(t *testing.T) {
		t.Parallel()

		originalErr := fmt.Errorf("original error")
		err := NewError(originalErr, ErrUpload, "additional details")

		if err.Error() == "" {
			t.Error("Error() should return a non-empty string")
		}

		errStr := err.Error()
		if !strings.Contains(errStr, "upload error") {
			t.Errorf("Error string %q should contain category 'upload error'", errStr)
		}
		if !strings.Contains(errStr, "original error") {
			t.Errorf("Error string %q should contain original error message", errStr)
		}
	})

	t.Run("formatted error includes suggestions", func(t *testing.T) {
		t.Parallel()

		suggestions := []string{"Check the output directory", "Verify the build completed"}
		err := NewError(nil, ErrMissingArtifact, "no ROM archive found", suggestions...)

		formatted := err.FormattedError()
		for _, suggestion := range suggestions {
			if !strings.Contains(formatted, suggestion) {
				t.Errorf("Formatted error should contain suggestion %q, got: %q", suggestion, formatted)
			}
		}
	})
}

func TestErrorCategorization(t *testing.T) {
	t.Parallel()

	t.Run("errors.Is works with standard error types", func(t *testing.T) {
		t.Parallel()

		artifactErr := NewMissingArtifactError("no ROM archive in output directory")
		if !errors.Is(artifactErr, ErrMissingArtifact) {
			t.Error("errors.Is should identify missing artifact category")
		}

		validationErr := NewValidationError(nil, "Invalid input")
		if !errors.Is(validationErr, ErrValidation) {
			t.Error("errors.Is should identify validation error category")
		}
	})

	t.Run("error type checking functions work", func(t *testing.T) {
		t.Parallel()

		buildErr := NewBuildFailedError(nil, "brunch exited non-zero")
		if !IsBuildFailed(buildErr) {
			t.Error("IsBuildFailed should return true for build errors")
		}

		uploadErr := NewUploadError(nil, "rclone copy failed")
		if !IsUploadError(uploadErr) {
			t.Error("IsUploadError should return true for upload errors")
		}

		artifactErr := NewMissingArtifactError("no ROM archive found")
		if !IsMissingArtifact(artifactErr) {
			t.Error("IsMissingArtifact should return true for missing artifact errors")
		}
	})
}

func TestErrorWrapping(t *testing.T) {
	t.Parallel()

	t.Run("WithSuggestions adds suggestions", func(t *testing.T) {
		t.Parallel()

		err := NewConfigurationError(nil, "missing DEVICE key")
		err = WithSuggestions(err, "Run 'romci configure' to create a config file")

		cliErr, ok := err.(*Error)
		if !ok {
			t.Fatal("expected a *Error")
		}
		if len(cliErr.Suggestions) != 1 {
			t.Errorf("expected 1 suggestion, got %d", len(cliErr.Suggestions))
		}
	})

	t.Run("WithDetails appends to existing details", func(t *testing.T) {
		t.Parallel()

		err := NewUploadError(nil, "gofile upload")
		err = WithDetails(err, "initial install zip")

		cliErr, ok := err.(*Error)
		if !ok {
			t.Fatal("expected a *Error")
		}
		if !strings.Contains(cliErr.Details, "gofile upload") || !strings.Contains(cliErr.Details, "initial install zip") {
			t.Errorf("details should contain both parts, got %q", cliErr.Details)
		}
	})

	t.Run("Unwrap exposes the original error", func(t *testing.T) {
		t.Parallel()

		original := fmt.Errorf("exit status 1")
		err := NewBuildFailedError(original, "compilation step")

		if !errors.Is(err, original) {
			t.Error("errors.Is should find the wrapped original error")
		}
	})
}
