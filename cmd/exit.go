package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/langcontroller/langcontroller/internal/artifact"
	"github.com/langcontroller/langcontroller/internal/config"
	"github.com/langcontroller/langcontroller/internal/indexer"
	"github.com/langcontroller/langcontroller/internal/names"
	"github.com/langcontroller/langcontroller/internal/project"
	"github.com/langcontroller/langcontroller/internal/scaffold"
	"github.com/langcontroller/langcontroller/internal/templates"
)

// Process exit codes.
const (
	ExitCodeSuccess        = 0
	ExitCodeValidation     = 1
	ExitCodeNotAProject    = 2
	ExitCodeProjectExists  = 3
	ExitCodeFilesystem     = 6
	ExitCodePartialFailure = 8
	ExitCodeUnknown        = 10
)

// CLIError allows returning rich errors with exit codes.
type CLIError struct {
	Code int
	Err  error
}

func (e *CLIError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError constructs a CLIError with a message and exit code.
func NewCLIError(code int, msg string) error {
	return &CLIError{Code: code, Err: fmt.Errorf("%s", msg)}
}

// WrapCLIError converts any error into a CLIError with the provided code.
func WrapCLIError(code int, err error) error {
	if err == nil {
		return nil
	}
	return &CLIError{Code: code, Err: err}
}

// ExitCode extracts an exit code from an error, returning ExitCodeUnknown if not specified.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Code == 0 {
			return ExitCodeUnknown
		}
		return cliErr.Code
	}
	return ExitCodeUnknown
}

// classify wraps err with the exit code its type calls for.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		cliErr      *CLIError
		keyErr      *config.UnknownKeyError
		manifestErr *templates.ManifestError
		packErr     *templates.IncompatiblePackError
		writeErr    *artifact.WriteError
	)
	switch {
	case errors.As(err, &cliErr):
		return err
	case errors.Is(err, scaffold.ErrPartialFailure):
		return WrapCLIError(ExitCodePartialFailure, err)
	case errors.Is(err, names.ErrInvalidName),
		errors.Is(err, scaffold.ErrInvalidFeature),
		errors.Is(err, indexer.ErrUnknownFormat),
		errors.As(err, &keyErr),
		errors.As(err, &manifestErr),
		errors.As(err, &packErr):
		return WrapCLIError(ExitCodeValidation, err)
	case errors.Is(err, project.ErrNotAProject):
		return WrapCLIError(ExitCodeNotAProject, err)
	case errors.Is(err, scaffold.ErrProjectExists):
		return WrapCLIError(ExitCodeProjectExists, err)
	case errors.Is(err, artifact.ErrArtifactExists),
		errors.As(err, &writeErr),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return WrapCLIError(ExitCodeFilesystem, err)
	default:
		return WrapCLIError(ExitCodeUnknown, err)
	}
}
