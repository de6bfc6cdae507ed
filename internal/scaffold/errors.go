package scaffold

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProjectExists indicates the project directory is already present.
	ErrProjectExists = errors.New("project already exists")
	// ErrInvalidFeature indicates a feature was described with the wrong number of attributes.
	ErrInvalidFeature = errors.New("invalid feature")
	// ErrPartialFailure indicates at least one artifact of an operation could not be written.
	ErrPartialFailure = errors.New("some artifacts failed")
)

// ProjectExistsError reports the directory that blocked init-project.
type ProjectExistsError struct {
	Dir string
}

func (e *ProjectExistsError) Error() string {
	return fmt.Sprintf("project already exists: %s", e.Dir)
}

// Is allows errors.Is(err, ErrProjectExists).
func (e *ProjectExistsError) Is(target error) bool {
	return target == ErrProjectExists
}

// AttributeCountError reports a feature with no attributes or too many.
type AttributeCountError struct {
	Got int
}

func (e *AttributeCountError) Error() string {
	return fmt.Sprintf("a feature takes between 1 and %d attributes, got %d", MaxAttributes, e.Got)
}

// Is allows errors.Is(err, ErrInvalidFeature).
func (e *AttributeCountError) Is(target error) bool {
	return target == ErrInvalidFeature
}

// PartialFailureError lists the artifacts an operation could not write.
type PartialFailureError struct {
	Operation string
	Failed    []Result
	Total     int
}

// Error implements the error interface.
func (e *PartialFailureError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %d of %d artifacts failed", e.Operation, len(e.Failed), e.Total))
	for _, res := range e.Failed {
		sb.WriteString(fmt.Sprintf("\n  - %s (%s): %s", res.Path, res.Template, res.Error))
	}
	return sb.String()
}

// Is allows errors.Is(err, ErrPartialFailure).
func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}
