// Package fault defines the error taxonomy shared by services and HTTP
// handlers: client input errors, missing-credential configuration errors,
// and per-stage collaborator failures.
package fault

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput flags missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownPersona flags a persona id that does not resolve.
	ErrUnknownPersona = errors.New("unknown persona")
	// ErrNotConfigured flags a missing collaborator credential. Not retryable
	// without operator action.
	ErrNotConfigured = errors.New("service not configured")
)

// Stage names the pipeline step whose collaborator call failed.
type Stage string

const (
	StageTranscribe Stage = "transcribe"
	StageGenerate   Stage = "generate"
	StageSynthesize Stage = "synthesize"
)

// StageError wraps a collaborator failure with the stage it occurred in.
// Retryable by the caller.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError wraps err as a failure of the given stage.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// HTTPStatus maps taxonomy errors onto response status codes.
func HTTPStatus(err error) int {
	var stageErr *StageError
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownPersona):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &stageErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
