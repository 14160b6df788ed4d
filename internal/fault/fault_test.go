package fault

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"wrapped invalid input", fmt.Errorf("field: %w", ErrInvalidInput), http.StatusBadRequest},
		{"unknown persona", ErrUnknownPersona, http.StatusBadRequest},
		{"not configured", ErrNotConfigured, http.StatusServiceUnavailable},
		{"stage error", NewStageError(StageGenerate, errors.New("down")), http.StatusBadGateway},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestStageErrorUnwrap(t *testing.T) {
	inner := errors.New("timeout")
	err := NewStageError(StageTranscribe, inner)

	if !errors.Is(err, inner) {
		t.Fatal("expected StageError to unwrap to the inner error")
	}

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageTranscribe {
		t.Fatalf("expected transcribe stage, got %v", err)
	}
}
