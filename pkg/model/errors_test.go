package model

import "testing"

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: ErrNotFound, Message: "simulation 'sim_123' not found"}
	want := "NOT_FOUND: simulation 'sim_123' not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAPIError_ErrorWithDetails(t *testing.T) {
	err := NewValidationError("invalid scenario",
		FieldError{Field: "quantum", Message: "must be positive"},
	)
	want := "VALIDATION_ERROR: invalid scenario (quantum: must be positive)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err.Details = append(err.Details, FieldError{Field: "overhead", Message: "must be positive"})
	want = "VALIDATION_ERROR: invalid scenario (quantum: must be positive, and 1 more)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("simulation", "sim_abc")
	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Message != "simulation 'sim_abc' not found" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestInvariantError(t *testing.T) {
	err := &InvariantError{Engine: "scheduler", Tick: 7, Process: 3, Detail: "remaining time went negative"}
	want := "scheduler invariant violated at tick 7 (process 3): remaining time went negative"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &InvariantError{Engine: "scheduler", Tick: 40, Detail: "tick limit exceeded"}
	want = "scheduler invariant violated at tick 40: tick limit exceeded"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
