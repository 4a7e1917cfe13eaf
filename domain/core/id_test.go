package core

import (
	"fmt"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

// TestParseRunID tests run ID parsing
func TestParseRunID(t *testing.T) {
	tests := []struct {
		input    string
		expected RunID
		hasError bool
	}{
		{"run-123", RunID("run-123"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseRunID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestErrorTaxonomy verifies error classification helpers follow wrapping
func TestErrorTaxonomy(t *testing.T) {
	if !IsInvalidArgument(ErrUnknownSecondStage) {
		t.Error("ErrUnknownSecondStage should classify as invalid argument")
	}
	if !IsInvalidArgument(NewInvalidArgumentError("q", "must be at least 2")) {
		t.Error("constructed argument errors should classify as invalid argument")
	}
	if !IsDegenerateInput(ErrExtremePropensity) {
		t.Error("ErrExtremePropensity should classify as degenerate input")
	}
	if IsDegenerateInput(ErrInvalidMainShare) {
		t.Error("argument errors must not classify as degenerate input")
	}
	if !IsNumericalError(fmt.Errorf("%w: rank deficient design", ErrSingularSystem)) {
		t.Error("wrapped singular-system errors should classify as numerical")
	}
}
