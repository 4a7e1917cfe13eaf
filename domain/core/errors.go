package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Argument errors
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnknownSecondStage = fmt.Errorf("%w: second_stage must be \"blp\" or \"gates\"", ErrInvalidArgument)
	ErrInvalidMainShare   = fmt.Errorf("%w: prob_m must be in [0, 1]", ErrInvalidArgument)
	ErrInvalidGroupCount  = fmt.Errorf("%w: q must be at least 2", ErrInvalidArgument)

	// Degenerate-input errors
	ErrDegenerateInput    = errors.New("degenerate input")
	ErrEmptyDataset       = fmt.Errorf("%w: dataset has no observations", ErrDegenerateInput)
	ErrEmptyArm           = fmt.Errorf("%w: treatment arm is empty", ErrDegenerateInput)
	ErrEmptyAuxiliary     = fmt.Errorf("%w: auxiliary subset is empty", ErrDegenerateInput)
	ErrEmptyMain          = fmt.Errorf("%w: main sample is empty", ErrDegenerateInput)
	ErrExtremePropensity  = fmt.Errorf("%w: propensity must be strictly inside (0, 1)", ErrDegenerateInput)
	ErrLengthMismatch     = fmt.Errorf("%w: input vectors have mismatched lengths", ErrDegenerateInput)
	ErrNonBinaryTreatment = fmt.Errorf("%w: treatment indicator must be 0 or 1", ErrDegenerateInput)

	// Numerical errors
	ErrSingularSystem = errors.New("weighted least squares system is singular")

	// Persistence errors
	ErrResultNotFound = errors.New("estimation result not found")
)

// Error constructors with context
func NewInvalidArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, field, reason)
}

func NewDegenerateInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, reason)
}

// Error checking helpers
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsDegenerateInput(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}

func IsNumericalError(err error) bool {
	return errors.Is(err, ErrSingularSystem)
}
