package sim

import "errors"

// Error taxonomy. Call sites wrap these with context; callers match with errors.Is.
var (
	// ErrInvalidState reports an operation invoked out of order,
	// e.g. SelectArm before Initialize.
	ErrInvalidState = errors.New("invalid state")

	// ErrOutOfRange reports an arm index outside [0, nArms).
	ErrOutOfRange = errors.New("arm index out of range")

	// ErrInvalidConfig reports a parameter outside its valid domain: zero arms,
	// non-positive temperature, epsilon outside [0,1], rewards outside a solver's
	// assumed bounds, unknown solver or arm types.
	ErrInvalidConfig = errors.New("invalid configuration")
)
