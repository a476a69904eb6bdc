package allocator

import "errors"

var (
	// ErrInvalidSnapshot marks a snapshot with impossible readings. Callers
	// get it wrapped with the offending ad and field.
	ErrInvalidSnapshot = errors.New("invalid ad snapshot")

	// ErrEmptyBatch means there was nothing valid to allocate the budget to.
	ErrEmptyBatch = errors.New("allocation batch is empty")

	// ErrNonPositiveBudget rejects a zero or negative total budget.
	ErrNonPositiveBudget = errors.New("total budget must be positive")
)
