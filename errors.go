package ilp

import "github.com/pkg/errors"

var (
	// ErrCycle is returned when cycle checking is enabled and the simplex pivots start repeating.
	ErrCycle = errors.New("simplex is cycling")

	// ErrSelfCoefficient is returned when the coefficient of a constraint's own slack is updated.
	ErrSelfCoefficient = errors.New("constraint index should not be equal to variable index")

	ErrInfeasible        = errors.New("problem has no feasible solution")
	ErrUnbounded         = errors.New("problem is unbounded")
	ErrDimensionMismatch = errors.New("problem dimensions do not match")
	ErrInconsistentRow   = errors.New("empty constraint row with non-zero right-hand side")
)
