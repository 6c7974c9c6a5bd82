package ilp

import "github.com/pkg/errors"

type Option func(*Model) error

func WithLogger(logger Logger) Option {
	return func(m *Model) error {
		m.logger = logger

		return nil
	}
}

// WithPrecision sets the epsilon used for every zero and integrality test.
func WithPrecision(precision float64) Option {
	return func(m *Model) error {
		if precision <= 0 || precision >= 1 {
			return errors.Errorf("precision must lie in (0, 1), got %v", precision)
		}
		m.precision = precision

		return nil
	}
}

func WithMIRCuts(enabled bool) Option {
	return func(m *Model) error {
		m.useMIRCuts = enabled

		return nil
	}
}

// WithCycleCheck makes both simplex phases record their pivots and abort with ErrCycle
// as soon as the pivot history repeats.
func WithCycleCheck(enabled bool) Option {
	return func(m *Model) error {
		m.checkForCycles = enabled

		return nil
	}
}

func WithBranchHeuristic(h BranchHeuristic) Option {
	return func(m *Model) error {
		switch h {
		case BRANCH_MOST_INFEASIBLE, BRANCH_LOWEST_COST, BRANCH_MAXFUN, BRANCH_NAIVE:
		default:
			return errors.Errorf("unknown branch heuristic %d", h)
		}
		m.branchHeuristic = h

		return nil
	}
}

// WithMiddleware registers a hook that receives every branch-and-cut decision.
func WithMiddleware(mw bnbMiddleware) Option {
	return func(m *Model) error {
		if mw == nil {
			return errors.New("middleware must not be nil")
		}
		m.middleware = mw

		return nil
	}
}
