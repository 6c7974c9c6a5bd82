package ilp

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MILPproblem is a mixed-integer linear program in standard form:
//
//	minimize	cᵀx
//	subject to	Ax = b
//			Gx <= h
//			x >= 0
//
// A and G are optional.
type MILPproblem struct {
	c []float64
	A *mat.Dense
	b []float64
	G *mat.Dense
	h []float64

	// which variables to apply the integrality constraint to. Same order as c.
	integralityConstraints []bool
}

func NewMILPproblem(c []float64, A *mat.Dense, b []float64, G *mat.Dense, h []float64, integralityConstraints []bool) MILPproblem {
	return MILPproblem{
		c:                      c,
		A:                      A,
		b:                      b,
		G:                      G,
		h:                      h,
		integralityConstraints: integralityConstraints,
	}
}

func (p MILPproblem) sanityCheckDimensions() error {
	n := len(p.c)
	if n == 0 {
		return errors.Wrap(ErrDimensionMismatch, "no variables")
	}
	if len(p.integralityConstraints) != n {
		return errors.Wrapf(ErrDimensionMismatch, "%d integrality constraints for %d variables", len(p.integralityConstraints), n)
	}

	check := func(name string, M *mat.Dense, rhs []float64) error {
		if M == nil {
			if len(rhs) != 0 {
				return errors.Wrapf(ErrDimensionMismatch, "%d right-hand sides without a %s matrix", len(rhs), name)
			}
			return nil
		}
		r, c := M.Dims()
		if c != n {
			return errors.Wrapf(ErrDimensionMismatch, "%s has %d columns for %d variables", name, c, n)
		}
		if r != len(rhs) {
			return errors.Wrapf(ErrDimensionMismatch, "%s has %d rows for %d right-hand sides", name, r, len(rhs))
		}
		return nil
	}

	if err := check("A", p.A, p.b); err != nil {
		return err
	}
	return check("G", p.G, p.h)
}

// toModel translates the problem into a minimizing Model with one constraint per row.
func (p MILPproblem) toModel(opts ...Option) (*Model, []*Variable, error) {
	m, err := NewModel("milp", opts...)
	if err != nil {
		return nil, nil, err
	}

	vars := make([]*Variable, len(p.c))
	for i, cost := range p.c {
		vars[i] = m.AddVariable(cost, fmt.Sprintf("x%d", i), p.integralityConstraints[i], false, Required)
	}

	addRows := func(M *mat.Dense, rhs []float64, add func(float64) addTermer) {
		if M == nil {
			return
		}
		rows, cols := M.Dims()
		for i := 0; i < rows; i++ {
			constraint := add(rhs[i])
			for j := 0; j < cols; j++ {
				if coef := M.At(i, j); coef != 0 {
					constraint.addTerm(coef, vars[j])
				}
			}
		}
	}

	addRows(p.A, p.b, func(rhs float64) addTermer { return m.Equal(rhs) })
	addRows(p.G, p.h, func(rhs float64) addTermer { return m.SmallerThan(rhs) })

	return m, vars, nil
}

type addTermer interface {
	addTerm(float64, *Variable)
}

func (c *Constraint) addTerm(coef float64, v *Variable) { c.AddTerm(coef, v) }
func (e *Equality) addTerm(coef float64, v *Variable)   { e.AddTerm(coef, v) }

// Solve returns the optimal objective value and variable vector of the problem.
func (p MILPproblem) Solve(opts ...Option) (z float64, x []float64, err error) {
	if err := p.sanityCheckDimensions(); err != nil {
		return 0, nil, err
	}

	presolved, err := presolve(p)
	if err != nil {
		return 0, nil, err
	}

	m, vars, err := presolved.toModel(opts...)
	if err != nil {
		return 0, nil, err
	}

	solution, err := m.Solve()
	if err != nil {
		return 0, nil, err
	}

	switch {
	case !solution.Feasible:
		return 0, nil, ErrInfeasible
	case !solution.Bounded:
		return solution.Evaluation, nil, errors.Wrapf(ErrUnbounded, "along variable index %d", m.tableau.UnboundedVarIndex())
	}

	x = make([]float64, len(vars))
	for i, v := range vars {
		x[i] = v.Value
	}

	if !feasibleForIP(p.integralityConstraints, x, m.precision) {
		return 0, nil, errors.Errorf("solution %v violates the integrality constraints", x)
	}

	return solution.Evaluation, x, nil
}
