package ilp

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// TODO: see Andersen 1995 for a nice enumeration of simple presolving operations.

// presolve returns a copy of the problem without its empty constraint rows.
// The original problem matrices are never modified.
func presolve(p MILPproblem) (MILPproblem, error) {
	A, b, err := removeEmptyRows(p.A, p.b, func(rhs float64) bool { return rhs == 0 })
	if err != nil {
		return MILPproblem{}, errors.Wrap(err, "equality constraints")
	}

	G, h, err := removeEmptyRows(p.G, p.h, func(rhs float64) bool { return rhs >= 0 })
	if err != nil {
		return MILPproblem{}, errors.Wrap(err, "inequality constraints")
	}

	return MILPproblem{
		c:                      p.c,
		A:                      A,
		b:                      b,
		G:                      G,
		h:                      h,
		integralityConstraints: p.integralityConstraints,
	}, nil
}

// Remove all rows of the constraint matrix that are empty (i.e. all values in row are 0).
// An empty row is only dropped if its right-hand side satisfies it, otherwise the problem is inconsistent.
// Returns a nil matrix if every row is empty.
func removeEmptyRows(A *mat.Dense, b []float64, satisfied func(rhs float64) bool) (*mat.Dense, []float64, error) {
	if A == nil {
		return nil, nil, nil
	}

	aRows, aCols := A.Dims()
	var nonEmptyRows []int
	for i := 0; i < aRows; i++ {

		// find nonzero values
		nonzero := false
		for j := 0; j < aCols; j++ {
			if A.At(i, j) != 0 {
				nonzero = true
				break
			}
		}

		if nonzero {
			nonEmptyRows = append(nonEmptyRows, i)
		} else if !satisfied(b[i]) {
			return nil, nil, errors.Wrapf(ErrInconsistentRow, "row %d has right-hand side %v", i, b[i])
		}
	}

	if len(nonEmptyRows) == 0 {
		return nil, nil, nil
	}

	// if no empty rows where found, we return a copy of A
	if len(nonEmptyRows) == aRows {
		bNew := make([]float64, aRows)
		copy(bNew, b)
		return mat.DenseCopyOf(A), bNew, nil
	}

	var newAData []float64
	var bNew []float64
	for _, r := range nonEmptyRows {
		newAData = append(newAData, mat.Row(nil, r, A)...)

		// update the new b vector by index
		bNew = append(bNew, b[r])
	}

	return mat.NewDense(len(nonEmptyRows), aCols, newAData), bNew, nil
}
