package ilp

import (
	"math"

	"github.com/pkg/errors"
)

// a single pivot, identified by the variables leaving and entering the basis
type pivotRecord struct {
	leaving  int
	entering int
}

// simplex runs phase 1 to reach a basic feasible solution, then phase 2 to optimize it.
func (t *Tableau) simplex() error {
	t.bounded = true

	if err := t.phase1(); err != nil {
		return err
	}

	if t.feasible {
		return t.phase2()
	}

	return nil
}

// phase1 pivots out the basic variables with a negative value until none is left,
// or until no entering column exists, in which case the tableau is infeasible.
func (t *Tableau) phase1() error {
	var history []pivotRecord

	matrix := t.matrix
	lastColumn := t.width - 1
	lastRow := t.height - 1

	for {
		// leaving row: restricted basic variable with the most negative value
		leavingRow := 0
		rhsValue := -t.precision
		for r := 1; r <= lastRow; r++ {
			if t.isUnrestricted(t.varIndexByRow[r]) {
				continue
			}

			if value := matrix[r][rhsColumn]; value < rhsValue {
				rhsValue = value
				leavingRow = r
			}
		}

		if leavingRow == 0 {
			t.feasible = true
			return nil
		}

		enteringColumn := 0
		maxQuotient := math.Inf(-1)
		costRow := matrix[costRowIndex]
		row := matrix[leavingRow]
		for c := 1; c <= lastColumn; c++ {
			coefficient := row[c]
			if -t.precision < coefficient && coefficient < t.precision {
				continue
			}

			if t.isUnrestricted(t.varIndexByCol[c]) || coefficient < -t.precision {
				if quotient := -costRow[c] / coefficient; maxQuotient < quotient {
					maxQuotient = quotient
					enteringColumn = c
				}
			}
		}

		if enteringColumn == 0 {
			t.feasible = false
			t.evaluation = math.Inf(1)
			return nil
		}

		if t.model.checkForCycles {
			history = append(history, pivotRecord{t.varIndexByRow[leavingRow], t.varIndexByCol[enteringColumn]})
			if start, length, found := checkForCycles(history); found {
				return errors.Wrapf(ErrCycle, "phase 1: cycle of length %d starting at pivot %d", length, start)
			}
		}

		t.pivot(leavingRow, enteringColumn)
	}
}

// phase2 improves a feasible tableau until no reduced cost allows it, breaking ties
// on the primary objective with the optional objectives in order of priority.
func (t *Tableau) phase2() error {
	var history []pivotRecord

	matrix := t.matrix
	lastColumn := t.width - 1
	lastRow := t.height - 1
	precision := t.precision
	nOptionalObjectives := len(t.optionalObjectives)

	// columns with a zero primary reduced cost, left for the optional objectives to decide
	var optionalCostsColumns []int

	for {
		costRow := matrix[costRowIndex]
		optionalCostsColumns = optionalCostsColumns[:0]

		enteringColumn := 0
		enteringValue := precision
		isReducedCostNegative := false
		for c := 1; c <= lastColumn; c++ {
			reducedCost := costRow[c]

			if nOptionalObjectives > 0 && -precision < reducedCost && reducedCost < precision {
				optionalCostsColumns = append(optionalCostsColumns, c)
				continue
			}

			if t.isUnrestricted(t.varIndexByCol[c]) && reducedCost < 0 {
				if -reducedCost > enteringValue {
					enteringValue = -reducedCost
					enteringColumn = c
					isReducedCostNegative = true
				}
				continue
			}

			if reducedCost > enteringValue {
				enteringValue = reducedCost
				enteringColumn = c
				isReducedCostNegative = false
			}
		}

		for o := 0; enteringColumn == 0 && len(optionalCostsColumns) > 0 && o < nOptionalObjectives; o++ {
			reducedCosts := t.optionalObjectives[o].ReducedCosts
			stillTied := optionalCostsColumns[:0]

			enteringValue = precision
			for _, c := range optionalCostsColumns {
				reducedCost := reducedCosts[c]

				if -precision < reducedCost && reducedCost < precision {
					stillTied = append(stillTied, c)
					continue
				}

				if t.isUnrestricted(t.varIndexByCol[c]) && reducedCost < 0 {
					if -reducedCost > enteringValue {
						enteringValue = -reducedCost
						enteringColumn = c
						isReducedCostNegative = true
					}
					continue
				}

				if reducedCost > enteringValue {
					enteringValue = reducedCost
					enteringColumn = c
					isReducedCostNegative = false
				}
			}
			optionalCostsColumns = stillTied
		}

		if enteringColumn == 0 {
			t.setEvaluation()
			return nil
		}

		leavingRow := 0
		minQuotient := math.Inf(1)
		for r := 1; r <= lastRow; r++ {
			row := matrix[r]
			rhsValue := row[rhsColumn]
			colValue := row[enteringColumn]

			if -precision < colValue && colValue < precision {
				continue
			}

			// degenerate row: pivot immediately
			if colValue > 0 && precision > rhsValue && rhsValue > -precision {
				minQuotient = 0
				leavingRow = r
				break
			}

			quotient := rhsValue / colValue
			if isReducedCostNegative {
				quotient = -quotient
			}
			if quotient > precision && minQuotient > quotient {
				minQuotient = quotient
				leavingRow = r
			}
		}

		if math.IsInf(minQuotient, 1) {
			t.evaluation = math.Inf(-1)
			t.bounded = false
			t.unboundedVarIndex = t.varIndexByCol[enteringColumn]
			return nil
		}

		if t.model.checkForCycles {
			history = append(history, pivotRecord{t.varIndexByRow[leavingRow], t.varIndexByCol[enteringColumn]})
			if start, length, found := checkForCycles(history); found {
				return errors.Wrapf(ErrCycle, "phase 2: cycle of length %d starting at pivot %d", length, start)
			}
		}

		t.pivot(leavingRow, enteringColumn)
	}
}

// pivot exchanges the basic variable of pivotRow with the non-basic variable of pivotColumn.
// Rows are only updated on the columns where the pivot row is non-zero.
func (t *Tableau) pivot(pivotRow, pivotColumn int) {
	matrix := t.matrix
	quotient := matrix[pivotRow][pivotColumn]
	lastRow := t.height - 1
	lastColumn := t.width - 1

	leavingBasicIndex := t.varIndexByRow[pivotRow]
	enteringBasicIndex := t.varIndexByCol[pivotColumn]

	t.varIndexByRow[pivotRow] = enteringBasicIndex
	t.varIndexByCol[pivotColumn] = leavingBasicIndex

	t.rowByVarIndex[enteringBasicIndex] = pivotRow
	t.rowByVarIndex[leavingBasicIndex] = -1

	t.colByVarIndex[enteringBasicIndex] = -1
	t.colByVarIndex[leavingBasicIndex] = pivotColumn

	row := matrix[pivotRow]
	nonZeroColumns := t.nonZeroColumns[:0]
	for c := 0; c <= lastColumn; c++ {
		if row[c] != 0 {
			row[c] /= quotient
			nonZeroColumns = append(nonZeroColumns, c)
		}
	}
	row[pivotColumn] = 1 / quotient
	t.nonZeroColumns = nonZeroColumns

	eliminate := func(target []float64) {
		coefficient := target[pivotColumn]
		if coefficient == 0 {
			return
		}

		for _, c := range nonZeroColumns {
			if v0 := row[c]; v0 != 0 {
				target[c] -= coefficient * v0
			}
		}
		target[pivotColumn] = -coefficient / quotient
	}

	for r := 0; r <= lastRow; r++ {
		if r != pivotRow {
			eliminate(matrix[r])
		}
	}

	for _, objective := range t.optionalObjectives {
		eliminate(objective.ReducedCosts)
	}
}

// checkForCycles looks for a run of pivots that is immediately repeated in the history.
// It returns the position of the first run found and its length.
func checkForCycles(history []pivotRecord) (start, length int, found bool) {
	for e1 := 0; e1 < len(history)-1; e1++ {
		for e2 := e1 + 1; e2 < len(history); e2++ {
			if history[e1] != history[e2] {
				continue
			}
			if e2-e1 > len(history)-e2 {
				break
			}

			cycleFound := true
			for i := 1; i < e2-e1; i++ {
				if history[e1+i] != history[e2+i] {
					cycleFound = false
					break
				}
			}
			if cycleFound {
				return e1, e2 - e1, true
			}
		}
	}
	return 0, 0, false
}
