package ilp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type CutType int

const (
	// CutMin bounds a variable from below: x >= Value
	CutMin CutType = iota
	// CutMax bounds a variable from above: x <= Value
	CutMax
)

func (c CutType) String() string {
	if c == CutMin {
		return ">="
	}
	return "<="
}

// Cut is an extra bound on a single variable, added as a row of the tableau.
type Cut struct {
	Type     CutType
	VarIndex int
	Value    float64
}

// addCutConstraints appends one row per cut, each with a fresh slack variable.
func (t *Tableau) addCutConstraints(cuts []Cut) {
	height := t.height
	t.height = height + len(cuts)

	for i, cut := range cuts {
		r := height + i
		row := t.rowAt(r)

		sign := 1.0
		if cut.Type == CutMin {
			sign = -1
		}

		if varRow := t.rowByVarIndex[cut.VarIndex]; varRow == -1 {
			row[rhsColumn] = sign * cut.Value
			for c := 1; c < t.width; c++ {
				row[c] = 0
			}
			row[t.colByVarIndex[cut.VarIndex]] = sign
		} else {
			// express the bound in terms of the non-basic variables
			src := t.matrix[varRow]
			row[rhsColumn] = sign * (cut.Value - src[rhsColumn])
			floats.ScaleTo(row[1:t.width], -sign, src[1:t.width])
		}

		t.addCutSlack(r)
	}
}

func (t *Tableau) addCutSlack(r int) {
	slackIndex := t.newElementIndex()
	t.varIndexByRow[r] = slackIndex
	t.rowByVarIndex[slackIndex] = r
	t.colByVarIndex[slackIndex] = -1
	t.variablesPerIndex[slackIndex] = newSlackVariable(slackIndex)
}

// addLowerBoundMIRCut derives a mixed-integer rounding cut from a row whose basic variable
// is integer but has a fractional value. It reports whether a cut was added.
func (t *Tableau) addLowerBoundMIRCut(rowIndex int) bool {
	if rowIndex == costRowIndex {
		return false
	}

	intVar := t.variablesPerIndex[t.varIndexByRow[rowIndex]]
	if intVar == nil || !intVar.IsInteger {
		return false
	}

	d := t.matrix[rowIndex][rhsColumn]
	fracD := d - math.Floor(d)
	if fracD < t.precision || 1-t.precision < fracD {
		return false
	}

	r := t.height
	row := t.rowAt(r)
	t.height++
	t.addCutSlack(r)

	src := t.matrix[rowIndex]
	row[rhsColumn] = math.Floor(d)
	for c := 1; c < t.width; c++ {
		coef := src[c]
		variable := t.variablesPerIndex[t.varIndexByCol[c]]
		if variable == nil || !variable.IsInteger {
			row[c] = math.Min(0, coef/(1-fracD))
		} else {
			row[c] = math.Floor(coef) + math.Max(0, coef-math.Floor(coef)-fracD)/(1-fracD)
		}
	}

	floats.Sub(row[:t.width], src[:t.width])

	return true
}

// applyMIRCuts tries to derive a cut from every row present before the call.
func (t *Tableau) applyMIRCuts() {
	nRows := t.height
	for r := 0; r < nRows; r++ {
		t.addLowerBoundMIRCut(r)
	}
}

// fractionalVolume multiplies the fractional parts of the basic integer variables.
// It is 0 when every integer variable is integral.
func (t *Tableau) fractionalVolume() float64 {
	volume := -1.0
	for r := 1; r < t.height; r++ {
		variable := t.variablesPerIndex[t.varIndexByRow[r]]
		if variable == nil || !variable.IsInteger {
			continue
		}

		rhs := math.Abs(t.matrix[r][rhsColumn])
		fraction := rhs - math.Floor(rhs)
		if math.Min(fraction, 1-fraction) < t.precision {
			continue
		}

		if volume == -1 {
			volume = fraction
		} else {
			volume *= fraction
		}
	}

	if volume == -1 {
		return 0
	}
	return volume
}

// isIntegral reports whether every basic integer variable has an integer value.
func (t *Tableau) isIntegral() bool {
	for _, variable := range t.model.integerVariables {
		r := t.rowByVarIndex[variable.Index]
		if r == -1 {
			continue
		}

		value := t.matrix[r][rhsColumn]
		if math.Abs(value-math.Round(value)) > t.precision {
			return false
		}
	}
	return true
}

// applyCuts rewinds to the root relaxation of the search, adds the cuts and re-optimizes.
// With MIR cuts enabled, rounds of cuts are added as long as they shrink the
// fractional volume by more than 10%.
func (t *Tableau) applyCuts(cuts []Cut) error {
	if t.rootState != nil {
		t.restoreFrom(t.rootState)
	}

	t.addCutConstraints(cuts)
	if err := t.simplex(); err != nil {
		return err
	}

	if !t.model.useMIRCuts {
		return nil
	}

	for t.feasible {
		before := t.fractionalVolume()
		t.applyMIRCuts()
		if err := t.simplex(); err != nil {
			return err
		}

		if after := t.fractionalVolume(); after >= 0.9*before {
			break
		}
	}
	return nil
}
