package ilp

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// putInBase makes the variable basic, pivoting on any row where its column is non-zero.
// It returns the row of the variable.
func (t *Tableau) putInBase(varIndex int) int {
	r := t.rowByVarIndex[varIndex]
	if r != -1 {
		return r
	}

	c := t.colByVarIndex[varIndex]
	for r1 := 1; r1 < t.height; r1++ {
		if coefficient := t.matrix[r1][c]; coefficient < -t.precision || t.precision < coefficient {
			r = r1
			break
		}
	}
	if r == -1 {
		return -1
	}

	t.pivot(r, c)
	return r
}

// takeOutOfBase makes the variable non-basic, pivoting on any column where its row is non-zero.
// It returns the column of the variable.
func (t *Tableau) takeOutOfBase(varIndex int) int {
	c := t.colByVarIndex[varIndex]
	if c != -1 {
		return c
	}

	r := t.rowByVarIndex[varIndex]
	row := t.matrix[r]
	for c1 := 1; c1 < t.width; c1++ {
		if coefficient := row[c1]; coefficient < -t.precision || t.precision < coefficient {
			c = c1
			break
		}
	}
	if c == -1 {
		return -1
	}

	t.pivot(r, c)
	return c
}

// UpdateRightHandSide shifts the right-hand side of the constraint by -difference,
// in the tableau's sign convention for the constraint.
func (t *Tableau) UpdateRightHandSide(constraint *Constraint, difference float64) {
	t.discardCuts()

	index := constraint.Index()
	if !t.isLive(index) {
		t.model.logger.Print("[Tableau.UpdateRightHandSide] constraint not present in tableau")
		return
	}

	constraintRow := t.rowByVarIndex[index]
	if constraintRow != -1 {
		t.matrix[constraintRow][rhsColumn] -= difference
		return
	}

	// the slack is non-basic: every basic value depends on it
	slackColumn := t.colByVarIndex[index]
	for r := 0; r < t.height; r++ {
		row := t.matrix[r]
		row[rhsColumn] -= difference * row[slackColumn]
	}
	for _, objective := range t.optionalObjectives {
		objective.ReducedCosts[rhsColumn] -= difference * objective.ReducedCosts[slackColumn]
	}
}

// UpdateConstraintCoefficient shifts the coefficient of the variable in the constraint
// by -difference, in the tableau's sign convention for the constraint.
func (t *Tableau) UpdateConstraintCoefficient(constraint *Constraint, variable *Variable, difference float64) error {
	if constraint.Index() == variable.Index {
		return errors.Wrapf(ErrSelfCoefficient, "index %d", variable.Index)
	}

	t.discardCuts()

	if !t.isLive(constraint.Index()) || !t.isLive(variable.Index) {
		t.model.logger.Print("[Tableau.UpdateConstraintCoefficient] constraint or variable not present in tableau")
		return nil
	}

	r := t.putInBase(constraint.Index())
	if r == -1 {
		return errors.Errorf("could not bring constraint %d into the basis", constraint.Index())
	}
	row := t.matrix[r]

	if colVar := t.colByVarIndex[variable.Index]; colVar != -1 {
		row[colVar] -= difference
		return nil
	}

	varRow := t.matrix[t.rowByVarIndex[variable.Index]]
	floats.AddScaled(row[:t.width], difference, varRow[:t.width])
	return nil
}

// UpdateCost shifts the cost of the variable by -difference in the row of its priority tier.
func (t *Tableau) UpdateCost(variable *Variable, difference float64) {
	t.discardCuts()

	if !t.isLive(variable.Index) {
		t.model.logger.Print("[Tableau.UpdateCost] variable not present in tableau")
		return
	}

	costRow := t.matrix[costRowIndex]
	if variable.Priority != Required {
		costRow = t.optionalObjective(variable.Priority).ReducedCosts
	}

	if varColumn := t.colByVarIndex[variable.Index]; varColumn != -1 {
		costRow[varColumn] -= difference
		return
	}

	varRow := t.matrix[t.rowByVarIndex[variable.Index]]
	floats.AddScaled(costRow[:t.width], difference, varRow[:t.width])
}

// AddConstraint appends the constraint as a new row, expressed in terms of the current
// non-basic variables, with its slack as basic variable.
func (t *Tableau) AddConstraint(constraint *Constraint) {
	t.discardCuts()

	sign := -1.0
	if constraint.IsUpperBound {
		sign = 1
	}

	lastRow := t.height
	row := t.rowAt(lastRow)
	for c := 0; c < t.width; c++ {
		row[c] = 0
	}
	row[rhsColumn] = sign * constraint.RHS

	for _, term := range constraint.Terms {
		varIndex := term.Variable.Index
		if !t.isLive(varIndex) {
			continue
		}

		if varRow := t.rowByVarIndex[varIndex]; varRow != -1 {
			floats.AddScaled(row[:t.width], -sign*term.Coefficient, t.matrix[varRow][:t.width])
		} else {
			row[t.colByVarIndex[varIndex]] += sign * term.Coefficient
		}
	}

	slackIndex := constraint.Index()
	t.ensureVarIndex(slackIndex)
	t.variablesPerIndex[slackIndex] = constraint.Slack
	t.varIndexByRow[lastRow] = slackIndex
	t.rowByVarIndex[slackIndex] = lastRow
	t.colByVarIndex[slackIndex] = -1

	t.height++
}

// RemoveConstraint brings the constraint's slack into the basis and drops its row.
// The constraint index is released for reuse.
func (t *Tableau) RemoveConstraint(constraint *Constraint) {
	t.discardCuts()

	slackIndex := constraint.Index()
	if !t.isLive(slackIndex) {
		t.model.logger.Print("[Tableau.RemoveConstraint] constraint not present in tableau")
		return
	}

	r := t.putInBase(slackIndex)
	if r == -1 {
		t.model.logger.Print("[Tableau.RemoveConstraint] could not bring constraint into the basis")
		return
	}

	// move the row to the bottom of the matrix and shrink the height over it
	lastRow := t.height - 1
	t.matrix[r], t.matrix[lastRow] = t.matrix[lastRow], t.matrix[r]

	t.varIndexByRow[r] = t.varIndexByRow[lastRow]
	t.rowByVarIndex[t.varIndexByRow[r]] = r
	t.varIndexByRow[lastRow] = -1
	t.rowByVarIndex[slackIndex] = -1

	t.releaseIndex(slackIndex)
	constraint.Slack.Index = -1

	t.height--
}

// AddVariable appends the variable as a new non-basic column.
func (t *Tableau) AddVariable(variable *Variable) {
	t.discardCuts()

	lastColumn := t.width
	t.ensureWidth(lastColumn + 1)

	cost := variable.Cost
	if t.model.isMinimization {
		cost = -cost
	}

	for _, objective := range t.optionalObjectives {
		objective.ReducedCosts[lastColumn] = 0
	}

	if variable.Priority == Required {
		t.matrix[costRowIndex][lastColumn] = cost
	} else {
		t.setOptionalObjective(variable.Priority, lastColumn, cost)
		t.matrix[costRowIndex][lastColumn] = 0
	}

	for r := 1; r < t.height; r++ {
		t.matrix[r][lastColumn] = 0
	}

	varIndex := variable.Index
	t.ensureVarIndex(varIndex)
	t.variablesPerIndex[varIndex] = variable
	t.varIndexByCol[lastColumn] = varIndex
	t.rowByVarIndex[varIndex] = -1
	t.colByVarIndex[varIndex] = lastColumn

	t.width++
}

// RemoveVariable takes the variable out of the basis and drops its column.
// The variable index is released for reuse.
func (t *Tableau) RemoveVariable(variable *Variable) {
	t.discardCuts()

	varIndex := variable.Index
	if !t.isLive(varIndex) {
		t.model.logger.Print("[Tableau.RemoveVariable] variable not present in tableau")
		return
	}

	c := t.takeOutOfBase(varIndex)
	if c == -1 {
		t.model.logger.Print("[Tableau.RemoveVariable] could not take variable out of the basis")
		return
	}

	// move the last column into the freed one
	lastColumn := t.width - 1
	if c != lastColumn {
		for r := 0; r < t.height; r++ {
			row := t.matrix[r]
			row[c] = row[lastColumn]
		}
		for _, objective := range t.optionalObjectives {
			objective.ReducedCosts[c] = objective.ReducedCosts[lastColumn]
		}

		switchVarIndex := t.varIndexByCol[lastColumn]
		t.varIndexByCol[c] = switchVarIndex
		t.colByVarIndex[switchVarIndex] = c
	}

	t.varIndexByCol[lastColumn] = -1
	t.colByVarIndex[varIndex] = -1

	t.releaseIndex(varIndex)
	variable.Index = -1

	t.width--
}
