package ilp

import "math"

// selectable heuristic options
type BranchHeuristic int

const (
	BRANCH_MOST_INFEASIBLE BranchHeuristic = 0
	BRANCH_LOWEST_COST     BranchHeuristic = 1
	BRANCH_MAXFUN          BranchHeuristic = 2
	BRANCH_NAIVE           BranchHeuristic = 3
)

// Get the integer variable to branch on, along with its current value.
// Non-basic integer variables sit at 0 and are never candidates.
func (t *Tableau) branchingVariable() (varIndex int, value float64, ok bool) {
	switch t.model.branchHeuristic {
	case BRANCH_LOWEST_COST:
		return t.fractionalVarWithLowestCost()
	case BRANCH_MAXFUN:
		return t.fractionalVarWithMaxCost()
	case BRANCH_NAIVE:
		return t.firstFractionalVar()
	default:
		return t.mostFractionalVar()
	}
}

// Choose the integer variable with the fractional part closest to 1/2.
// Ties go to the first variable declared.
func (t *Tableau) mostFractionalVar() (varIndex int, value float64, ok bool) {
	biggestFraction := 0.0
	varIndex = -1

	for _, variable := range t.model.integerVariables {
		r := t.rowByVarIndex[variable.Index]
		if r == -1 {
			continue
		}

		v := t.matrix[r][rhsColumn]
		if fraction := math.Abs(v - math.Round(v)); fraction > t.precision && biggestFraction < fraction {
			biggestFraction = fraction
			varIndex = variable.Index
			value = v
		}
	}

	return varIndex, value, varIndex != -1
}

// Choose the fractional integer variable with the lowest cost in the objective function.
func (t *Tableau) fractionalVarWithLowestCost() (varIndex int, value float64, ok bool) {
	lowestCost := math.Inf(1)
	varIndex = -1

	for _, variable := range t.model.integerVariables {
		r := t.rowByVarIndex[variable.Index]
		if r == -1 {
			continue
		}

		v := t.matrix[r][rhsColumn]
		if math.Abs(v-math.Round(v)) > t.precision && variable.Cost < lowestCost {
			lowestCost = variable.Cost
			varIndex = variable.Index
			value = v
		}
	}

	return varIndex, value, varIndex != -1
}

// Choose the fractional integer variable with the highest absolute value in the objective function.
func (t *Tableau) fractionalVarWithMaxCost() (varIndex int, value float64, ok bool) {
	highestCost := -1.0
	varIndex = -1

	for _, variable := range t.model.integerVariables {
		r := t.rowByVarIndex[variable.Index]
		if r == -1 {
			continue
		}

		v := t.matrix[r][rhsColumn]
		if math.Abs(v-math.Round(v)) > t.precision && math.Abs(variable.Cost) > highestCost {
			highestCost = math.Abs(variable.Cost)
			varIndex = variable.Index
			value = v
		}
	}

	return varIndex, value, varIndex != -1
}

// Choose the first fractional integer variable in declaration order.
// Note that this is a really naive way to find a nice variable to branch on.
func (t *Tableau) firstFractionalVar() (varIndex int, value float64, ok bool) {
	for _, variable := range t.model.integerVariables {
		r := t.rowByVarIndex[variable.Index]
		if r == -1 {
			continue
		}

		if v := t.matrix[r][rhsColumn]; math.Abs(v-math.Round(v)) > t.precision {
			return variable.Index, v, true
		}
	}

	return -1, 0, false
}

// splitCuts partitions the cuts of a branch between its two children when branching on varIndex.
// The child raising the variable replaces the earlier lower bounds on it, the child
// lowering it replaces the earlier upper bounds.
func splitCuts(cuts []Cut, varIndex int) (cutsHigh, cutsLow []Cut) {
	cutsHigh = make([]Cut, 0, len(cuts)+1)
	cutsLow = make([]Cut, 0, len(cuts)+1)

	for _, cut := range cuts {
		if cut.VarIndex != varIndex {
			cutsHigh = append(cutsHigh, cut)
			cutsLow = append(cutsLow, cut)
			continue
		}

		if cut.Type == CutMin {
			cutsLow = append(cutsLow, cut)
		} else {
			cutsHigh = append(cutsHigh, cut)
		}
	}

	return cutsHigh, cutsLow
}
