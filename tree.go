package ilp

import (
	"math"

	"gopkg.in/dnaeon/go-priorityqueue.v1"
)

// Branch is a node of the branch-and-cut enumeration tree: the bounds accumulated on the
// way down from the root and the relaxed evaluation of its parent.
type Branch struct {
	ID     int64
	Parent int64

	// evaluation of the parent's relaxation, a lower bound on this branch's evaluation
	RelaxedEvaluation float64

	Cuts []Cut
}

// Branch-and-cut decisions that can be made by the algorithm
type bnbDecision string

const (
	SUBPROBLEM_NOT_FEASIBLE         bnbDecision = "subproblem has no feasible solution"
	PRUNED_BY_BOUND                 bnbDecision = "relaxed bound worse than incumbent, pruned before solving"
	WORSE_THAN_INCUMBENT            bnbDecision = "worse than incumbent"
	WORSE_ON_OPTIONAL_OBJECTIVES    bnbDecision = "tied with incumbent but not better on the optional objectives"
	BETTER_THAN_INCUMBENT_BRANCHING bnbDecision = "better than incumbent but not integer feasible, so branching"
	BETTER_THAN_INCUMBENT_FEASIBLE  bnbDecision = "better than incumbent and integer feasible, so replacing incumbent"
	INITIAL_RX_FEASIBLE_FOR_IP      bnbDecision = "initial relaxation is feasible for IP"
)

// branchAndCut searches for the best integral solution, best relaxed bound first.
// The tableau is left in the state of the best branch found; it is reported infeasible
// when no branch is integral.
func (t *Tableau) branchAndCut() error {
	t.baseState = t.copy()
	t.rootState = nil

	bestEvaluation := math.Inf(1)
	var bestBranch *Branch
	bestOptionalEvaluations := make([]float64, len(t.optionalObjectives))
	for o := range bestOptionalEvaluations {
		bestOptionalEvaluations[o] = math.Inf(1)
	}

	frontier := priorityqueue.New[*Branch, float64](priorityqueue.MinHeap)
	root := &Branch{ID: 0, Parent: -1, RelaxedEvaluation: math.Inf(-1)}
	frontier.Put(root, root.RelaxedEvaluation)
	nextID := int64(1)

	iterations := 0
	for frontier.Len() > 0 {
		branch := frontier.Get().Value
		if branch.RelaxedEvaluation > bestEvaluation {
			t.decide(branch, branch.RelaxedEvaluation, PRUNED_BY_BOUND)
			continue
		}

		if err := t.applyCuts(branch.Cuts); err != nil {
			return err
		}
		iterations++

		if !t.feasible {
			t.decide(branch, t.evaluation, SUBPROBLEM_NOT_FEASIBLE)
			continue
		}

		evaluation := t.evaluation
		if evaluation > bestEvaluation {
			t.decide(branch, evaluation, WORSE_THAN_INCUMBENT)
			continue
		}

		if evaluation == bestEvaluation && !t.improvesOptionalObjectives(bestOptionalEvaluations) {
			t.decide(branch, evaluation, WORSE_ON_OPTIONAL_OBJECTIVES)
			continue
		}

		if t.isIntegral() {
			if iterations == 1 {
				t.decide(branch, evaluation, INITIAL_RX_FEASIBLE_FOR_IP)
				t.branchAndCutIterations = iterations
				return nil
			}

			bestBranch = branch
			bestEvaluation = evaluation
			for o, objective := range t.optionalObjectives {
				bestOptionalEvaluations[o] = objective.ReducedCosts[rhsColumn]
			}
			t.decide(branch, evaluation, BETTER_THAN_INCUMBENT_FEASIBLE)
			continue
		}

		if iterations == 1 {
			t.rootState = t.copy()
		}

		varIndex, value, ok := t.branchingVariable()
		if !ok {
			t.decide(branch, evaluation, SUBPROBLEM_NOT_FEASIBLE)
			continue
		}

		cutsHigh, cutsLow := splitCuts(branch.Cuts, varIndex)
		high := &Branch{
			ID:                nextID,
			Parent:            branch.ID,
			RelaxedEvaluation: evaluation,
			Cuts:              append(cutsHigh, Cut{Type: CutMin, VarIndex: varIndex, Value: math.Ceil(value)}),
		}
		low := &Branch{
			ID:                nextID + 1,
			Parent:            branch.ID,
			RelaxedEvaluation: evaluation,
			Cuts:              append(cutsLow, Cut{Type: CutMax, VarIndex: varIndex, Value: math.Floor(value)}),
		}
		nextID += 2

		frontier.Put(high, high.RelaxedEvaluation)
		frontier.Put(low, low.RelaxedEvaluation)
		t.decide(branch, evaluation, BETTER_THAN_INCUMBENT_BRANCHING)
	}

	if bestBranch != nil {
		if err := t.applyCuts(bestBranch.Cuts); err != nil {
			return err
		}
	} else {
		t.feasible = false
		t.evaluation = math.Inf(1)
	}

	t.branchAndCutIterations = iterations
	return nil
}

// improvesOptionalObjectives compares the optional objective values of the current relaxation
// with those of the incumbent, tier by tier. Equal values on every tier do not improve.
func (t *Tableau) improvesOptionalObjectives(best []float64) bool {
	for o, objective := range t.optionalObjectives {
		if o >= len(best) {
			break
		}

		current := objective.ReducedCosts[rhsColumn]
		if current > best[o] {
			return false
		}
		if current < best[o] {
			return true
		}
	}
	return false
}

func (t *Tableau) decide(b *Branch, z float64, decision bnbDecision) {
	t.model.middleware.ProcessDecision(*b, z, decision)
}

// check whether the solution vector is feasible in light of the integrality constraints for each variable
func feasibleForIP(constraints []bool, solution []float64, precision float64) bool {
	for i := range solution {
		if i < len(constraints) && constraints[i] && !isInteger(solution[i], precision) {
			return false
		}
	}
	return true
}

func isInteger(v, precision float64) bool {
	return math.Abs(v-math.Round(v)) <= precision
}
