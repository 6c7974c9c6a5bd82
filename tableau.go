package ilp

import (
	"fmt"
	"math"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultPrecision = 1e-8

	costRowIndex = 0
	rhsColumn    = 0
)

// Tableau is a dense simplex tableau. Row 0 holds the reduced costs of the primary
// objective, column 0 the right-hand sides. Every variable index is either basic
// (it owns a row) or non-basic (it owns a column), never both.
type Tableau struct {
	model *Model

	matrix [][]float64
	width  int
	height int

	variablesPerIndex []*Variable
	unrestricted      mapset.Set[int]

	feasible          bool
	evaluation        float64
	bounded           bool
	unboundedVarIndex int

	varIndexByRow []int
	varIndexByCol []int

	rowByVarIndex []int
	colByVarIndex []int

	precision float64

	// secondary objective tiers, sorted by priority
	optionalObjectives []*OptionalObjective

	savedState *Tableau

	// state of the tableau before the last branch-and-cut search started
	baseState *Tableau
	// root relaxation every branch of the running search starts from
	rootState *Tableau

	availableIndexes []int
	lastElementIndex int

	branchAndCutIterations int

	// scratch list of the non-zero columns of the current pivot row
	nonZeroColumns []int
}

// OptionalObjective holds the reduced costs of one secondary objective tier,
// indexed like the columns of the tableau.
type OptionalObjective struct {
	Priority     Priority
	ReducedCosts []float64
}

func newOptionalObjective(priority Priority, nColumns int) *OptionalObjective {
	return &OptionalObjective{
		Priority:     priority,
		ReducedCosts: make([]float64, nColumns),
	}
}

func (o *OptionalObjective) copy() *OptionalObjective {
	return &OptionalObjective{
		Priority:     o.Priority,
		ReducedCosts: append([]float64(nil), o.ReducedCosts...),
	}
}

func NewTableau(precision float64) *Tableau {
	if precision <= 0 {
		precision = defaultPrecision
	}

	return &Tableau{
		precision:         precision,
		feasible:          true,
		bounded:           true,
		unboundedVarIndex: -1,
		unrestricted:      mapset.NewThreadUnsafeSet[int](),
	}
}

// SetModel lays out the initial tableau of the model: one column per variable and
// one row per constraint, with every constraint slack in the basis.
func (t *Tableau) SetModel(m *Model) *Tableau {
	t.model = m

	width := len(m.variables) + 1
	height := len(m.constraints) + 1

	t.initialize(width, height, m.unrestricted)
	t.resetMatrix()

	return t
}

func (t *Tableau) initialize(width, height int, unrestricted mapset.Set[int]) {
	t.unrestricted = unrestricted

	t.width = width
	t.height = height

	t.matrix = make([][]float64, height)
	for r := range t.matrix {
		t.matrix[r] = make([]float64, width)
	}

	t.varIndexByRow = filled(height, -1)
	t.varIndexByCol = filled(width, -1)

	// indexes handed out by the model before the layout may exceed the variable count
	nVars := width + height - 2
	if t.lastElementIndex > nVars {
		nVars = t.lastElementIndex
	}
	t.rowByVarIndex = filled(nVars, -1)
	t.colByVarIndex = filled(nVars, -1)
	for len(t.variablesPerIndex) < nVars {
		t.variablesPerIndex = append(t.variablesPerIndex, nil)
	}
	if t.lastElementIndex < nVars {
		t.lastElementIndex = nVars
	}

	t.optionalObjectives = nil
	t.savedState = nil
	t.baseState = nil
	t.rootState = nil
	t.feasible = true
	t.bounded = true
	t.unboundedVarIndex = -1
}

func (t *Tableau) resetMatrix() {
	costRow := t.matrix[costRowIndex]
	sign := 1.0
	if t.model.isMinimization {
		sign = -1
	}

	for v, variable := range t.model.variables {
		column := v + 1
		cost := sign * variable.Cost
		if variable.Priority == Required {
			costRow[column] = cost
		} else {
			t.setOptionalObjective(variable.Priority, column, cost)
		}

		t.rowByVarIndex[variable.Index] = -1
		t.colByVarIndex[variable.Index] = column
		t.varIndexByCol[column] = variable.Index
	}

	for c, constraint := range t.model.constraints {
		rowIndex := c + 1
		constraintIndex := constraint.Index()
		t.rowByVarIndex[constraintIndex] = rowIndex
		t.colByVarIndex[constraintIndex] = -1
		t.varIndexByRow[rowIndex] = constraintIndex

		sign := 1.0
		if !constraint.IsUpperBound {
			sign = -1
		}

		row := t.matrix[rowIndex]
		for _, term := range constraint.Terms {
			if term.Variable.Index == -1 {
				continue
			}
			column := t.colByVarIndex[term.Variable.Index]
			if column == -1 {
				continue
			}
			row[column] = sign * term.Coefficient
		}
		row[rhsColumn] = sign * constraint.RHS
	}
}

// objectiveForPriority returns the tier of the given priority, or nil if no variable uses it yet.
func (t *Tableau) objectiveForPriority(priority Priority) *OptionalObjective {
	i := sort.Search(len(t.optionalObjectives), func(i int) bool {
		return t.optionalObjectives[i].Priority >= priority
	})
	if i < len(t.optionalObjectives) && t.optionalObjectives[i].Priority == priority {
		return t.optionalObjectives[i]
	}
	return nil
}

// optionalObjective returns the tier of the given priority, creating it if needed.
func (t *Tableau) optionalObjective(priority Priority) *OptionalObjective {
	if objective := t.objectiveForPriority(priority); objective != nil {
		return objective
	}

	t.setOptionalObjective(priority, rhsColumn, 0)
	return t.objectiveForPriority(priority)
}

func (t *Tableau) setOptionalObjective(priority Priority, column int, cost float64) {
	objective := t.objectiveForPriority(priority)
	if objective == nil {
		nColumns := t.width
		if column+1 > nColumns {
			nColumns = column + 1
		}
		objective = newOptionalObjective(priority, nColumns)

		i := sort.Search(len(t.optionalObjectives), func(i int) bool {
			return t.optionalObjectives[i].Priority > priority
		})
		t.optionalObjectives = append(t.optionalObjectives, nil)
		copy(t.optionalObjectives[i+1:], t.optionalObjectives[i:])
		t.optionalObjectives[i] = objective
	}

	objective.ReducedCosts = grown(objective.ReducedCosts, column+1)
	objective.ReducedCosts[column] = cost
}

// newElementIndex hands out a variable index, recycling freed ones first.
func (t *Tableau) newElementIndex() int {
	var index int
	if n := len(t.availableIndexes); n > 0 {
		index = t.availableIndexes[n-1]
		t.availableIndexes = t.availableIndexes[:n-1]
	} else {
		index = t.lastElementIndex
		t.lastElementIndex++
	}

	t.ensureVarIndex(index)
	return index
}

// reserveIndex hands out an index for a new model element. Cut rows left behind by a
// branch-and-cut search are discarded first so their indexes are never handed out twice.
func (t *Tableau) reserveIndex() int {
	t.discardCuts()
	return t.newElementIndex()
}

func (t *Tableau) releaseIndex(index int) {
	t.availableIndexes = append(t.availableIndexes, index)
}

func (t *Tableau) ensureVarIndex(index int) {
	for len(t.rowByVarIndex) <= index {
		t.rowByVarIndex = append(t.rowByVarIndex, -1)
	}
	for len(t.colByVarIndex) <= index {
		t.colByVarIndex = append(t.colByVarIndex, -1)
	}
	for len(t.variablesPerIndex) <= index {
		t.variablesPerIndex = append(t.variablesPerIndex, nil)
	}
}

// ensureWidth makes every stored row and optional objective hold at least n columns.
func (t *Tableau) ensureWidth(n int) {
	for r := range t.matrix {
		t.matrix[r] = grown(t.matrix[r], n)
	}
	for _, objective := range t.optionalObjectives {
		objective.ReducedCosts = grown(objective.ReducedCosts, n)
	}
	for len(t.varIndexByCol) < n {
		t.varIndexByCol = append(t.varIndexByCol, -1)
	}
}

// rowAt returns the storage of row r, allocating it when the matrix has never been that tall.
// Rows past the current height keep whatever they last held.
func (t *Tableau) rowAt(r int) []float64 {
	for len(t.matrix) <= r {
		t.matrix = append(t.matrix, make([]float64, t.width))
	}
	for len(t.varIndexByRow) <= r {
		t.varIndexByRow = append(t.varIndexByRow, -1)
	}

	t.matrix[r] = grown(t.matrix[r], t.width)
	return t.matrix[r]
}

func (t *Tableau) isUnrestricted(varIndex int) bool {
	return varIndex >= 0 && t.unrestricted.Contains(varIndex)
}

// isLive reports whether the index currently owns a row or a column.
func (t *Tableau) isLive(varIndex int) bool {
	if varIndex < 0 || varIndex >= len(t.rowByVarIndex) {
		return false
	}
	return t.rowByVarIndex[varIndex] != -1 || t.colByVarIndex[varIndex] != -1
}

// checkPartition verifies that every live index is either basic or non-basic and that
// the row and column maps are inverses of each other.
func (t *Tableau) checkPartition() error {
	for i := range t.rowByVarIndex {
		r, c := t.rowByVarIndex[i], t.colByVarIndex[i]
		switch {
		case r != -1 && c != -1:
			return errors.Errorf("variable index %d is both basic (row %d) and non-basic (column %d)", i, r, c)
		case r != -1 && t.varIndexByRow[r] != i:
			return errors.Errorf("row %d is mapped to variable index %d instead of %d", r, t.varIndexByRow[r], i)
		case c != -1 && t.varIndexByCol[c] != i:
			return errors.Errorf("column %d is mapped to variable index %d instead of %d", c, t.varIndexByCol[c], i)
		}
	}
	for r := 1; r < t.height; r++ {
		if i := t.varIndexByRow[r]; i < 0 || t.rowByVarIndex[i] != r {
			return errors.Errorf("row %d holds no basic variable", r)
		}
	}
	for c := 1; c < t.width; c++ {
		if i := t.varIndexByCol[c]; i < 0 || t.colByVarIndex[i] != c {
			return errors.Errorf("column %d holds no non-basic variable", c)
		}
	}
	return nil
}

func (t *Tableau) round(v float64) float64 {
	roundingCoeff := math.Round(1 / t.precision)
	return math.Round(v*roundingCoeff) / roundingCoeff
}

func (t *Tableau) setEvaluation() {
	t.evaluation = t.round(t.matrix[costRowIndex][rhsColumn])
}

// Solve optimizes the tableau, through branch and cut when the model has integer variables.
func (t *Tableau) Solve() (*Solution, error) {
	t.discardCuts()

	var err error
	if len(t.model.integerVariables) > 0 {
		err = t.branchAndCut()
	} else {
		err = t.simplex()
	}
	if err != nil {
		return nil, err
	}

	t.updateVariableValues()
	return t.solution(), nil
}

func (t *Tableau) IsFeasible() bool {
	return t.feasible
}

func (t *Tableau) IsBounded() bool {
	return t.bounded
}

// UnboundedVarIndex returns the index of the variable along which the last solve
// found the objective to be unbounded, or -1.
func (t *Tableau) UnboundedVarIndex() int {
	if t.bounded {
		return -1
	}
	return t.unboundedVarIndex
}

func (t *Tableau) updateVariableValues() {
	for _, variable := range t.model.variables {
		r := t.rowByVarIndex[variable.Index]
		if r == -1 {
			variable.Value = 0
			continue
		}
		variable.Value = t.round(t.matrix[r][rhsColumn])
	}
}

func (t *Tableau) solution() *Solution {
	evaluation := t.evaluation
	if !t.model.isMinimization {
		evaluation = -evaluation
	}

	s := &Solution{
		Feasible:       t.feasible,
		Bounded:        t.bounded,
		Evaluation:     evaluation,
		VariableValues: make(map[string]float64),
	}
	if len(t.model.integerVariables) > 0 {
		s.Iter = t.branchAndCutIterations
	}

	for r := 1; r < t.height; r++ {
		variable := t.variablesPerIndex[t.varIndexByRow[r]]
		if variable == nil || variable.IsSlack {
			continue
		}
		s.VariableValues[variable.ID] = t.round(t.matrix[r][rhsColumn])
	}

	return s
}

// Log writes a human readable dump of the tableau to the model's logger.
func (t *Tableau) Log(message string) {
	var b strings.Builder

	fmt.Fprintf(&b, "****** %s ******\n", message)
	fmt.Fprintf(&b, "Nb variables: %d, Nb constraints: %d, feasible: %v, evaluation: %v\n",
		t.width-1, t.height-1, t.feasible, t.evaluation)

	ids := func(indexes []int, n int) []string {
		out := make([]string, 0, n)
		for _, i := range indexes[1:n] {
			if v := t.variablesPerIndex[i]; v != nil {
				out = append(out, v.ID)
			} else {
				out = append(out, fmt.Sprintf("#%d", i))
			}
		}
		return out
	}
	fmt.Fprintf(&b, "non-basic: %s\n", strings.Join(ids(t.varIndexByCol, t.width), " "))
	fmt.Fprintf(&b, "basic: %s\n", strings.Join(ids(t.varIndexByRow, t.height), " "))

	data := make([]float64, 0, t.width*t.height)
	for r := 0; r < t.height; r++ {
		data = append(data, t.matrix[r][:t.width]...)
	}
	fmt.Fprintf(&b, "%v\n", mat.Formatted(mat.NewDense(t.height, t.width, data), mat.Squeeze()))

	for _, objective := range t.optionalObjectives {
		fmt.Fprintf(&b, "priority %d: %v\n", objective.Priority, objective.ReducedCosts[:t.width])
	}

	t.model.logger.Print(b.String())
}

func filled(n, value int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = value
	}
	return s
}

func grown(s []float64, n int) []float64 {
	if len(s) >= n {
		return s
	}
	return append(s, make([]float64, n-len(s))...)
}
