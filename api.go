package ilp

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// Model builds a linear program variable by variable and constraint by constraint.
// Once solved, further edits are applied to the solved tableau directly so that the
// next Solve starts from the previous optimum.
type Model struct {
	Name string

	tableau *Tableau

	variables        []*Variable
	integerVariables []*Variable
	unrestricted     mapset.Set[int]
	constraints      []*Constraint

	isMinimization     bool
	tableauInitialized bool
	relaxationIndex    int

	precision       float64
	useMIRCuts      bool
	checkForCycles  bool
	branchHeuristic BranchHeuristic
	middleware      bnbMiddleware
	logger          Logger
}

// NewModel instantiates an empty minimization model. The name is purely informational.
func NewModel(name string, opts ...Option) (*Model, error) {
	m := &Model{
		Name:            name,
		unrestricted:    mapset.NewThreadUnsafeSet[int](),
		isMinimization:  true,
		relaxationIndex: 1,
		precision:       defaultPrecision,
		useMIRCuts:      true,
		branchHeuristic: BRANCH_MOST_INFEASIBLE,
		middleware:      dummyMiddleware{},
		logger:          noopLogger{},
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, errors.Wrap(err, "applying model option")
		}
	}

	m.tableau = NewTableau(m.precision)
	m.tableau.model = m
	m.tableau.unrestricted = m.unrestricted

	return m, nil
}

func (m *Model) Minimize() *Model {
	m.isMinimization = true
	return m
}

func (m *Model) Maximize() *Model {
	m.isMinimization = false
	return m
}

func (m *Model) Tableau() *Tableau {
	return m.tableau
}

// AddVariable declares a variable. An empty id is replaced by one derived from the
// variable's index. Unrestricted variables may take negative values.
func (m *Model) AddVariable(cost float64, id string, isInteger, isUnrestricted bool, priority Priority) *Variable {
	index := m.tableau.reserveIndex()
	if id == "" {
		id = fmt.Sprintf("v%d", index)
	}

	v := &Variable{
		ID:        id,
		Cost:      cost,
		Index:     index,
		Priority:  priority,
		IsInteger: isInteger,
	}

	m.variables = append(m.variables, v)
	if isInteger {
		m.integerVariables = append(m.integerVariables, v)
	}
	m.tableau.variablesPerIndex[index] = v

	if isUnrestricted {
		m.unrestricted.Add(index)
	}

	if m.tableauInitialized {
		m.tableau.AddVariable(v)
	}

	return v
}

// SmallerThan declares a constraint sum(terms) <= rhs. Terms are added on the returned constraint.
func (m *Model) SmallerThan(rhs float64) *Constraint {
	c := newConstraint(rhs, true, m.tableau.reserveIndex(), m)
	m.addConstraint(c)
	return c
}

// GreaterThan declares a constraint sum(terms) >= rhs. Terms are added on the returned constraint.
func (m *Model) GreaterThan(rhs float64) *Constraint {
	c := newConstraint(rhs, false, m.tableau.reserveIndex(), m)
	m.addConstraint(c)
	return c
}

// Equal declares a constraint sum(terms) == rhs as a pair of opposite bounds.
func (m *Model) Equal(rhs float64) *Equality {
	upper := m.SmallerThan(rhs)
	lower := m.GreaterThan(rhs)

	return &Equality{
		Upper: upper,
		Lower: lower,
		RHS:   rhs,
	}
}

func (m *Model) addConstraint(c *Constraint) {
	m.tableau.variablesPerIndex[c.Index()] = c.Slack
	m.constraints = append(m.constraints, c)

	if m.tableauInitialized {
		m.tableau.AddConstraint(c)
	}
}

// RemoveConstraint drops the constraint along with its relaxation variable, if any.
func (m *Model) RemoveConstraint(c *Constraint) *Model {
	idx := slices.Index(m.constraints, c)
	if idx == -1 {
		m.logger.Print("[Model.RemoveConstraint] constraint not present in model")
		return m
	}
	m.constraints = slices.Delete(m.constraints, idx, idx+1)

	if m.tableauInitialized {
		m.tableau.RemoveConstraint(c)
	} else {
		m.tableau.releaseIndex(c.Index())
		c.Slack.Index = -1
	}

	if c.Relaxation != nil && m.hasVariable(c.Relaxation) {
		m.RemoveVariable(c.Relaxation)
	}
	c.Relaxation = nil

	return m
}

func (m *Model) RemoveEquality(e *Equality) *Model {
	m.RemoveConstraint(e.Upper)
	m.RemoveConstraint(e.Lower)
	e.Relaxation = nil

	return m
}

func (m *Model) RemoveVariable(v *Variable) *Model {
	idx := slices.Index(m.variables, v)
	if idx == -1 {
		m.logger.Print("[Model.RemoveVariable] variable not present in model")
		return m
	}
	m.variables = slices.Delete(m.variables, idx, idx+1)
	if i := slices.Index(m.integerVariables, v); i != -1 {
		m.integerVariables = slices.Delete(m.integerVariables, i, i+1)
	}
	m.unrestricted.Remove(v.Index)

	if m.tableauInitialized {
		m.tableau.RemoveVariable(v)
	} else {
		m.tableau.releaseIndex(v.Index)
		v.Index = -1
	}

	return m
}

// SetCost changes the cost of the variable in the objective function.
func (m *Model) SetCost(cost float64, v *Variable) *Model {
	difference := cost - v.Cost
	if !m.isMinimization {
		difference = -difference
	}

	v.Cost = cost
	if m.tableauInitialized {
		m.tableau.UpdateCost(v, difference)
	}

	return m
}

func (m *Model) updateRightHandSide(c *Constraint, difference float64) {
	if m.tableauInitialized {
		m.tableau.UpdateRightHandSide(c, difference)
	}
}

func (m *Model) updateConstraintCoefficient(c *Constraint, v *Variable, difference float64) {
	if !m.tableauInitialized {
		return
	}

	if err := m.tableau.UpdateConstraintCoefficient(c, v, difference); err != nil {
		panic(err)
	}
}

func (m *Model) createRelaxationVariable(weight float64, priority Priority) *Variable {
	if priority == Required {
		return nil
	}

	if weight == 0 {
		weight = 1
	}
	if !m.isMinimization {
		weight = -weight
	}

	v := m.AddVariable(weight, fmt.Sprintf("r%d", m.relaxationIndex), false, false, priority)
	m.relaxationIndex++

	return v
}

// Check whether the variable is currently declared in the model
func (m *Model) hasVariable(v *Variable) bool {
	return slices.Index(m.variables, v) != -1
}

func (m *Model) NumberOfIntegerVariables() int {
	return len(m.integerVariables)
}

// Solve lays out the tableau on first use and optimizes it.
func (m *Model) Solve() (*Solution, error) {
	if !m.tableauInitialized {
		m.tableau.SetModel(m)
		m.tableauInitialized = true
	}

	s, err := m.tableau.Solve()
	if err != nil {
		return nil, errors.Wrapf(err, "solving model %q", m.Name)
	}
	return s, nil
}

func (m *Model) IsFeasible() bool {
	return m.tableau.IsFeasible()
}

func (m *Model) Save() {
	m.tableau.Save()
}

func (m *Model) Restore() {
	m.tableau.Restore()
}

func (m *Model) Log(message string) {
	if !m.tableauInitialized {
		m.logger.Print("[Model.Log] ", message, ": tableau not initialized")
		return
	}
	m.tableau.Log(message)
}
