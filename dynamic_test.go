package ilp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableau_UpdateConstraintCoefficientOfOwnSlack(t *testing.T) {
	m := newTestModel(t, "self")
	x := m.AddVariable(1, "x", false, false, Required)
	c := m.GreaterThan(1).AddTerm(1, x)
	solve(t, m)

	err := m.Tableau().UpdateConstraintCoefficient(c, c.Slack, 1)
	assert.ErrorIs(t, err, ErrSelfCoefficient)
}

func TestTableau_putInBaseAndTakeOutOfBase(t *testing.T) {
	m := newTestModel(t, "basis")
	x := m.AddVariable(3, "x", false, false, Required)
	y := m.AddVariable(2, "y", false, false, Required)
	c1 := m.GreaterThan(3).AddTerm(1, x).AddTerm(1, y)
	m.GreaterThan(4).AddTerm(2, x).AddTerm(1, y)
	tab := m.tableau.SetModel(m)
	m.tableauInitialized = true

	// already basic
	assert.Equal(t, 1, tab.putInBase(c1.Index()))

	r := tab.putInBase(x.Index)
	require.NotEqual(t, -1, r)
	assert.Equal(t, x.Index, tab.varIndexByRow[r])
	require.NoError(t, tab.checkPartition())

	c := tab.takeOutOfBase(x.Index)
	require.NotEqual(t, -1, c)
	assert.Equal(t, x.Index, tab.varIndexByCol[c])
	assert.Equal(t, -1, tab.rowByVarIndex[x.Index])
	require.NoError(t, tab.checkPartition())

	// already non-basic
	assert.Equal(t, c, tab.takeOutOfBase(x.Index))
}

func TestTableau_MutationsOnAbsentElementsWarn(t *testing.T) {
	logger := &captureLogger{}
	m := newTestModel(t, "absent", WithLogger(logger))
	x := m.AddVariable(1, "x", false, false, Required)
	y := m.AddVariable(1, "y", false, false, Required)
	c := m.GreaterThan(1).AddTerm(1, x)
	solve(t, m)

	tab := m.Tableau()
	tab.RemoveConstraint(c)
	tab.RemoveVariable(y)
	require.Empty(t, logger.messages)

	tab.RemoveConstraint(c)
	tab.RemoveVariable(y)
	tab.UpdateRightHandSide(c, 1)
	tab.UpdateCost(y, 1)
	require.NoError(t, tab.UpdateConstraintCoefficient(c, x, 1))

	assert.Equal(t, []string{
		"[Tableau.RemoveConstraint] constraint not present in tableau",
		"[Tableau.RemoveVariable] variable not present in tableau",
		"[Tableau.UpdateRightHandSide] constraint not present in tableau",
		"[Tableau.UpdateCost] variable not present in tableau",
		"[Tableau.UpdateConstraintCoefficient] constraint or variable not present in tableau",
	}, logger.messages)
	require.NoError(t, tab.checkPartition())
}

func TestTableau_RemoveVariableMovesLastColumn(t *testing.T) {
	m := newTestModel(t, "columns")
	x := m.AddVariable(1, "x", false, false, Required)
	y := m.AddVariable(1, "y", false, false, Strong)
	z := m.AddVariable(2, "z", false, false, Required)
	m.GreaterThan(2).AddTerm(1, x).AddTerm(1, y).AddTerm(1, z)

	// y costs nothing on the primary objective
	s := solve(t, m)
	assert.InDelta(t, 0, s.Evaluation, 1e-8)
	assert.InDelta(t, 0, x.Value, 1e-8)
	assert.InDelta(t, 2, y.Value, 1e-8)

	m.RemoveVariable(x)
	tab := m.Tableau()
	assert.Equal(t, 3, tab.width)
	assert.Equal(t, z.Index, tab.varIndexByCol[1])
	require.NoError(t, tab.checkPartition())

	s = solve(t, m)
	assert.InDelta(t, 0, s.Evaluation, 1e-8)
	assert.InDelta(t, 2, y.Value, 1e-8)
	assert.InDelta(t, 0, z.Value, 1e-8)

	// removing the basic y leaves z to satisfy the constraint
	m.RemoveVariable(y)
	assert.Equal(t, 2, tab.width)
	require.NoError(t, tab.checkPartition())

	s = solve(t, m)
	assert.InDelta(t, 4, s.Evaluation, 1e-8)
	assert.InDelta(t, 2, z.Value, 1e-8)
}

func TestModel_SetCostOfOptionalVariable(t *testing.T) {
	m := newTestModel(t, "tiers")
	x := m.AddVariable(0, "x", false, false, Strong)
	y := m.AddVariable(0, "y", false, false, Strong)
	m.SetCost(1, x)
	m.SetCost(2, y)
	m.GreaterThan(2).AddTerm(1, x).AddTerm(1, y)

	solve(t, m)
	assert.InDelta(t, 2, x.Value, 1e-8)
	assert.InDelta(t, 0, y.Value, 1e-8)

	// x is basic now, so its tier row is updated through its row
	m.SetCost(3, x)
	solve(t, m)
	assert.InDelta(t, 0, x.Value, 1e-8)
	assert.InDelta(t, 2, y.Value, 1e-8)
}

func TestModel_SetCostBeforeSolve(t *testing.T) {
	m := newTestModel(t, "cost")
	x := m.AddVariable(1, "x", false, false, Required)
	m.GreaterThan(2).AddTerm(1, x)

	m.SetCost(5, x)
	assert.Equal(t, 5.0, x.Cost)

	s := solve(t, m)
	assert.InDelta(t, 10, s.Evaluation, 1e-8)
}
