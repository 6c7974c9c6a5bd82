package ilp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lays out and solves the relaxation of max 3x + 2y s.t. 2x <= xBound, 4y <= yBound
func relaxedTableau(t *testing.T, heuristic BranchHeuristic, xBound, yBound float64) (*Tableau, *Variable, *Variable) {
	m := newTestModel(t, "branching", WithBranchHeuristic(heuristic)).Maximize()
	x := m.AddVariable(3, "x", true, false, Required)
	y := m.AddVariable(2, "y", true, false, Required)
	m.SmallerThan(xBound).AddTerm(2, x)
	m.SmallerThan(yBound).AddTerm(4, y)

	m.tableau.SetModel(m)
	m.tableauInitialized = true
	require.NoError(t, m.tableau.simplex())

	return m.tableau, x, y
}

func TestTableau_branchingVariable(t *testing.T) {
	tests := []struct {
		name      string
		heuristic BranchHeuristic
		xBound    float64
		yBound    float64
		wantVar   string
		wantValue float64
		wantOK    bool
	}{
		{
			name:      "most fractional",
			heuristic: BRANCH_MOST_INFEASIBLE,
			xBound:    3,
			yBound:    5,
			wantVar:   "x",
			wantValue: 1.5,
			wantOK:    true,
		},
		{
			name:      "lowest cost",
			heuristic: BRANCH_LOWEST_COST,
			xBound:    3,
			yBound:    5,
			wantVar:   "y",
			wantValue: 1.25,
			wantOK:    true,
		},
		{
			name:      "lowest cost skips integral variables",
			heuristic: BRANCH_LOWEST_COST,
			xBound:    3,
			yBound:    8,
			wantVar:   "x",
			wantValue: 1.5,
			wantOK:    true,
		},
		{
			name:      "largest absolute cost",
			heuristic: BRANCH_MAXFUN,
			xBound:    3,
			yBound:    5,
			wantVar:   "x",
			wantValue: 1.5,
			wantOK:    true,
		},
		{
			name:      "largest absolute cost skips integral variables",
			heuristic: BRANCH_MAXFUN,
			xBound:    4,
			yBound:    5,
			wantVar:   "y",
			wantValue: 1.25,
			wantOK:    true,
		},
		{
			name:      "first fractional in declaration order",
			heuristic: BRANCH_NAIVE,
			xBound:    3,
			yBound:    5,
			wantVar:   "x",
			wantValue: 1.5,
			wantOK:    true,
		},
		{
			name:      "naive, first variable integral",
			heuristic: BRANCH_NAIVE,
			xBound:    4,
			yBound:    5,
			wantVar:   "y",
			wantValue: 1.25,
			wantOK:    true,
		},
		{
			name:      "naive, everything integral",
			heuristic: BRANCH_NAIVE,
			xBound:    4,
			yBound:    8,
			wantOK:    false,
		},
		{
			name:      "most fractional, everything integral",
			heuristic: BRANCH_MOST_INFEASIBLE,
			xBound:    4,
			yBound:    8,
			wantOK:    false,
		},
		{
			name:      "lowest cost, everything integral",
			heuristic: BRANCH_LOWEST_COST,
			xBound:    4,
			yBound:    8,
			wantOK:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab, x, y := relaxedTableau(t, tt.heuristic, tt.xBound, tt.yBound)

			varIndex, value, ok := tab.branchingVariable()
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, -1, varIndex)
				return
			}

			want := map[string]int{"x": x.Index, "y": y.Index}[tt.wantVar]
			assert.Equal(t, want, varIndex)
			assert.InDelta(t, tt.wantValue, value, 1e-8)
		})
	}
}

func Test_splitCuts(t *testing.T) {
	tests := []struct {
		name     string
		cuts     []Cut
		varIndex int
		wantHigh []Cut
		wantLow  []Cut
	}{
		{
			name:     "root",
			cuts:     nil,
			varIndex: 0,
			wantHigh: []Cut{},
			wantLow:  []Cut{},
		},
		{
			name: "cuts on other variables are shared",
			cuts: []Cut{
				{Type: CutMin, VarIndex: 1, Value: 2},
				{Type: CutMax, VarIndex: 2, Value: 0},
			},
			varIndex: 0,
			wantHigh: []Cut{
				{Type: CutMin, VarIndex: 1, Value: 2},
				{Type: CutMax, VarIndex: 2, Value: 0},
			},
			wantLow: []Cut{
				{Type: CutMin, VarIndex: 1, Value: 2},
				{Type: CutMax, VarIndex: 2, Value: 0},
			},
		},
		{
			name: "earlier bounds on the branched variable are replaced",
			cuts: []Cut{
				{Type: CutMin, VarIndex: 0, Value: 1},
				{Type: CutMax, VarIndex: 0, Value: 4},
				{Type: CutMax, VarIndex: 3, Value: 7},
			},
			varIndex: 0,
			wantHigh: []Cut{
				{Type: CutMax, VarIndex: 0, Value: 4},
				{Type: CutMax, VarIndex: 3, Value: 7},
			},
			wantLow: []Cut{
				{Type: CutMin, VarIndex: 0, Value: 1},
				{Type: CutMax, VarIndex: 3, Value: 7},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHigh, gotLow := splitCuts(tt.cuts, tt.varIndex)
			assert.Equal(t, tt.wantHigh, gotHigh)
			assert.Equal(t, tt.wantLow, gotLow)
		})
	}
}

func TestCutType_String(t *testing.T) {
	assert.Equal(t, ">=", CutMin.String())
	assert.Equal(t, "<=", CutMax.String())
}
