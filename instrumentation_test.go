package ilp

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_TreeLoggerToDot(t *testing.T) {

	// initiate a treelogger
	tl := NewTreeLogger()

	// add some nodes to the tree
	root := Branch{ID: 0, Parent: -1, RelaxedEvaluation: math.Inf(-1)}
	high := Branch{
		ID:                1,
		Parent:            0,
		RelaxedEvaluation: -22,
		Cuts:              []Cut{{Type: CutMin, VarIndex: 2, Value: 1}},
	}
	low := Branch{
		ID:                2,
		Parent:            0,
		RelaxedEvaluation: -22,
		Cuts:              []Cut{{Type: CutMax, VarIndex: 2, Value: 0}},
	}

	tl.ProcessDecision(root, -22, BETTER_THAN_INCUMBENT_BRANCHING)
	tl.ProcessDecision(high, 0, SUBPROBLEM_NOT_FEASIBLE)
	tl.ProcessDecision(low, -21, BETTER_THAN_INCUMBENT_FEASIBLE)

	// check if the internal node representation looks the way we expect.
	assert.Equal(t, []node{
		{
			id:       0,
			parent:   -1,
			z:        -22,
			decision: BETTER_THAN_INCUMBENT_BRANCHING,
		},
		{
			id:       1,
			parent:   0,
			z:        0,
			cuts:     high.Cuts,
			decision: SUBPROBLEM_NOT_FEASIBLE,
		},
		{
			id:       2,
			parent:   0,
			z:        -21,
			cuts:     low.Cuts,
			decision: BETTER_THAN_INCUMBENT_FEASIBLE,
		},
	}, tl.nodes)

	var buffer bytes.Buffer
	require.NoError(t, tl.ToDOT(&buffer))

	dot := buffer.String()
	assert.Contains(t, dot, "digraph enumtree {")
	assert.Contains(t, dot, "n0 [label=\"0\\nz = -22\\nroot\\n")
	assert.Contains(t, dot, "x2 >= 1")
	assert.Contains(t, dot, "x2 <= 0")
	assert.Contains(t, dot, "n0 -> n1;")
	assert.Contains(t, dot, "n0 -> n2;")
	assert.NotContains(t, dot, "-> n0;")
}

func TestTreeLogger_RecordsSearch(t *testing.T) {
	tl := NewTreeLogger()
	m, _, _ := newKnapsack(t, WithMiddleware(tl), WithMIRCuts(false))

	s := solve(t, m)
	require.True(t, s.Feasible)

	require.NotEmpty(t, tl.nodes)
	assert.Equal(t, int64(0), tl.nodes[0].id)
	assert.Equal(t, int64(-1), tl.nodes[0].parent)
	assert.Equal(t, BETTER_THAN_INCUMBENT_BRANCHING, tl.nodes[0].decision)
	assert.Contains(t, tl.Decisions(), string(BETTER_THAN_INCUMBENT_FEASIBLE))

	// every node but the root hangs below a node that branched
	branched := map[int64]bool{}
	for _, n := range tl.nodes {
		if n.decision == BETTER_THAN_INCUMBENT_BRANCHING {
			branched[n.id] = true
		}
	}
	for _, n := range tl.nodes[1:] {
		assert.True(t, branched[n.parent], "node %d", n.id)
		assert.NotEmpty(t, n.cuts)
	}

	var buffer bytes.Buffer
	require.NoError(t, tl.ToDOT(&buffer))
	assert.Contains(t, buffer.String(), "n0 -> n1;")
}

func Test_formatZ(t *testing.T) {
	assert.Equal(t, "-22", formatZ(-22))
	assert.Equal(t, "1.235", formatZ(1.23456))
	assert.Equal(t, "+Inf", formatZ(math.Inf(1)))
}
