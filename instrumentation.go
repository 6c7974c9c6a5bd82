package ilp

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

type bnbMiddleware interface {

	// Receives each processed branch, the evaluation of its relaxation and the corresponding decision
	ProcessDecision(Branch, float64, bnbDecision)
}

type dummyMiddleware struct{}

func (d dummyMiddleware) ProcessDecision(b Branch, z float64, decision bnbDecision) {
	return
}

// represents a node from the enumeration tree.
type node struct {
	id     int64
	parent int64

	// objective function value
	z float64

	// bounds added on the way down from the root
	cuts []Cut

	decision bnbDecision
}

// TreeLogger records the branch-and-cut enumeration tree for inspection.
type TreeLogger struct {
	nodes []node
}

func NewTreeLogger() *TreeLogger {
	return &TreeLogger{}
}

func (tl *TreeLogger) ProcessDecision(b Branch, z float64, decision bnbDecision) {
	tl.nodes = append(tl.nodes, node{
		id:       b.ID,
		parent:   b.Parent,
		z:        z,
		cuts:     b.Cuts,
		decision: decision,
	})
}

// Decisions returns the decisions in the order they were taken.
func (tl *TreeLogger) Decisions() []string {
	out := make([]string, len(tl.nodes))
	for i, n := range tl.nodes {
		out[i] = string(n.decision)
	}
	return out
}

// ToDOT writes the enumeration tree in the Graphviz DOT language.
func (tl *TreeLogger) ToDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph enumtree {")
	fmt.Fprintln(bw, "\tnode [shape=box];")
	for _, n := range tl.nodes {
		fmt.Fprintf(bw, "\tn%d [label=\"%d\\nz = %s\\n%s\\n%s\"];\n", n.id, n.id, formatZ(n.z), cutsLabel(n.cuts), n.decision)
	}
	for _, n := range tl.nodes {
		if n.parent >= 0 {
			fmt.Fprintf(bw, "\tn%d -> n%d;\n", n.parent, n.id)
		}
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}

func formatZ(z float64) string {
	if math.IsInf(z, 0) {
		return fmt.Sprint(z)
	}
	return fmt.Sprintf("%.4g", z)
}

func cutsLabel(cuts []Cut) string {
	if len(cuts) == 0 {
		return "root"
	}
	parts := make([]string, len(cuts))
	for i, c := range cuts {
		parts[i] = fmt.Sprintf("x%d %s %g", c.VarIndex, c.Type, c.Value)
	}
	return strings.Join(parts, ", ")
}
