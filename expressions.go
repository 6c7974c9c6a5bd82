package ilp

import "fmt"

// Priority of a variable's cost. Required costs make up the primary objective,
// every other priority is a tier of a lexicographically ordered secondary objective.
type Priority int

const (
	Required Priority = 0
	Strong   Priority = 1
	Medium   Priority = 2
	Weak     Priority = 3
)

// ParsePriority maps the names of the priority tiers to their value.
// Unknown names are treated as Required.
func ParsePriority(name string) Priority {
	switch name {
	case "strong":
		return Strong
	case "medium":
		return Medium
	case "weak":
		return Weak
	default:
		return Required
	}
}

type Variable struct {
	ID string

	// coefficient of the variable in the objective function
	Cost float64

	// slot of the variable in the tableau index space; -1 once removed
	Index int

	// value found by the last solve
	Value float64

	Priority Priority

	// integrality constraint
	IsInteger bool

	IsSlack bool
}

func newSlackVariable(index int) *Variable {
	return &Variable{
		ID:      fmt.Sprintf("s%d", index),
		Index:   index,
		IsSlack: true,
	}
}

// a variable and the coefficient it is multiplied with in a constraint, e.g. "-1 * x1"
type Term struct {
	Variable    *Variable
	Coefficient float64
}

// Constraint is a single bound on the sum of its terms:
// sum(terms) <= RHS for upper bounds, sum(terms) >= RHS otherwise.
type Constraint struct {
	RHS          float64
	IsUpperBound bool
	Terms        []*Term

	// every constraint owns a slack variable sharing the constraint's index
	Slack *Variable

	// set once the constraint has been relaxed
	Relaxation *Variable

	termsByVariable map[*Variable]*Term
	model           *Model
}

func newConstraint(rhs float64, isUpperBound bool, index int, model *Model) *Constraint {
	return &Constraint{
		RHS:             rhs,
		IsUpperBound:    isUpperBound,
		Slack:           newSlackVariable(index),
		termsByVariable: make(map[*Variable]*Term),
		model:           model,
	}
}

// Index of the constraint, -1 once it has been removed from its model.
func (c *Constraint) Index() int {
	return c.Slack.Index
}

// AddTerm adds coefficient * v to the left-hand side. Adding a variable that is
// already part of the constraint sums both coefficients.
func (c *Constraint) AddTerm(coefficient float64, v *Variable) *Constraint {
	if term, ok := c.termsByVariable[v]; ok {
		return c.SetVariableCoefficient(term.Coefficient+coefficient, v)
	}

	if v.Index == -1 {
		c.model.logger.Print("[Constraint.AddTerm] trying to add a term for a removed variable ", v.ID)
		return c
	}
	if !c.model.hasVariable(v) {
		panic("provided term contains a variable that has not been declared to this model yet")
	}

	term := &Term{Variable: v, Coefficient: coefficient}
	c.termsByVariable[v] = term
	c.Terms = append(c.Terms, term)

	if c.IsUpperBound {
		coefficient = -coefficient
	}
	c.model.updateConstraintCoefficient(c, v, coefficient)

	return c
}

func (c *Constraint) SetRightHandSide(rhs float64) *Constraint {
	if rhs == c.RHS {
		return c
	}

	difference := rhs - c.RHS
	if c.IsUpperBound {
		difference = -difference
	}

	c.RHS = rhs
	c.model.updateRightHandSide(c, difference)

	return c
}

func (c *Constraint) SetVariableCoefficient(coefficient float64, v *Variable) *Constraint {
	if v.Index == -1 {
		c.model.logger.Print("[Constraint.SetVariableCoefficient] trying to change coefficient of removed variable ", v.ID)
		return c
	}

	term, ok := c.termsByVariable[v]
	if !ok {
		return c.AddTerm(coefficient, v)
	}
	if coefficient == term.Coefficient {
		return c
	}

	difference := coefficient - term.Coefficient
	if c.IsUpperBound {
		difference = -difference
	}

	term.Coefficient = coefficient
	c.model.updateConstraintCoefficient(c, v, difference)

	return c
}

// Relax allows the constraint to be violated at a cost of weight per unit, accounted for
// in the objective tier of the given priority. Required constraints cannot be relaxed.
func (c *Constraint) Relax(weight float64, priority Priority) *Constraint {
	c.Relaxation = c.model.createRelaxationVariable(weight, priority)
	c.relax(c.Relaxation)

	return c
}

func (c *Constraint) relax(relaxation *Variable) {
	if relaxation == nil {
		return
	}

	if c.IsUpperBound {
		c.SetVariableCoefficient(-1, relaxation)
	} else {
		c.SetVariableCoefficient(1, relaxation)
	}
}

// Equality is a pair of opposite bounds on the same terms.
type Equality struct {
	Upper      *Constraint
	Lower      *Constraint
	RHS        float64
	Relaxation *Variable
}

func (e *Equality) AddTerm(coefficient float64, v *Variable) *Equality {
	e.Upper.AddTerm(coefficient, v)
	e.Lower.AddTerm(coefficient, v)

	return e
}

func (e *Equality) SetRightHandSide(rhs float64) *Equality {
	e.Upper.SetRightHandSide(rhs)
	e.Lower.SetRightHandSide(rhs)
	e.RHS = rhs

	return e
}

func (e *Equality) SetVariableCoefficient(coefficient float64, v *Variable) *Equality {
	e.Upper.SetVariableCoefficient(coefficient, v)
	e.Lower.SetVariableCoefficient(coefficient, v)

	return e
}

// Relax relaxes both bounds with a single shared relaxation variable.
func (e *Equality) Relax(weight float64, priority Priority) *Equality {
	e.Relaxation = e.Upper.model.createRelaxationVariable(weight, priority)

	e.Upper.Relaxation = e.Relaxation
	e.Upper.relax(e.Relaxation)
	e.Lower.Relaxation = e.Relaxation
	e.Lower.relax(e.Relaxation)

	return e
}
