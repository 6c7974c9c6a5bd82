package ilp

// Solution is a read-only projection of a solved tableau.
type Solution struct {
	Feasible bool
	Bounded  bool

	// objective value, in the direction the model was built with; +Inf when an
	// infeasible model is minimized, -Inf when it is maximized
	Evaluation float64

	// number of branch-and-cut nodes processed; zero for models without integer variables
	Iter int

	// values of the basic structural variables, keyed by ID. Non-basic variables are omitted.
	VariableValues map[string]float64
}

// IsOptimal reports whether the solution is both feasible and bounded.
func (s *Solution) IsOptimal() bool {
	return s.Feasible && s.Bounded
}

// Value returns the value of the variable with the given ID, 0 if it is not basic.
func (s *Solution) Value(id string) float64 {
	return s.VariableValues[id]
}
