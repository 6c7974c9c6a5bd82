package ilp

// copy returns a deep copy of the live part of the tableau. Variables, the model and the
// unrestricted set are shared with the original.
func (t *Tableau) copy() *Tableau {
	c := &Tableau{
		model:             t.model,
		width:             t.width,
		height:            t.height,
		variablesPerIndex: t.variablesPerIndex,
		unrestricted:      t.unrestricted,
		feasible:          t.feasible,
		evaluation:        t.evaluation,
		bounded:           t.bounded,
		unboundedVarIndex: t.unboundedVarIndex,
		precision:         t.precision,
		lastElementIndex:  t.lastElementIndex,
		baseState:         t.baseState,

		varIndexByRow:    append([]int(nil), t.varIndexByRow...),
		varIndexByCol:    append([]int(nil), t.varIndexByCol...),
		rowByVarIndex:    append([]int(nil), t.rowByVarIndex...),
		colByVarIndex:    append([]int(nil), t.colByVarIndex...),
		availableIndexes: append([]int(nil), t.availableIndexes...),
	}

	c.matrix = make([][]float64, t.height)
	for r := 0; r < t.height; r++ {
		c.matrix[r] = append([]float64(nil), t.matrix[r]...)
	}

	c.optionalObjectives = make([]*OptionalObjective, len(t.optionalObjectives))
	for o, objective := range t.optionalObjectives {
		c.optionalObjectives[o] = objective.copy()
	}

	return c
}

// Save snapshots the tableau so that a later Restore can rewind to it. A snapshot taken
// after a branch-and-cut search keeps the state the search started from.
func (t *Tableau) Save() {
	t.savedState = t.copy()
}

// Restore rewinds the tableau to the last snapshot taken by Save, if any.
func (t *Tableau) Restore() {
	if t.savedState == nil {
		return
	}
	t.restoreFrom(t.savedState)
	t.baseState = t.savedState.baseState
	t.rootState = nil
}

// restoreFrom overwrites the live tableau with the content of the snapshot, reusing its storage.
func (t *Tableau) restoreFrom(s *Tableau) {
	t.width = s.width
	t.height = s.height
	t.lastElementIndex = s.lastElementIndex

	for r := 0; r < s.height; r++ {
		if r < len(t.matrix) {
			t.matrix[r] = append(t.matrix[r][:0], s.matrix[r]...)
		} else {
			t.matrix = append(t.matrix, append([]float64(nil), s.matrix[r]...))
		}
	}

	t.varIndexByRow = append(t.varIndexByRow[:0], s.varIndexByRow...)
	t.varIndexByCol = append(t.varIndexByCol[:0], s.varIndexByCol...)
	t.rowByVarIndex = append(t.rowByVarIndex[:0], s.rowByVarIndex...)
	t.colByVarIndex = append(t.colByVarIndex[:0], s.colByVarIndex...)
	t.availableIndexes = append(t.availableIndexes[:0], s.availableIndexes...)

	t.optionalObjectives = t.optionalObjectives[:0]
	for _, objective := range s.optionalObjectives {
		t.optionalObjectives = append(t.optionalObjectives, objective.copy())
	}
}

// discardCuts rewinds the tableau to the state it had before the last branch-and-cut search,
// dropping the cut rows the search left behind.
func (t *Tableau) discardCuts() {
	if t.baseState == nil {
		return
	}

	t.restoreFrom(t.baseState)
	t.feasible = t.baseState.feasible
	t.evaluation = t.baseState.evaluation
	t.bounded = t.baseState.bounded
	t.unboundedVarIndex = t.baseState.unboundedVarIndex

	t.baseState = nil
	t.rootState = nil
}
