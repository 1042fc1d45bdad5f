package domain

// Clause is a named rule describing what to look for during review.
type Clause struct {
	ID          string
	Name        string
	Description string
}

// CriteriaGroup is a named, ordered set of clauses used as a review rubric.
// Clauses is a snapshot; it is rebuilt from the catalog on every read.
type CriteriaGroup struct {
	ID      string
	Name    string
	Clauses []Clause
}

// HasClause reports whether the group currently contains the clause.
func (g CriteriaGroup) HasClause(clauseID string) bool {
	for _, c := range g.Clauses {
		if c.ID == clauseID {
			return true
		}
	}
	return false
}

// ClauseDifference returns the clauses in all whose IDs are not in exclude,
// preserving the order of all.
func ClauseDifference(all, exclude []Clause) []Clause {
	skip := make(map[string]struct{}, len(exclude))
	for _, c := range exclude {
		skip[c.ID] = struct{}{}
	}
	out := make([]Clause, 0, len(all))
	for _, c := range all {
		if _, ok := skip[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out
}
