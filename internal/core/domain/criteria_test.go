package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClauseDifference(t *testing.T) {
	all := []Clause{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}

	t.Run("removes excluded ids and keeps order", func(t *testing.T) {
		got := ClauseDifference(all, []Clause{{ID: "c"}, {ID: "a"}})
		assert.Equal(t, []Clause{{ID: "b"}, {ID: "d"}}, got)
	})

	t.Run("empty exclude returns everything", func(t *testing.T) {
		assert.Equal(t, all, ClauseDifference(all, nil))
	})

	t.Run("result never overlaps exclude", func(t *testing.T) {
		exclude := []Clause{{ID: "b"}, {ID: "z"}}
		got := ClauseDifference(all, exclude)
		g := CriteriaGroup{Clauses: exclude}
		for _, c := range got {
			assert.False(t, g.HasClause(c.ID))
		}
		assert.Len(t, got, 3)
	})
}

func TestCriteriaGroup_HasClause(t *testing.T) {
	g := CriteriaGroup{Clauses: []Clause{{ID: "x"}}}
	assert.True(t, g.HasClause("x"))
	assert.False(t, g.HasClause("y"))
}
