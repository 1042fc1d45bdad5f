// Package catalog holds the client-side copy of review criteria.
//
// Clauses are stored once, keyed by ID. Groups store only clause IDs, and
// the clause lists handed out by Groups and Group are rebuilt on every read.
// Editing or deleting a clause therefore changes every group that embeds it
// without any fan-out.
package catalog

import (
	"slices"
	"sync"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

type group struct {
	id        string
	name      string
	clauseIDs []string
}

// Catalog is safe for concurrent use.
type Catalog struct {
	mu          sync.RWMutex
	loaded      bool
	clauses     map[string]domain.Clause
	clauseOrder []string
	groups      map[string]*group
	groupOrder  []string
}

// New creates an empty, unloaded catalog.
func New() *Catalog {
	c := &Catalog{}
	c.reset()
	return c
}

func (c *Catalog) reset() {
	c.loaded = false
	c.clauses = make(map[string]domain.Clause)
	c.clauseOrder = nil
	c.groups = make(map[string]*group)
	c.groupOrder = nil
}

// Replace discards current contents and loads groups and clauses.
// Clauses embedded in groups but missing from clauses are added.
func (c *Catalog) Replace(groups []domain.CriteriaGroup, clauses []domain.Clause) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
	for _, cl := range clauses {
		c.putClause(cl)
	}
	for _, g := range groups {
		entry := &group{id: g.ID, name: g.Name}
		for _, cl := range g.Clauses {
			if _, ok := c.clauses[cl.ID]; !ok {
				c.putClause(cl)
			}
			if !slices.Contains(entry.clauseIDs, cl.ID) {
				entry.clauseIDs = append(entry.clauseIDs, cl.ID)
			}
		}
		if _, ok := c.groups[g.ID]; !ok {
			c.groupOrder = append(c.groupOrder, g.ID)
		}
		c.groups[g.ID] = entry
	}
	c.loaded = true
}

// Invalidate empties the catalog and marks it unloaded.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Loaded reports whether Replace has run since the last Invalidate.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Groups returns snapshots of every group in insertion order.
func (c *Catalog) Groups() []domain.CriteriaGroup {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.CriteriaGroup, 0, len(c.groupOrder))
	for _, id := range c.groupOrder {
		out = append(out, c.snapshot(c.groups[id]))
	}
	return out
}

// Group returns a snapshot of one group.
func (c *Catalog) Group(id string) (domain.CriteriaGroup, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.groups[id]
	if !ok {
		return domain.CriteriaGroup{}, false
	}
	return c.snapshot(g), true
}

func (c *Catalog) snapshot(g *group) domain.CriteriaGroup {
	out := domain.CriteriaGroup{ID: g.id, Name: g.name, Clauses: make([]domain.Clause, 0, len(g.clauseIDs))}
	for _, id := range g.clauseIDs {
		if cl, ok := c.clauses[id]; ok {
			out.Clauses = append(out.Clauses, cl)
		}
	}
	return out
}

// Clauses returns every clause in insertion order.
func (c *Catalog) Clauses() []domain.Clause {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Clause, 0, len(c.clauseOrder))
	for _, id := range c.clauseOrder {
		out = append(out, c.clauses[id])
	}
	return out
}

// Clause returns one clause.
func (c *Catalog) Clause(id string) (domain.Clause, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cl, ok := c.clauses[id]
	return cl, ok
}

// PutGroup adds a group or renames an existing one. Membership of an existing
// group is kept; a new group starts with the clauses it carries.
func (c *Catalog) PutGroup(g domain.CriteriaGroup) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.groups[g.ID]; ok {
		existing.name = g.Name
		return
	}
	entry := &group{id: g.ID, name: g.Name}
	for _, cl := range g.Clauses {
		if _, ok := c.clauses[cl.ID]; !ok {
			c.putClause(cl)
		}
		entry.clauseIDs = append(entry.clauseIDs, cl.ID)
	}
	c.groups[g.ID] = entry
	c.groupOrder = append(c.groupOrder, g.ID)
}

// RemoveGroup deletes a group. Its clauses stay in the catalog.
func (c *Catalog) RemoveGroup(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.groups[id]; !ok {
		return false
	}
	delete(c.groups, id)
	c.groupOrder = slices.DeleteFunc(c.groupOrder, func(s string) bool { return s == id })
	return true
}

// PutClause inserts a clause or replaces the stored copy.
func (c *Catalog) PutClause(cl domain.Clause) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putClause(cl)
}

// UpdateClause replaces a stored clause and reports whether it was known.
// Unknown IDs are ignored.
func (c *Catalog) UpdateClause(cl domain.Clause) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.clauses[cl.ID]; !ok {
		return false
	}
	c.clauses[cl.ID] = cl
	return true
}

func (c *Catalog) putClause(cl domain.Clause) {
	if _, ok := c.clauses[cl.ID]; !ok {
		c.clauseOrder = append(c.clauseOrder, cl.ID)
	}
	c.clauses[cl.ID] = cl
}

// RemoveClause deletes a clause and its membership in every group.
func (c *Catalog) RemoveClause(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.clauses[id]; !ok {
		return false
	}
	delete(c.clauses, id)
	c.clauseOrder = slices.DeleteFunc(c.clauseOrder, func(s string) bool { return s == id })
	for _, g := range c.groups {
		g.clauseIDs = slices.DeleteFunc(g.clauseIDs, func(s string) bool { return s == id })
	}
	return true
}

// Attach adds a known clause to a known group. Attaching twice is a no-op.
func (c *Catalog) Attach(groupID, clauseID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[groupID]
	if !ok {
		return false
	}
	if _, ok := c.clauses[clauseID]; !ok {
		return false
	}
	if !slices.Contains(g.clauseIDs, clauseID) {
		g.clauseIDs = append(g.clauseIDs, clauseID)
	}
	return true
}

// Detach removes a clause from one group only.
func (c *Catalog) Detach(groupID, clauseID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[groupID]
	if !ok || !slices.Contains(g.clauseIDs, clauseID) {
		return false
	}
	g.clauseIDs = slices.DeleteFunc(g.clauseIDs, func(s string) bool { return s == clauseID })
	return true
}

// Available returns clauses that are not members of the group.
// An unknown group yields every clause.
func (c *Catalog) Available(groupID string) []domain.Clause {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]domain.Clause, 0, len(c.clauseOrder))
	for _, id := range c.clauseOrder {
		all = append(all, c.clauses[id])
	}
	g, ok := c.groups[groupID]
	if !ok {
		return all
	}
	return domain.ClauseDifference(all, c.snapshot(g).Clauses)
}
