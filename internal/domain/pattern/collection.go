package pattern

import (
	pkgerrors "p3-backend/pkg/errors"
)

// Collection is the framework-wide arena that owns every pattern and
// relationship by identifier. It preserves insertion order so that derived
// views and seeded generation stay deterministic.
//
// The collection provides no internal synchronization: the intended usage is
// build once, then run read-only analyses. Callers that populate it from
// multiple goroutines must serialize writes themselves.
type Collection struct {
	patterns          map[string]*Pattern
	patternOrder      []ID
	relationships     map[string]*Relationship
	relationshipOrder []ID
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		patterns:      make(map[string]*Pattern),
		relationships: make(map[string]*Relationship),
	}
}

// AddPattern adds a pattern to the collection. Duplicate identifiers are
// rejected; the collection never silently replaces an entity.
func (c *Collection) AddPattern(p *Pattern) error {
	if p == nil {
		return pkgerrors.NewValidation("pattern cannot be nil")
	}
	if p.ID.IsEmpty() {
		return pkgerrors.NewValidation("pattern id cannot be empty")
	}
	if _, exists := c.patterns[p.ID.String()]; exists {
		return pkgerrors.NewValidation("duplicate pattern id: " + p.ID.String())
	}

	c.patterns[p.ID.String()] = p
	c.patternOrder = append(c.patternOrder, p.ID)
	return nil
}

// AddRelationship adds a relationship to the collection. Endpoints are not
// resolved here; a relationship may be added before or after its patterns,
// but analyses will reject dangling references at resolution time.
func (c *Collection) AddRelationship(r *Relationship) error {
	if r == nil {
		return pkgerrors.NewValidation("relationship cannot be nil")
	}
	if r.ID.IsEmpty() {
		return pkgerrors.NewValidation("relationship id cannot be empty")
	}
	if r.EndpointCount() == 0 {
		return pkgerrors.NewValidation("relationship must reference at least one pattern")
	}
	if _, exists := c.relationships[r.ID.String()]; exists {
		return pkgerrors.NewValidation("duplicate relationship id: " + r.ID.String())
	}

	c.relationships[r.ID.String()] = r
	c.relationshipOrder = append(c.relationshipOrder, r.ID)
	return nil
}

// Pattern looks up a pattern by identifier.
func (c *Collection) Pattern(id ID) (*Pattern, bool) {
	p, ok := c.patterns[id.String()]
	return p, ok
}

// Relationship looks up a relationship by identifier.
func (c *Collection) Relationship(id ID) (*Relationship, bool) {
	r, ok := c.relationships[id.String()]
	return r, ok
}

// Patterns returns all patterns in insertion order. The returned slice is a
// copy; the patterns themselves are shared read-only views.
func (c *Collection) Patterns() []*Pattern {
	result := make([]*Pattern, 0, len(c.patternOrder))
	for _, id := range c.patternOrder {
		result = append(result, c.patterns[id.String()])
	}
	return result
}

// Relationships returns all relationships in insertion order.
func (c *Collection) Relationships() []*Relationship {
	result := make([]*Relationship, 0, len(c.relationshipOrder))
	for _, id := range c.relationshipOrder {
		result = append(result, c.relationships[id.String()])
	}
	return result
}

// PatternCount returns the number of patterns held.
func (c *Collection) PatternCount() int {
	return len(c.patterns)
}

// RelationshipCount returns the number of relationships held.
func (c *Collection) RelationshipCount() int {
	return len(c.relationships)
}

// ResolveEndpoints resolves every populated endpoint of a relationship to
// its pattern, in slot order. An endpoint that does not resolve indicates a
// corrupt collection and yields a dangling reference error rather than being
// treated as absent. A slot holding a pattern of the wrong kind is likewise
// rejected.
func (c *Collection) ResolveEndpoints(r *Relationship) ([]*Pattern, error) {
	if r == nil {
		return nil, pkgerrors.NewValidation("relationship cannot be nil")
	}

	slots := []struct {
		id   ID
		kind Kind
	}{
		{r.PropertyID, KindProperty},
		{r.ProcessID, KindProcess},
		{r.PerspectiveID, KindPerspective},
	}

	endpoints := make([]*Pattern, 0, 3)
	for _, slot := range slots {
		if slot.id.IsEmpty() {
			continue
		}
		p, ok := c.patterns[slot.id.String()]
		if !ok {
			return nil, pkgerrors.NewDanglingReference(
				"relationship " + r.ID.String() + " references unknown pattern " + slot.id.String())
		}
		if p.Kind != slot.kind {
			return nil, pkgerrors.NewValidation(
				"relationship " + r.ID.String() + " holds a " + string(p.Kind) + " pattern in its " + string(slot.kind) + " slot")
		}
		endpoints = append(endpoints, p)
	}
	return endpoints, nil
}
