// Package registry derives the domain view of a pattern collection: which
// domains exist, which patterns belong to them, and per-domain statistics.
//
// The registry holds no state of its own. Every query is recomputed from the
// current contents of the collection, so it can never go stale when the
// collection changes between calls.
package registry

import (
	"sort"

	"p3-backend/internal/domain/pattern"
)

// Statistics is the deterministic summary of a domain's membership.
// NumRelationships counts relationships whose populated endpoints all belong
// to the domain.
type Statistics struct {
	NumProperties    int `json:"num_properties"`
	NumProcesses     int `json:"num_processes"`
	NumPerspectives  int `json:"num_perspectives"`
	NumRelationships int `json:"num_relationships"`
}

// Vector returns the statistics as the numeric feature row used by the
// correlation and comparison analyses.
func (s Statistics) Vector() []float64 {
	return []float64{
		float64(s.NumProperties),
		float64(s.NumProcesses),
		float64(s.NumPerspectives),
		float64(s.NumRelationships),
	}
}

// Registry computes domain groupings over a pattern collection.
type Registry struct {
	collection *pattern.Collection
}

// New creates a registry over the given collection.
func New(collection *pattern.Collection) *Registry {
	return &Registry{collection: collection}
}

// Domains returns the distinct domain labels across all patterns, sorted.
// Patterns without a domain label belong to no domain.
func (r *Registry) Domains() []string {
	seen := make(map[string]bool)
	for _, p := range r.collection.Patterns() {
		if p.HasDomain() {
			seen[p.Domain] = true
		}
	}

	domains := make([]string, 0, len(seen))
	for domain := range seen {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	return domains
}

// PatternsByDomain partitions the patterns carrying the given domain label by
// kind. Every kind is present in the result, possibly with an empty slice.
func (r *Registry) PatternsByDomain(domain string) map[pattern.Kind][]*pattern.Pattern {
	partition := make(map[pattern.Kind][]*pattern.Pattern, 3)
	for _, kind := range pattern.Kinds() {
		partition[kind] = []*pattern.Pattern{}
	}

	for _, p := range r.collection.Patterns() {
		if p.Domain == domain && domain != "" {
			partition[p.Kind] = append(partition[p.Kind], p)
		}
	}
	return partition
}

// DomainStatistics summarizes a domain's pattern and relationship membership.
// A relationship is counted when every populated endpoint resolves to a
// pattern of the domain; a dangling endpoint fails the computation.
func (r *Registry) DomainStatistics(domain string) (Statistics, error) {
	var stats Statistics

	for _, p := range r.collection.Patterns() {
		if p.Domain != domain || domain == "" {
			continue
		}
		switch p.Kind {
		case pattern.KindProperty:
			stats.NumProperties++
		case pattern.KindProcess:
			stats.NumProcesses++
		case pattern.KindPerspective:
			stats.NumPerspectives++
		}
	}

	for _, rel := range r.collection.Relationships() {
		endpoints, err := r.collection.ResolveEndpoints(rel)
		if err != nil {
			return Statistics{}, err
		}
		inDomain := true
		for _, p := range endpoints {
			if p.Domain != domain {
				inDomain = false
				break
			}
		}
		if inDomain {
			stats.NumRelationships++
		}
	}

	return stats, nil
}

// RelationshipsForDomain returns the relationships touching the domain: at
// least one populated endpoint resolves to a pattern carrying the label.
func (r *Registry) RelationshipsForDomain(domain string) ([]*pattern.Relationship, error) {
	var result []*pattern.Relationship
	for _, rel := range r.collection.Relationships() {
		endpoints, err := r.collection.ResolveEndpoints(rel)
		if err != nil {
			return nil, err
		}
		for _, p := range endpoints {
			if p.Domain == domain && domain != "" {
				result = append(result, rel)
				break
			}
		}
	}
	return result, nil
}

// CrossDomainRelationships returns the relationships whose populated
// endpoints resolve to patterns from two or more distinct domains.
func (r *Registry) CrossDomainRelationships() ([]*pattern.Relationship, error) {
	var result []*pattern.Relationship
	for _, rel := range r.collection.Relationships() {
		domains, err := r.RelationshipDomains(rel)
		if err != nil {
			return nil, err
		}
		if len(domains) > 1 {
			result = append(result, rel)
		}
	}
	return result, nil
}

// RelationshipDomains resolves a relationship's populated endpoints and
// returns the sorted set of distinct domain labels they carry. Endpoints
// without a domain label contribute nothing to the set.
func (r *Registry) RelationshipDomains(rel *pattern.Relationship) ([]string, error) {
	endpoints, err := r.collection.ResolveEndpoints(rel)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(endpoints))
	for _, p := range endpoints {
		if p.HasDomain() {
			seen[p.Domain] = true
		}
	}

	domains := make([]string, 0, len(seen))
	for domain := range seen {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	return domains, nil
}
