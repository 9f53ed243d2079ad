// Package pattern contains the core domain model: patterns (properties,
// processes, perspectives), weighted relationships between them, and the
// in-memory collection that owns both.
package pattern

import (
	"sort"
	"strings"

	pkgerrors "p3-backend/pkg/errors"
)

// Pattern is a named, described unit of one of three variants. Patterns are
// created once and never mutated afterwards; whichever collection holds a
// pattern owns it.
type Pattern struct {
	ID          ID             `json:"id"`
	Kind        Kind           `json:"kind"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Domain      string         `json:"domain,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewPattern creates a pattern with full validation. The domain label is
// optional; patterns without one belong to no domain.
func NewPattern(kind Kind, name, description, domain string, tags ...string) (*Pattern, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.NewValidation("unknown pattern kind: " + string(kind))
	}
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.NewValidation("pattern name cannot be empty")
	}

	return &Pattern{
		ID:          NewID(),
		Kind:        kind,
		Name:        strings.TrimSpace(name),
		Description: description,
		Domain:      strings.TrimSpace(domain),
		Tags:        dedupeTags(tags),
		Metadata:    make(map[string]any),
	}, nil
}

// NewProperty creates a Property pattern.
func NewProperty(name, description, domain string, tags ...string) (*Pattern, error) {
	return NewPattern(KindProperty, name, description, domain, tags...)
}

// NewProcess creates a Process pattern.
func NewProcess(name, description, domain string, tags ...string) (*Pattern, error) {
	return NewPattern(KindProcess, name, description, domain, tags...)
}

// NewPerspective creates a Perspective pattern.
func NewPerspective(name, description, domain string, tags ...string) (*Pattern, error) {
	return NewPattern(KindPerspective, name, description, domain, tags...)
}

// NormalizedName returns the lower-cased name used as the pattern's identity
// for similarity and common-pattern analysis.
func (p *Pattern) NormalizedName() string {
	return NormalizeName(p.Name)
}

// HasDomain reports whether the pattern carries a domain label.
func (p *Pattern) HasDomain() bool {
	return p.Domain != ""
}

// dedupeTags normalizes tags to a sorted set without empty entries.
func dedupeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	sort.Strings(result)
	return result
}
