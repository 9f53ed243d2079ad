package pattern

import (
	"sort"

	pkgerrors "p3-backend/pkg/errors"
)

// Metadata keys used by convention on relationships that span domains.
const (
	MetaCrossDomain = "cross_domain"
	MetaDomains     = "domains"
)

// Relationship connects at most one Property, one Process, and one
// Perspective by identifier. Each slot is independently optional, but at
// least one must be populated. Strength measures how strongly the connected
// patterns co-occur, confidence the certainty of that assessment; both are
// always clamped to [0.0, 1.0]. A relationship's identity is independent of
// its endpoints.
type Relationship struct {
	ID            ID             `json:"id"`
	PropertyID    ID             `json:"property_id,omitempty"`
	ProcessID     ID             `json:"process_id,omitempty"`
	PerspectiveID ID             `json:"perspective_id,omitempty"`
	Strength      Score          `json:"strength"`
	Confidence    Score          `json:"confidence"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// NewRelationship creates a relationship between the given pattern slots.
// Unfilled slots are passed as the zero ID. A relationship with no populated
// slot is meaningless and rejected.
func NewRelationship(propertyID, processID, perspectiveID ID, strength, confidence float64) (*Relationship, error) {
	if propertyID.IsEmpty() && processID.IsEmpty() && perspectiveID.IsEmpty() {
		return nil, pkgerrors.NewValidation("relationship must reference at least one pattern")
	}

	return &Relationship{
		ID:            NewID(),
		PropertyID:    propertyID,
		ProcessID:     processID,
		PerspectiveID: perspectiveID,
		Strength:      NewScore(strength),
		Confidence:    NewScore(confidence),
		Metadata:      make(map[string]any),
	}, nil
}

// EndpointIDs returns the populated endpoint identifiers in slot order
// (property, process, perspective).
func (r *Relationship) EndpointIDs() []ID {
	ids := make([]ID, 0, 3)
	for _, id := range []ID{r.PropertyID, r.ProcessID, r.PerspectiveID} {
		if !id.IsEmpty() {
			ids = append(ids, id)
		}
	}
	return ids
}

// EndpointCount returns the number of populated slots.
func (r *Relationship) EndpointCount() int {
	return len(r.EndpointIDs())
}

// MarkCrossDomain records the cross-domain convention in the relationship
// metadata: a boolean flag and the sorted list of domains involved.
func (r *Relationship) MarkCrossDomain(domains ...string) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	sorted := append([]string(nil), domains...)
	sort.Strings(sorted)
	r.Metadata[MetaCrossDomain] = true
	r.Metadata[MetaDomains] = sorted
}

// IsCrossDomain reports whether the relationship carries the cross-domain
// metadata flag.
func (r *Relationship) IsCrossDomain() bool {
	flag, ok := r.Metadata[MetaCrossDomain].(bool)
	return ok && flag
}

// CrossDomainNames returns the domain names recorded in the cross-domain
// metadata, or nil when the relationship is not marked.
func (r *Relationship) CrossDomainNames() []string {
	domains, ok := r.Metadata[MetaDomains].([]string)
	if !ok {
		return nil
	}
	return domains
}
