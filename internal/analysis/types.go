package analysis

import (
	"p3-backend/internal/domain/pattern"
)

// DomainComparison reports each domain's statistic vector together with the
// pooled-name Jaccard similarity matrix between all domains.
type DomainComparison struct {
	// Domains lists the domains in the row/column order of the matrix.
	Domains []string `json:"domains"`

	// Vectors holds one statistic row per domain: properties, processes,
	// perspectives, relationships.
	Vectors [][]float64 `json:"statistic_vectors"`

	// Similarity is the n x n Jaccard matrix over the pooled lower-cased
	// pattern names of each domain. The diagonal is always 1.0.
	Similarity [][]float64 `json:"similarity_matrix"`
}

// DomainPairStats aggregates the cross-domain relationships between one set
// of domains.
type DomainPairStats struct {
	Domains     []string `json:"domains"`
	Count       int      `json:"count"`
	AvgStrength float64  `json:"avg_strength"`
	MaxStrength float64  `json:"max_strength"`
	MinStrength float64  `json:"min_strength"`
}

// Connection describes one individual cross-domain relationship in the
// strongest-connections report.
type Connection struct {
	RelationshipID string   `json:"relationship_id"`
	Domains        []string `json:"domains"`
	Strength       float64  `json:"strength"`
	Confidence     float64  `json:"confidence"`
}

// CrossDomainAnalysis reports cross-domain relationships grouped by the
// domains they bridge, plus the strongest individual connections overall.
type CrossDomainAnalysis struct {
	Count                int               `json:"count"`
	Pairs                []DomainPairStats `json:"pairs"`
	StrongestConnections []Connection      `json:"strongest_connections"`
}

// CorrelationResult is the Pearson correlation matrix between the four
// domain statistic features, computed across all domain rows. With fewer
// than two domains every cell is NaN: the correlation is undefined and no
// value is fabricated.
type CorrelationResult struct {
	Features []string    `json:"features"`
	Domains  []string    `json:"domains"`
	Matrix   [][]float64 `json:"correlation_matrix"`
}

// CommonPattern is a pattern name shared by multiple domains within a single
// pattern kind.
type CommonPattern struct {
	Name        string   `json:"name"`
	DomainCount int      `json:"domain_count"`
	Domains     []string `json:"domains"`
}

// CommonPatternsResult groups shared pattern names by kind. Kinds are
// analyzed independently: a name shared as a property is unrelated to the
// same name appearing as a process.
type CommonPatternsResult struct {
	ByKind map[pattern.Kind][]CommonPattern `json:"by_kind"`
}

// KindSimilarityResult holds one per-kind Jaccard similarity matrix, unlike
// DomainComparison which pools all three kinds into one name set.
type KindSimilarityResult struct {
	Domains  []string                     `json:"domains"`
	Matrices map[pattern.Kind][][]float64 `json:"matrices"`
}

// FullReport bundles the five analyses keyed by name; it performs no
// additional computation.
type FullReport struct {
	DomainComparison *DomainComparison     `json:"domain_comparison"`
	CrossDomain      *CrossDomainAnalysis  `json:"cross_domain_relationships"`
	Correlation      *CorrelationResult    `json:"pattern_correlation"`
	CommonPatterns   *CommonPatternsResult `json:"common_patterns"`
	KindSimilarity   *KindSimilarityResult `json:"cross_domain_similarity"`
}
