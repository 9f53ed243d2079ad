// Package analysis implements the meta-analyzer: five independent read-only
// analyses over the domain registry and relationship set, plus a combined
// report. Analyses never mutate input state; absence of domains or of
// cross-domain relationships is a normal empty result, never an error.
package analysis

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"p3-backend/internal/config"
	"p3-backend/internal/domain/pattern"
	"p3-backend/internal/registry"
)

// featureNames is the column order of every statistic vector.
var featureNames = []string{
	"num_properties",
	"num_processes",
	"num_perspectives",
	"num_relationships",
}

// Analyzer runs cross-domain analyses over a pattern collection.
type Analyzer struct {
	collection *pattern.Collection
	registry   *registry.Registry
	cfg        config.AnalysisConfig
	logger     *zap.Logger
}

// NewAnalyzer creates an analyzer over the given collection. A nil config or
// logger falls back to defaults.
func NewAnalyzer(collection *pattern.Collection, cfg *config.AnalysisConfig, logger *zap.Logger) *Analyzer {
	if cfg == nil {
		defaults := config.DefaultAnalysisConfig()
		cfg = &defaults
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		collection: collection,
		registry:   registry.New(collection),
		cfg:        *cfg,
		logger:     logger,
	}
}

// CompareDomains emits each domain's statistic vector and the Jaccard
// similarity matrix over the pooled lower-cased names of all patterns per
// domain. With no domains the result carries empty lists and no matrix.
func (a *Analyzer) CompareDomains() (*DomainComparison, error) {
	domains := a.registry.Domains()
	result := &DomainComparison{
		Domains: domains,
		Vectors: [][]float64{},
	}
	if len(domains) == 0 {
		return result, nil
	}

	for _, domain := range domains {
		stats, err := a.registry.DomainStatistics(domain)
		if err != nil {
			return nil, err
		}
		result.Vectors = append(result.Vectors, stats.Vector())
	}

	sets := make([]map[string]bool, len(domains))
	for i, domain := range domains {
		sets[i] = a.pooledNameSet(domain)
	}

	// Both triangles computed independently; symmetry follows from the
	// metric itself.
	result.Similarity = make([][]float64, len(domains))
	for i := range domains {
		result.Similarity[i] = make([]float64, len(domains))
		for j := range domains {
			if i == j {
				result.Similarity[i][j] = 1.0
			} else {
				result.Similarity[i][j] = jaccard(sets[i], sets[j])
			}
		}
	}

	a.logger.Debug("compared domains", zap.Int("domains", len(domains)))
	return result, nil
}

// AnalyzeCrossDomainRelationships groups cross-domain relationships by the
// sorted set of domains they bridge and reports per-group strength
// aggregates plus the strongest individual connections overall.
func (a *Analyzer) AnalyzeCrossDomainRelationships() (*CrossDomainAnalysis, error) {
	rels, err := a.registry.CrossDomainRelationships()
	if err != nil {
		return nil, err
	}

	result := &CrossDomainAnalysis{
		Count:                len(rels),
		Pairs:                []DomainPairStats{},
		StrongestConnections: []Connection{},
	}
	if len(rels) == 0 {
		return result, nil
	}

	type group struct {
		domains   []string
		strengths []float64
	}
	groups := make(map[string]*group)
	connections := make([]Connection, 0, len(rels))

	for _, rel := range rels {
		domains, err := a.registry.RelationshipDomains(rel)
		if err != nil {
			return nil, err
		}

		key := strings.Join(domains, "\x00")
		g, ok := groups[key]
		if !ok {
			g = &group{domains: domains}
			groups[key] = g
		}
		g.strengths = append(g.strengths, rel.Strength.Value())

		connections = append(connections, Connection{
			RelationshipID: rel.ID.String(),
			Domains:        domains,
			Strength:       rel.Strength.Value(),
			Confidence:     rel.Confidence.Value(),
		})
	}

	for _, g := range groups {
		stats := DomainPairStats{
			Domains:     g.domains,
			Count:       len(g.strengths),
			MaxStrength: g.strengths[0],
			MinStrength: g.strengths[0],
		}
		var sum float64
		for _, s := range g.strengths {
			sum += s
			if s > stats.MaxStrength {
				stats.MaxStrength = s
			}
			if s < stats.MinStrength {
				stats.MinStrength = s
			}
		}
		stats.AvgStrength = sum / float64(len(g.strengths))
		result.Pairs = append(result.Pairs, stats)
	}

	sort.Slice(result.Pairs, func(i, j int) bool {
		if result.Pairs[i].Count != result.Pairs[j].Count {
			return result.Pairs[i].Count > result.Pairs[j].Count
		}
		return strings.Join(result.Pairs[i].Domains, "\x00") < strings.Join(result.Pairs[j].Domains, "\x00")
	})

	sort.Slice(connections, func(i, j int) bool {
		if connections[i].Strength != connections[j].Strength {
			return connections[i].Strength > connections[j].Strength
		}
		return connections[i].RelationshipID < connections[j].RelationshipID
	})
	if len(connections) > a.cfg.TopConnections {
		connections = connections[:a.cfg.TopConnections]
	}
	result.StrongestConnections = connections

	return result, nil
}

// CorrelatePatternStatistics builds one statistic row per domain and
// computes the Pearson correlation matrix between the four feature columns
// across domains. With fewer than two domains every cell is NaN; with no
// domains the result is empty.
func (a *Analyzer) CorrelatePatternStatistics() (*CorrelationResult, error) {
	domains := a.registry.Domains()
	if len(domains) == 0 {
		return &CorrelationResult{Features: []string{}, Domains: []string{}}, nil
	}

	result := &CorrelationResult{
		Features: featureNames,
		Domains:  domains,
	}

	columns := make([][]float64, len(featureNames))
	for _, domain := range domains {
		stats, err := a.registry.DomainStatistics(domain)
		if err != nil {
			return nil, err
		}
		for i, value := range stats.Vector() {
			columns[i] = append(columns[i], value)
		}
	}

	if len(domains) < 2 {
		result.Matrix = nanMatrix(len(featureNames))
		return result, nil
	}

	result.Matrix = make([][]float64, len(featureNames))
	for i := range featureNames {
		result.Matrix[i] = make([]float64, len(featureNames))
		for j := range featureNames {
			result.Matrix[i][j] = pearson(columns[i], columns[j])
		}
	}

	return result, nil
}

// DetectCommonPatterns finds, independently per kind, the pattern names that
// appear in two or more domains, sorted by how many domains share them.
func (a *Analyzer) DetectCommonPatterns() (*CommonPatternsResult, error) {
	domains := a.registry.Domains()
	result := &CommonPatternsResult{
		ByKind: make(map[pattern.Kind][]CommonPattern, 3),
	}

	for _, kind := range pattern.Kinds() {
		nameDomains := make(map[string][]string)
		for _, domain := range domains {
			partition := a.registry.PatternsByDomain(domain)
			seen := make(map[string]bool)
			for _, p := range partition[kind] {
				name := p.NormalizedName()
				if seen[name] {
					continue
				}
				seen[name] = true
				nameDomains[name] = append(nameDomains[name], domain)
			}
		}

		common := []CommonPattern{}
		for name, shared := range nameDomains {
			if len(shared) < a.cfg.MinSharedDomains {
				continue
			}
			common = append(common, CommonPattern{
				Name:        name,
				DomainCount: len(shared),
				Domains:     shared,
			})
		}
		sort.Slice(common, func(i, j int) bool {
			if common[i].DomainCount != common[j].DomainCount {
				return common[i].DomainCount > common[j].DomainCount
			}
			return common[i].Name < common[j].Name
		})
		result.ByKind[kind] = common
	}

	return result, nil
}

// CompareDomainsByKind computes one Jaccard similarity matrix per pattern
// kind, each over that kind's lower-cased name sets per domain. This is a
// deliberately different similarity notion from CompareDomains, which pools
// all three kinds into one set.
func (a *Analyzer) CompareDomainsByKind() (*KindSimilarityResult, error) {
	domains := a.registry.Domains()
	result := &KindSimilarityResult{
		Domains:  domains,
		Matrices: make(map[pattern.Kind][][]float64, 3),
	}
	if len(domains) == 0 {
		return result, nil
	}

	for _, kind := range pattern.Kinds() {
		sets := make([]map[string]bool, len(domains))
		for i, domain := range domains {
			sets[i] = a.kindNameSet(domain, kind)
		}

		matrix := make([][]float64, len(domains))
		for i := range domains {
			matrix[i] = make([]float64, len(domains))
			for j := range domains {
				if i == j {
					matrix[i][j] = 1.0
				} else {
					matrix[i][j] = jaccard(sets[i], sets[j])
				}
			}
		}
		result.Matrices[kind] = matrix
	}

	return result, nil
}

// FullAnalysis runs all five analyses and bundles the results; it adds no
// computation of its own.
func (a *Analyzer) FullAnalysis() (*FullReport, error) {
	comparison, err := a.CompareDomains()
	if err != nil {
		return nil, err
	}
	crossDomain, err := a.AnalyzeCrossDomainRelationships()
	if err != nil {
		return nil, err
	}
	correlation, err := a.CorrelatePatternStatistics()
	if err != nil {
		return nil, err
	}
	common, err := a.DetectCommonPatterns()
	if err != nil {
		return nil, err
	}
	kindSimilarity, err := a.CompareDomainsByKind()
	if err != nil {
		return nil, err
	}

	return &FullReport{
		DomainComparison: comparison,
		CrossDomain:      crossDomain,
		Correlation:      correlation,
		CommonPatterns:   common,
		KindSimilarity:   kindSimilarity,
	}, nil
}

// pooledNameSet collects the lower-cased names of all patterns of a domain,
// all three kinds combined.
func (a *Analyzer) pooledNameSet(domain string) map[string]bool {
	names := make(map[string]bool)
	partition := a.registry.PatternsByDomain(domain)
	for _, kind := range pattern.Kinds() {
		for _, p := range partition[kind] {
			names[p.NormalizedName()] = true
		}
	}
	return names
}

// kindNameSet collects the lower-cased names of one kind's patterns of a
// domain.
func (a *Analyzer) kindNameSet(domain string, kind pattern.Kind) map[string]bool {
	names := make(map[string]bool)
	for _, p := range a.registry.PatternsByDomain(domain)[kind] {
		names[p.NormalizedName()] = true
	}
	return names
}
