package generator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p3-backend/internal/analysis"
	"p3-backend/internal/domain/pattern"
	"p3-backend/internal/observability"
	"p3-backend/internal/registry"
	pkgerrors "p3-backend/pkg/errors"
)

// loadTwoDomains loads the fixture vocabulary used across generation tests.
func loadTwoDomains(t *testing.T, g *Generator) {
	t.Helper()
	path := writeFile(t, t.TempDir(), "vocab.yaml", `
domains:
  alpha:
    properties: [Privacy, Speed]
    processes: [Encrypt, Deploy]
    perspectives: [Legal, Technical]
  beta:
    properties: [Privacy, Liquidity]
    processes: [Audit]
    perspectives: [Legal]
`)
	require.Equal(t, 2, g.LoadVocabulary(path))
}

func TestGenerateForDomain(t *testing.T) {
	g := newTestGenerator()
	loadTwoDomains(t, g)
	col := pattern.NewCollection()

	result, err := g.GenerateForDomain(col, "alpha", 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 6, result.PatternsCreated)
	assert.Equal(t, 10, result.RelationshipsCreated+result.RelationshipsSkipped)
	assert.Equal(t, 6, col.PatternCount())
	assert.Equal(t, result.RelationshipsCreated, col.RelationshipCount())

	for _, p := range col.Patterns() {
		assert.Equal(t, "alpha", p.Domain)
	}
	for _, rel := range col.Relationships() {
		assert.GreaterOrEqual(t, rel.Strength.Value(), 0.0)
		assert.LessOrEqual(t, rel.Strength.Value(), 1.0)
		assert.GreaterOrEqual(t, rel.Confidence.Value(), 0.5)
		assert.LessOrEqual(t, rel.Confidence.Value(), 1.0)
		assert.GreaterOrEqual(t, rel.EndpointCount(), 1)
	}
}

func TestGenerateForDomain_DuplicateNamesCollapse(t *testing.T) {
	g := newTestGenerator()
	path := writeFile(t, t.TempDir(), "vocab.yaml", `
name: alpha
properties: [Privacy, privacy, PRIVACY]
processes: [Encrypt]
perspectives: [Legal]
`)
	require.Equal(t, 1, g.LoadVocabulary(path))

	col := pattern.NewCollection()
	result, err := g.GenerateForDomain(col, "alpha", 0, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.PatternsCreated)
	// The first spelling wins; only the identity is lower-cased.
	patterns := col.Patterns()
	assert.Equal(t, "Privacy", patterns[0].Name)
}

func TestGenerateForDomain_StrengthRange(t *testing.T) {
	g := newTestGenerator()
	loadTwoDomains(t, g)
	col := pattern.NewCollection()

	opts := &GenerateOptions{StrengthMin: 0.6, StrengthMax: 0.8, IncludeAllPatterns: true}
	result, err := g.GenerateForDomain(col, "alpha", 25, opts)
	require.NoError(t, err)

	assert.Equal(t, 25, result.RelationshipsCreated)
	assert.Zero(t, result.RelationshipsSkipped)
	for _, rel := range col.Relationships() {
		assert.GreaterOrEqual(t, rel.Strength.Value(), 0.6)
		assert.LessOrEqual(t, rel.Strength.Value(), 0.8)
		// IncludeAllPatterns fills every slot.
		assert.Equal(t, 3, rel.EndpointCount())
	}
}

func TestGenerateForDomain_InvertedStrengthRange(t *testing.T) {
	g := newTestGenerator()
	loadTwoDomains(t, g)

	opts := &GenerateOptions{StrengthMin: 0.8, StrengthMax: 0.2}
	_, err := g.GenerateForDomain(pattern.NewCollection(), "alpha", 2, opts)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestGenerateForDomain_DegenerateStrengthRange(t *testing.T) {
	g := newTestGenerator()
	loadTwoDomains(t, g)
	col := pattern.NewCollection()

	opts := &GenerateOptions{StrengthMin: 0.5, StrengthMax: 0.5, IncludeAllPatterns: true}
	result, err := g.GenerateForDomain(col, "alpha", 5, opts)
	require.NoError(t, err)

	assert.Equal(t, 5, result.RelationshipsCreated)
	for _, rel := range col.Relationships() {
		assert.Equal(t, 0.5, rel.Strength.Value())
	}
}

func TestGenerateForDomain_UnknownDomain(t *testing.T) {
	g := newTestGenerator()
	_, err := g.GenerateForDomain(pattern.NewCollection(), "nope", 3, nil)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGenerateForDomain_Reproducible(t *testing.T) {
	build := func(seed int64) *pattern.Collection {
		g := NewGenerator(nil, nil, nil, rand.New(rand.NewSource(seed)))
		loadTwoDomains(t, g)
		col := pattern.NewCollection()
		_, err := g.GenerateForDomain(col, "alpha", 8, nil)
		require.NoError(t, err)
		return col
	}

	first := build(7)
	second := build(7)

	require.Equal(t, first.RelationshipCount(), second.RelationshipCount())
	firstRels, secondRels := first.Relationships(), second.Relationships()
	for i := range firstRels {
		assert.Equal(t, firstRels[i].Strength, secondRels[i].Strength)
		assert.Equal(t, firstRels[i].Confidence, secondRels[i].Confidence)
		assert.Equal(t, firstRels[i].EndpointCount(), secondRels[i].EndpointCount())
	}
}

func TestGenerateMultiDomain(t *testing.T) {
	g := newTestGenerator()
	loadTwoDomains(t, g)
	col := pattern.NewCollection()

	result, err := g.GenerateMultiDomain(col, nil, 5)
	require.NoError(t, err)

	assert.Equal(t, 10, result.PatternsCreated)
	assert.Equal(t, 10, result.RelationshipsCreated+result.RelationshipsSkipped)
}

func TestGenerateMultiDomain_SkipsUnknownDomains(t *testing.T) {
	g := newTestGenerator()
	loadTwoDomains(t, g)
	col := pattern.NewCollection()

	result, err := g.GenerateMultiDomain(col, []string{"alpha", "ghost"}, 2)
	require.NoError(t, err)

	assert.Equal(t, 6, result.PatternsCreated)
}

func TestGenerateCrossDomainConnections(t *testing.T) {
	g := newTestGenerator()
	loadTwoDomains(t, g)
	col := pattern.NewCollection()
	_, err := g.GenerateMultiDomain(col, nil, 0)
	require.NoError(t, err)

	const requested = 20
	result, err := g.GenerateCrossDomainConnections(col, requested, 0.4)
	require.NoError(t, err)

	assert.Equal(t, requested, result.RelationshipsCreated+result.RelationshipsSkipped)
	assert.Positive(t, result.RelationshipsCreated)

	reg := registry.New(col)
	for _, rel := range col.Relationships() {
		require.True(t, rel.IsCrossDomain())
		assert.Equal(t, []string{"alpha", "beta"}, rel.CrossDomainNames())
		assert.GreaterOrEqual(t, rel.Strength.Value(), 0.4)
		assert.LessOrEqual(t, rel.Strength.Value(), 1.0)
		assert.GreaterOrEqual(t, rel.Confidence.Value(), 0.5)
		// The two-of-three rule.
		assert.GreaterOrEqual(t, rel.EndpointCount(), 2)

		// The metadata must not outrun resolution: the endpoints themselves
		// have to live in both domains.
		spanned, err := reg.RelationshipDomains(rel)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, spanned)
	}

	crossRels, err := reg.CrossDomainRelationships()
	require.NoError(t, err)
	assert.Len(t, crossRels, result.RelationshipsCreated)
}

func TestGenerateCrossDomainConnections_NeedsTwoDomains(t *testing.T) {
	g := newTestGenerator()
	loadTwoDomains(t, g)
	col := pattern.NewCollection()
	_, err := g.GenerateMultiDomain(col, []string{"alpha"}, 0)
	require.NoError(t, err)

	_, err = g.GenerateCrossDomainConnections(col, 3, 0.3)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestGenerator_MetricsAreOptionalButCounted(t *testing.T) {
	metrics := observability.NewCollector("p3_test")
	g := NewGenerator(nil, nil, metrics, rand.New(rand.NewSource(1)))
	loadTwoDomains(t, g)
	col := pattern.NewCollection()

	result, err := g.GenerateForDomain(col, "beta", 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, result.RelationshipsCreated+result.RelationshipsSkipped)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["p3_test_patterns_created_total"])
}

// TestEndToEndScenario exercises the documented two-domain flow: shared
// "Privacy" and "Legal" vocabulary, intra-domain generation, cross-domain
// connections, then the full analysis stack.
func TestEndToEndScenario(t *testing.T) {
	g := NewGenerator(nil, nil, nil, rand.New(rand.NewSource(99)))
	path := writeFile(t, t.TempDir(), "vocab.yaml", `
domains:
  A:
    properties: [Privacy]
    processes: [Encrypt]
    perspectives: [Legal]
  B:
    properties: [Privacy]
    processes: [Audit]
    perspectives: [Legal]
`)
	require.Equal(t, 2, g.LoadVocabulary(path))

	col := pattern.NewCollection()
	_, err := g.GenerateMultiDomain(col, nil, 5)
	require.NoError(t, err)

	crossResult, err := g.GenerateCrossDomainConnections(col, 3, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 3, crossResult.RelationshipsCreated+crossResult.RelationshipsSkipped)

	analyzer := analysis.NewAnalyzer(col, nil, nil)

	comparison, err := analyzer.CompareDomains()
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, comparison.Domains)
	assert.Greater(t, comparison.Similarity[0][1], 0.0, "shared Privacy and Legal names")

	common, err := analyzer.DetectCommonPatterns()
	require.NoError(t, err)
	properties := common.ByKind[pattern.KindProperty]
	require.Len(t, properties, 1)
	assert.Equal(t, "privacy", properties[0].Name)
	assert.Equal(t, 2, properties[0].DomainCount)
	perspectives := common.ByKind[pattern.KindPerspective]
	require.Len(t, perspectives, 1)
	assert.Equal(t, "legal", perspectives[0].Name)
	assert.Equal(t, 2, perspectives[0].DomainCount)

	crossAnalysis, err := analyzer.AnalyzeCrossDomainRelationships()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, crossAnalysis.Count, crossResult.RelationshipsCreated)
	assert.LessOrEqual(t, crossAnalysis.Count, 3+5+5)
	if crossResult.RelationshipsCreated > 0 {
		found := false
		for _, pair := range crossAnalysis.Pairs {
			if len(pair.Domains) == 2 && pair.Domains[0] == "A" && pair.Domains[1] == "B" {
				found = true
			}
		}
		assert.True(t, found, "expected an (A, B) domain pair")
	}
}
