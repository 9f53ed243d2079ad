package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p3-backend/internal/domain/pattern"
	pkgerrors "p3-backend/pkg/errors"
)

// addPattern is a test helper that creates and stores one pattern.
func addPattern(t *testing.T, col *pattern.Collection, kind pattern.Kind, name, domain string) *pattern.Pattern {
	t.Helper()
	p, err := pattern.NewPattern(kind, name, "", domain)
	require.NoError(t, err)
	require.NoError(t, col.AddPattern(p))
	return p
}

func addRelationship(t *testing.T, col *pattern.Collection, prop, proc, persp pattern.ID) *pattern.Relationship {
	t.Helper()
	rel, err := pattern.NewRelationship(prop, proc, persp, 0.5, 0.9)
	require.NoError(t, err)
	require.NoError(t, col.AddRelationship(rel))
	return rel
}

func TestRegistry_Domains(t *testing.T) {
	col := pattern.NewCollection()
	addPattern(t, col, pattern.KindProperty, "Privacy", "security")
	addPattern(t, col, pattern.KindProcess, "Audit", "finance")
	addPattern(t, col, pattern.KindProcess, "Encrypt", "security")
	addPattern(t, col, pattern.KindPerspective, "Floating", "")

	assert.Equal(t, []string{"finance", "security"}, New(col).Domains())
}

func TestRegistry_Domains_Empty(t *testing.T) {
	assert.Empty(t, New(pattern.NewCollection()).Domains())
}

func TestRegistry_PatternsByDomain(t *testing.T) {
	col := pattern.NewCollection()
	prop := addPattern(t, col, pattern.KindProperty, "Privacy", "security")
	addPattern(t, col, pattern.KindProperty, "Liquidity", "finance")
	proc := addPattern(t, col, pattern.KindProcess, "Encrypt", "security")

	partition := New(col).PatternsByDomain("security")

	require.Len(t, partition, 3)
	require.Len(t, partition[pattern.KindProperty], 1)
	assert.Same(t, prop, partition[pattern.KindProperty][0])
	require.Len(t, partition[pattern.KindProcess], 1)
	assert.Same(t, proc, partition[pattern.KindProcess][0])
	assert.Empty(t, partition[pattern.KindPerspective])
}

func TestRegistry_DomainStatistics_CountsMatchMembership(t *testing.T) {
	const n = 4

	col := pattern.NewCollection()
	var props, procs, persps []*pattern.Pattern
	for i := 0; i < n; i++ {
		props = append(props, addPattern(t, col, pattern.KindProperty, "Prop"+string(rune('A'+i)), "security"))
		procs = append(procs, addPattern(t, col, pattern.KindProcess, "Proc"+string(rune('A'+i)), "security"))
		persps = append(persps, addPattern(t, col, pattern.KindPerspective, "Persp"+string(rune('A'+i)), "security"))
	}
	outsider := addPattern(t, col, pattern.KindProperty, "Liquidity", "finance")

	// Two relationships fully inside security, one bridging to finance.
	addRelationship(t, col, props[0].ID, procs[0].ID, persps[0].ID)
	addRelationship(t, col, props[1].ID, procs[1].ID, pattern.ID{})
	addRelationship(t, col, outsider.ID, procs[2].ID, pattern.ID{})

	stats, err := New(col).DomainStatistics("security")
	require.NoError(t, err)

	assert.Equal(t, n, stats.NumProperties)
	assert.Equal(t, n, stats.NumProcesses)
	assert.Equal(t, n, stats.NumPerspectives)
	assert.Equal(t, 2, stats.NumRelationships)
	assert.Equal(t, []float64{n, n, n, 2}, stats.Vector())
}

func TestRegistry_CrossDomainRelationships(t *testing.T) {
	col := pattern.NewCollection()
	secProp := addPattern(t, col, pattern.KindProperty, "Privacy", "security")
	secProc := addPattern(t, col, pattern.KindProcess, "Encrypt", "security")
	finProc := addPattern(t, col, pattern.KindProcess, "Audit", "finance")

	addRelationship(t, col, secProp.ID, secProc.ID, pattern.ID{})
	bridge := addRelationship(t, col, secProp.ID, finProc.ID, pattern.ID{})

	reg := New(col)
	crossDomain, err := reg.CrossDomainRelationships()
	require.NoError(t, err)

	require.Len(t, crossDomain, 1)
	assert.Equal(t, bridge.ID, crossDomain[0].ID)

	domains, err := reg.RelationshipDomains(bridge)
	require.NoError(t, err)
	assert.Equal(t, []string{"finance", "security"}, domains)
}

func TestRegistry_RelationshipsForDomain(t *testing.T) {
	col := pattern.NewCollection()
	secProp := addPattern(t, col, pattern.KindProperty, "Privacy", "security")
	finProc := addPattern(t, col, pattern.KindProcess, "Audit", "finance")

	addRelationship(t, col, secProp.ID, finProc.ID, pattern.ID{})
	addRelationship(t, col, pattern.ID{}, finProc.ID, pattern.ID{})

	reg := New(col)

	secRels, err := reg.RelationshipsForDomain("security")
	require.NoError(t, err)
	assert.Len(t, secRels, 1)

	finRels, err := reg.RelationshipsForDomain("finance")
	require.NoError(t, err)
	assert.Len(t, finRels, 2)
}

func TestRegistry_DanglingEndpointFailsComputation(t *testing.T) {
	col := pattern.NewCollection()
	addPattern(t, col, pattern.KindProperty, "Privacy", "security")

	rel, err := pattern.NewRelationship(pattern.NewID(), pattern.ID{}, pattern.ID{}, 0.5, 0.9)
	require.NoError(t, err)
	require.NoError(t, col.AddRelationship(rel))

	reg := New(col)

	_, err = reg.DomainStatistics("security")
	assert.True(t, pkgerrors.IsDanglingReference(err))

	_, err = reg.CrossDomainRelationships()
	assert.True(t, pkgerrors.IsDanglingReference(err))
}
