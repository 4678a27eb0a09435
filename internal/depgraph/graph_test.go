package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ue5faststartup/internal/assets"
)

func TestAddNodeAndEdgeCounts(t *testing.T) {
	g := New()
	g.AddNode("A.uasset", assets.Package)
	g.AddNode("B.uasset", assets.Package)
	g.AddEdge("A.uasset", "B.uasset")

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, []string{"B.uasset"}, g.Dependencies("A.uasset"))
	assert.Equal(t, []string{"A.uasset"}, g.Dependents("B.uasset"))
}

func TestAddEdgeDropsUnknownEndpoints(t *testing.T) {
	g := New()
	g.AddNode("A.uasset", assets.Package)
	g.AddEdge("A.uasset", "Ghost.uasset")
	assert.Equal(t, 0, g.EdgeCount())
}

func TestComputeLoadOrderAcyclicRespectsEdges(t *testing.T) {
	g := New()
	g.AddNode("A.uasset", assets.Package)
	g.AddNode("B.uasset", assets.Package)
	g.AddEdge("A.uasset", "B.uasset") // A imports B

	g.ComputeLoadOrder()
	assert.True(t, g.Acyclic())

	rankB, ok := g.Rank("B.uasset")
	require.True(t, ok)
	rankA, ok := g.Rank("A.uasset")
	require.True(t, ok)
	assert.Less(t, rankB, rankA)
}

func TestComputeLoadOrderCycleFallsBackToStableOrder(t *testing.T) {
	g := New()
	g.AddNode("A.uasset", assets.Package)
	g.AddNode("B.uasset", assets.Package)
	g.AddEdge("A.uasset", "B.uasset")
	g.AddEdge("B.uasset", "A.uasset")

	g.ComputeLoadOrder()
	assert.False(t, g.Acyclic())

	rankA, ok := g.Rank("A.uasset")
	require.True(t, ok)
	rankB, ok := g.Rank("B.uasset")
	require.True(t, ok)
	assert.Equal(t, 0, rankA)
	assert.Equal(t, 1, rankB)
}

func TestFilterStartupCriticalPrunesUnreachable(t *testing.T) {
	g := New()
	g.AddNode("Maps/Startup.umap", assets.Map)
	g.AddNode("Characters/Hero.uasset", assets.Package)
	g.AddNode("Debug/Unused.uasset", assets.Package)
	g.AddEdge("Maps/Startup.umap", "Characters/Hero.uasset")

	g.FilterStartupCritical(nil)

	assert.Equal(t, 2, g.NodeCount())
	assert.True(t, g.IsCritical("Maps/Startup.umap"))
	assert.True(t, g.IsCritical("Characters/Hero.uasset"))
	assert.False(t, g.IsCritical("Debug/Unused.uasset"))
	assert.Equal(t, []string{"Characters/Hero.uasset"}, g.Dependencies("Maps/Startup.umap"))
}

func TestToDotIncludesNodesAndEdges(t *testing.T) {
	g := New()
	g.AddNode("A.uasset", assets.Package)
	g.AddNode("B.uasset", assets.Package)
	g.AddEdge("A.uasset", "B.uasset")

	dot := g.ToDot()
	assert.Contains(t, dot, "digraph dependencies")
	assert.Contains(t, dot, `"A.uasset" -> "B.uasset"`)
}
