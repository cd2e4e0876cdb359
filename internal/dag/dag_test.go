package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	assert.Len(t, g.nodes, 1)
	nodeA, ok := g.nodes["a"]
	require.True(t, ok)
	assert.Equal(t, "a", nodeA.id)

	g.AddNode("a") // idempotent
	assert.Len(t, g.nodes, 1)

	g.AddNode("b")
	assert.Len(t, g.nodes, 2)
	assert.True(t, g.Contains("b"))
	assert.False(t, g.Contains("c"))
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("a", "b") // b is derived from a
		require.NoError(t, err)

		parents, err := g.Parents("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, parents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")

		err := g.AddEdge("dne", "a")
		assert.Error(t, err)

		err = g.AddEdge("a", "dne")
		assert.Error(t, err)

		err = g.AddEdge("a", "a")
		assert.Error(t, err)
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		g.AddNode("c")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple cycle", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))
		assert.Error(t, g.DetectCycles())
	})

	t.Run("deep cycle", func(t *testing.T) {
		g := New()
		for _, id := range []string{"a", "b", "c", "d"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("c", "d"))
		require.NoError(t, g.AddEdge("d", "b"))
		assert.Error(t, g.DetectCycles())
	})
}

func TestSort(t *testing.T) {
	t.Run("parents precede children", func(t *testing.T) {
		g := New()
		for _, id := range []string{"child", "base", "grandchild"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("base", "child"))
		require.NoError(t, g.AddEdge("child", "grandchild"))

		order, err := g.Sort()
		require.NoError(t, err)
		assert.Equal(t, []string{"base", "child", "grandchild"}, order)
	})

	t.Run("deterministic tie break by name", func(t *testing.T) {
		g := New()
		for _, id := range []string{"zeta", "alpha", "mid"} {
			g.AddNode(id)
		}

		order, err := g.Sort()
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "mid", "zeta"}, order)
	})

	t.Run("cycle is an error", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))

		_, err := g.Sort()
		assert.Error(t, err)
	})
}
