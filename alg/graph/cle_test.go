package graph_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Olnarrosh/dependency-parser/alg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heads returns the origin of the incoming tree edge of every node, -1 for the root.
func heads(length int, tree []graph.Edge) []int {
	retval := make([]int, length)
	retval[0] = -1
	for _, e := range tree {
		retval[e.Target] = e.Origin
	}
	return retval
}

// assertArborescence checks that tree spans the graph from node 0 with a
// single incoming edge per node and no cycles.
func assertArborescence(t *testing.T, length int, tree []graph.Edge) {
	t.Helper()
	require.Len(t, tree, length-1)
	head := make([]int, length)
	seen := make([]bool, length)
	for _, e := range tree {
		require.NotEqual(t, 0, e.Target, "root has an incoming edge")
		require.False(t, seen[e.Target], "node %d has two incoming edges", e.Target)
		seen[e.Target] = true
		head[e.Target] = e.Origin
	}
	for n := 1; n < length; n++ {
		cur, steps := n, 0
		for cur != 0 {
			cur = head[cur]
			steps++
			require.LessOrEqual(t, steps, length, "node %d does not reach the root", n)
		}
	}
}

// bruteForce enumerates every choice of one incoming edge per non-root node
// and returns the cost of the cheapest choice forming an arborescence.
func bruteForce(g *graph.Graph) (float64, bool) {
	incoming := make([][]graph.Edge, g.Length)
	for _, e := range g.Edges {
		if e.Target != 0 && e.Origin != e.Target {
			incoming[e.Target] = append(incoming[e.Target], e)
		}
	}
	best, found := math.Inf(1), false
	choice := make([]graph.Edge, g.Length)
	var rec func(n int)
	rec = func(n int) {
		if n == g.Length {
			for start := 1; start < g.Length; start++ {
				cur, steps := start, 0
				for cur != 0 {
					cur = choice[cur].Origin
					steps++
					if steps > g.Length {
						return
					}
				}
			}
			if total := graph.TotalCost(choice[1:]); !found || total < best {
				best, found = total, true
			}
			return
		}
		for _, e := range incoming[n] {
			choice[n] = e
			rec(n + 1)
		}
	}
	rec(1)
	return best, found
}

// randomGraph builds a graph on length nodes that always contains a spanning
// arborescence, with integer costs in [0, 10) so ties are frequent.
func randomGraph(r *rand.Rand, length int, density float64) *graph.Graph {
	g := graph.NewGraph(length, length*length)
	for d := 1; d < length; d++ {
		g.AddEdge(r.Intn(d), d, float64(r.Intn(10)), "tree")
	}
	for h := 0; h < length; h++ {
		for d := 1; d < length; d++ {
			if h != d && r.Float64() < density {
				g.AddEdge(h, d, float64(r.Intn(10)), "extra")
			}
		}
	}
	r.Shuffle(len(g.Edges), func(i, j int) {
		g.Edges[i], g.Edges[j] = g.Edges[j], g.Edges[i]
	})
	for i := range g.Edges {
		g.Edges[i].ID = i
	}
	return g
}

func completeGraph(length int, cost func(h, d int) float64) *graph.Graph {
	g := graph.NewGraph(length, length*length)
	for h := 0; h < length; h++ {
		for d := 1; d < length; d++ {
			if h != d {
				g.AddEdge(h, d, cost(h, d), "")
			}
		}
	}
	return g
}

func TestCLENoCycleReturnsMinEdges(t *testing.T) {
	g := graph.NewGraph(4, 6)
	g.AddEdge(0, 1, 1, "root")
	g.AddEdge(2, 1, 5, "x")
	g.AddEdge(1, 2, 2, "nsubj")
	g.AddEdge(0, 2, 3, "x")
	g.AddEdge(1, 3, 1, "dobj")
	g.AddEdge(2, 3, 4, "x")

	tree, err := g.CLE()
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{g.Edges[0], g.Edges[2], g.Edges[4]}, tree)
}

// The classic "root John saw Mary" example, scores turned into costs.
func TestCLEContractsCycle(t *testing.T) {
	g := graph.NewGraph(4, 9)
	g.AddEdge(0, 1, -9, "")
	g.AddEdge(0, 2, -10, "root")
	g.AddEdge(0, 3, -9, "")
	g.AddEdge(1, 2, -20, "")
	g.AddEdge(1, 3, -3, "")
	g.AddEdge(2, 1, -30, "nsubj")
	g.AddEdge(2, 3, -30, "dobj")
	g.AddEdge(3, 1, -11, "")
	g.AddEdge(3, 2, 0, "")

	tree, err := g.CLE()
	require.NoError(t, err)
	assertArborescence(t, g.Length, tree)
	assert.Equal(t, []int{-1, 2, 0, 2}, heads(g.Length, tree))
	assert.Equal(t, -70.0, graph.TotalCost(tree))
	assert.Equal(t, []string{"nsubj", "root", "dobj"}, []string{tree[0].Label, tree[1].Label, tree[2].Label})
}

func TestCLENestedCycles(t *testing.T) {
	// 1<->2 and 3<->4 are cheap two-cycles, 2<->3 joins them once contracted
	g := graph.NewGraph(5, 0)
	g.AddEdge(0, 1, 10, "")
	g.AddEdge(0, 2, 10, "")
	g.AddEdge(0, 3, 10, "")
	g.AddEdge(0, 4, 7, "")
	g.AddEdge(1, 2, 1, "")
	g.AddEdge(2, 1, 1, "")
	g.AddEdge(3, 4, 1, "")
	g.AddEdge(4, 3, 1, "")
	g.AddEdge(2, 3, 2, "")
	g.AddEdge(3, 2, 2, "")

	tree, err := g.CLE()
	require.NoError(t, err)
	assertArborescence(t, g.Length, tree)
	best, ok := bruteForce(g)
	require.True(t, ok)
	assert.Equal(t, best, graph.TotalCost(tree))
}

func TestCLEMissingIncomingEdge(t *testing.T) {
	g := graph.NewGraph(3, 1)
	g.AddEdge(0, 1, 1, "")
	_, err := g.CLE()
	assert.ErrorIs(t, err, graph.ErrMissingIncomingEdge)
}

func TestCLEUnreachableCycle(t *testing.T) {
	g := graph.NewGraph(4, 3)
	g.AddEdge(0, 1, 1, "")
	g.AddEdge(2, 3, 1, "")
	g.AddEdge(3, 2, 1, "")
	_, err := g.CLE()
	assert.ErrorIs(t, err, graph.ErrMissingIncomingEdge)
}

func TestCLENodeOutOfRange(t *testing.T) {
	g := graph.NewGraph(2, 1)
	g.AddEdge(0, 2, 1, "")
	_, err := g.CLE()
	assert.ErrorIs(t, err, graph.ErrNodeOutOfRange)
}

func TestCLETrivialGraphs(t *testing.T) {
	tree, err := graph.NewGraph(1, 0).CLE()
	require.NoError(t, err)
	assert.Empty(t, tree)

	g := graph.NewGraph(2, 1)
	g.AddEdge(0, 1, 3, "root")
	tree, err = g.CLE()
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{g.Edges[0]}, tree)
}

func TestCLEIgnoresRootTargetsAndSelfLoops(t *testing.T) {
	g := graph.NewGraph(3, 5)
	g.AddEdge(1, 0, -100, "")
	g.AddEdge(2, 2, -100, "")
	g.AddEdge(0, 1, 1, "")
	g.AddEdge(1, 2, 1, "")
	g.AddEdge(0, 2, 5, "")

	tree, err := g.CLE()
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 1}, heads(g.Length, tree))
}

func TestCLETieBreakFirstSeen(t *testing.T) {
	g := graph.NewGraph(3, 4)
	g.AddEdge(0, 1, 1, "first")
	g.AddEdge(2, 1, 1, "second")
	g.AddEdge(0, 2, 1, "first")
	g.AddEdge(1, 2, 1, "second")

	tree, err := g.CLE()
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{g.Edges[0], g.Edges[2]}, tree)
}

func TestCLEInfiniteCosts(t *testing.T) {
	inf := math.Inf(1)
	g := completeGraph(5, func(h, d int) float64 {
		if d == 2 || h == 3 {
			return inf
		}
		return float64((h*7 + d*3) % 5)
	})
	tree, err := g.CLE()
	require.NoError(t, err)
	assertArborescence(t, g.Length, tree)

	all := completeGraph(4, func(h, d int) float64 { return inf })
	tree, err = all.CLE()
	require.NoError(t, err)
	assertArborescence(t, all.Length, tree)
}

func TestCLEValidAndOptimal(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		length := 2 + r.Intn(4)
		g := randomGraph(r, length, r.Float64())

		tree, err := g.CLE()
		require.NoError(t, err)
		assertArborescence(t, length, tree)

		best, ok := bruteForce(g)
		require.True(t, ok)
		assert.Equal(t, best, graph.TotalCost(tree), "graph %d: %v", i, g.Edges)
	}
}

func TestCLEMultigraphOptimal(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		length := 3 + r.Intn(3)
		g := randomGraph(r, length, 0.8)
		// duplicate a few edges with different costs and labels
		for _, e := range g.Edges[:len(g.Edges)/2] {
			g.AddEdge(e.Origin, e.Target, float64(r.Intn(10)), "dup")
		}

		tree, err := g.CLE()
		require.NoError(t, err)
		assertArborescence(t, length, tree)
		best, _ := bruteForce(g)
		assert.Equal(t, best, graph.TotalCost(tree))
	}
}

func TestCLEDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		g := randomGraph(r, 2+r.Intn(8), 0.7)
		first, err := g.CLE()
		require.NoError(t, err)
		for j := 0; j < 3; j++ {
			again, err := g.CLE()
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestCLEDoesNotModifyGraph(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	g := randomGraph(r, 6, 0.9)
	before := append([]graph.Edge(nil), g.Edges...)
	_, err := g.CLE()
	require.NoError(t, err)
	assert.Equal(t, before, g.Edges)
}

func TestCLELargeComplete(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	g := completeGraph(60, func(h, d int) float64 { return r.Float64() })
	tree, err := g.CLE()
	require.NoError(t, err)
	assertArborescence(t, g.Length, tree)
}

func BenchmarkCLE(b *testing.B) {
	r := rand.New(rand.NewSource(42))
	g := completeGraph(40, func(h, d int) float64 { return r.Float64() })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = g.CLE()
	}
}
