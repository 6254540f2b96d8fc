package graph

import (
	"fmt"
	"math"
	"sort"
)

// contraction records a cycle collapsed into a virtual node, so the
// solution of the contracted graph can be expanded back.
type contraction struct {
	minEdges   []*Edge
	cycle      []int
	virtual    int
	contracted *Graph
}

// decoder owns the edge registry shared by all contraction levels.
// Every edge seen by the decoder has a unique id indexing edges; parent
// maps a contracted edge id to the id of the edge it replaced one level
// down (-1 for edges of the input graph).
type decoder struct {
	edges  []Edge
	parent []int
}

// CLE finds the minimum cost spanning arborescence rooted at node 0 using
// the Chu-Liu-Edmonds algorithm. The result holds Length-1 edges of g,
// one per non-root node, ordered by target.
//
// Among equal cost incoming edges the one appearing first in g.Edges wins,
// so the result is deterministic for a given edge order. Edges into the
// root and self loops are ignored.
func (g *Graph) CLE() ([]Edge, error) {
	if g.Length <= 1 {
		return []Edge{}, nil
	}
	d := &decoder{
		edges:  make([]Edge, len(g.Edges), 2*len(g.Edges)),
		parent: make([]int, len(g.Edges), 2*len(g.Edges)),
	}
	level := &Graph{Length: g.Length, Edges: make([]Edge, 0, len(g.Edges))}
	for i, e := range g.Edges {
		if e.Origin < 0 || e.Origin >= g.Length || e.Target < 0 || e.Target >= g.Length {
			return nil, fmt.Errorf("%w: edge %v in graph of %d nodes", ErrNodeOutOfRange, e, g.Length)
		}
		e.ID = i
		d.edges[i] = e
		d.parent[i] = -1
		if e.Target != 0 && e.Origin != e.Target {
			level.Edges = append(level.Edges, e)
		}
	}

	alive := make([]bool, g.Length)
	for n := 1; n < g.Length; n++ {
		alive[n] = true
	}

	var (
		stack []*contraction
		tree  []Edge
	)
	for {
		minEdges, err := minIncoming(level, alive)
		if err != nil {
			return nil, err
		}
		cycle := findCycle(minEdges, alive)
		if cycle == nil {
			tree = make([]Edge, 0, len(minEdges))
			for _, e := range minEdges {
				if e != nil {
					tree = append(tree, *e)
				}
			}
			break
		}
		c := d.contract(level, minEdges, cycle)
		stack = append(stack, c)
		for _, n := range cycle {
			alive[n] = false
		}
		alive = append(alive, true)
		level = c.contracted
	}

	for i := len(stack) - 1; i >= 0; i-- {
		tree = d.expand(stack[i], tree)
	}

	result := make([]Edge, len(tree))
	for i, e := range tree {
		result[i] = g.Edges[e.ID]
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Target < result[j].Target
	})
	return result, nil
}

// minIncoming selects the cheapest incoming edge of every live node,
// keeping the first one on ties.
func minIncoming(level *Graph, alive []bool) ([]*Edge, error) {
	minEdges := make([]*Edge, level.Length)
	for i := range level.Edges {
		e := &level.Edges[i]
		if cur := minEdges[e.Target]; cur == nil || e.Cost < cur.Cost {
			minEdges[e.Target] = e
		}
	}
	for n := 1; n < level.Length; n++ {
		if alive[n] && minEdges[n] == nil {
			return nil, fmt.Errorf("%w: node %d of %d", ErrMissingIncomingEdge, n, level.Length)
		}
	}
	return minEdges, nil
}

// findCycle follows the min edge origins from each live node in turn and
// returns the nodes of the first cycle leading back to its start node,
// or nil if the min edges form a tree.
func findCycle(minEdges []*Edge, alive []bool) []int {
	onPath := make([]bool, len(minEdges))
	for n := 1; n < len(minEdges); n++ {
		if !alive[n] {
			continue
		}
		path := []int{n}
		onPath[n] = true
		found := false
		for cur := n; ; {
			origin := minEdges[cur].Origin
			if origin == n {
				found = true
				break
			}
			if origin == 0 || onPath[origin] {
				break
			}
			path = append(path, origin)
			onPath[origin] = true
			cur = origin
		}
		if found {
			return path
		}
		for _, p := range path {
			onPath[p] = false
		}
	}
	return nil
}

// reducedCost is the cost of entering a cycle node through an edge instead
// of through its min edge. A node whose cheapest edge is already infinite
// stays infinite.
func reducedCost(cost, base float64) float64 {
	if math.IsInf(base, 1) {
		return math.Inf(1)
	}
	return cost - base
}

// contract collapses cycle into the virtual node level.Length. For every
// (origin, target) pair only the cheapest edge is kept; a later edge
// replaces an earlier one only when strictly cheaper, and the pair keeps the
// position of its first occurrence.
func (d *decoder) contract(level *Graph, minEdges []*Edge, cycle []int) *contraction {
	virtual := level.Length
	inCycle := make([]bool, level.Length)
	for _, n := range cycle {
		inCycle[n] = true
	}
	contracted := &Graph{
		Length: level.Length + 1,
		Edges:  make([]Edge, 0, len(level.Edges)),
	}
	position := make(map[[2]int]int, len(level.Edges))
	for _, e := range level.Edges {
		origin, target, cost := e.Origin, e.Target, e.Cost
		switch {
		case inCycle[origin] && inCycle[target]:
			continue
		case inCycle[origin]:
			origin = virtual
		case inCycle[target]:
			target = virtual
			cost = reducedCost(e.Cost, minEdges[e.Target].Cost)
		}
		key := [2]int{origin, target}
		if i, seen := position[key]; seen {
			if cost < contracted.Edges[i].Cost {
				prev := &contracted.Edges[i]
				prev.Cost = cost
				prev.Label = e.Label
				d.edges[prev.ID] = *prev
				d.parent[prev.ID] = e.ID
			}
			continue
		}
		position[key] = len(contracted.Edges)
		contracted.Edges = append(contracted.Edges, d.derive(e, origin, target, cost))
	}
	return &contraction{
		minEdges:   minEdges,
		cycle:      cycle,
		virtual:    virtual,
		contracted: contracted,
	}
}

func (d *decoder) derive(from Edge, origin, target int, cost float64) Edge {
	e := Edge{
		ID:     len(d.edges),
		Origin: origin,
		Target: target,
		Cost:   cost,
		Label:  from.Label,
	}
	d.edges = append(d.edges, e)
	d.parent = append(d.parent, from.ID)
	return e
}

// expand maps a solution of c.contracted one level down: each edge is
// replaced by the edge it stood for, and the cycle is broken at the node
// entered through the virtual node.
func (d *decoder) expand(c *contraction, tree []Edge) []Edge {
	restored := make([]Edge, 0, len(tree)+len(c.cycle)-1)
	entered := -1
	if entry := c.contracted.GetEdge(ANY, c.virtual, tree); entry != nil {
		entered = d.edges[d.parent[entry.ID]].Target
	}
	for _, e := range tree {
		restored = append(restored, d.edges[d.parent[e.ID]])
	}
	for _, n := range c.cycle {
		if n != entered {
			restored = append(restored, *c.minEdges[n])
		}
	}
	return restored
}
