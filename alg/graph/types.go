package graph

import "fmt"

// ANY matches every origin or target in GetEdge.
const ANY = -1

// Edge is a directed, labeled arc from Origin (head) to Target (dependent).
// Cost is minimized by the decoder.
type Edge struct {
	ID     int
	Origin int
	Target int
	Cost   float64
	Label  string
}

func (e Edge) String() string {
	return fmt.Sprintf("%d -(%s : %v)-> %d", e.Origin, e.Label, e.Cost, e.Target)
}

// Graph is a directed multigraph over the nodes 0..Length-1, node 0 is the root.
type Graph struct {
	Length int
	Edges  []Edge
}

func NewGraph(length int, capacity int) *Graph {
	return &Graph{
		Length: length,
		Edges:  make([]Edge, 0, capacity),
	}
}

// AddEdge appends an edge, its ID is its position in Edges.
func (g *Graph) AddEdge(origin, target int, cost float64, label string) Edge {
	edge := Edge{
		ID:     len(g.Edges),
		Origin: origin,
		Target: target,
		Cost:   cost,
		Label:  label,
	}
	g.Edges = append(g.Edges, edge)
	return edge
}

// GetEdge returns the first edge in edges (or in g.Edges when edges is nil)
// matching origin and target, either of which may be ANY.
// Returns nil if there is no such edge.
func (g *Graph) GetEdge(origin, target int, edges []Edge) *Edge {
	if edges == nil {
		edges = g.Edges
	}
	for i := range edges {
		if (origin == ANY || edges[i].Origin == origin) && (target == ANY || edges[i].Target == target) {
			return &edges[i]
		}
	}
	return nil
}

func (g *Graph) NumberOfEdges() int {
	return len(g.Edges)
}

// TotalCost sums the cost of edges.
func TotalCost(edges []Edge) float64 {
	var total float64
	for _, e := range edges {
		total += e.Cost
	}
	return total
}
