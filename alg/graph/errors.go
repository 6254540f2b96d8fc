package graph

import "errors"

// ErrMissingIncomingEdge is returned by CLE when a non-root node has no
// incoming edge, so no spanning arborescence exists.
var ErrMissingIncomingEdge = errors.New("graph: node has no incoming edge")

// ErrNodeOutOfRange is returned by CLE when an edge refers to a node outside 0..Length-1.
var ErrNodeOutOfRange = errors.New("graph: edge node out of range")
