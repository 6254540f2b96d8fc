package types

import "fmt"

const (
	ROOT_TOKEN = "ROOT"
	ROOT_POS   = "(ROOT)"
	NO_LEMMA   = "(none)"
	NO_POS     = "(NONE)"
	NO_HEAD    = -1
)

type DepRel string

func (d DepRel) String() string {
	return string(d)
}

// Arc is a candidate attachment of Dependent to Head.
type Arc struct {
	Head, Dependent int
}

func (a Arc) String() string {
	return fmt.Sprintf("%d->%d", a.Head, a.Dependent)
}

// Candidates calls f for every candidate arc of a sentence of length
// tokens (ROOT included): all heads, all non-root dependents, no self loops.
// Arcs are visited by head, then by dependent.
func Candidates(length int, f func(Arc)) {
	for h := 0; h < length; h++ {
		for d := 1; d < length; d++ {
			if h != d {
				f(Arc{h, d})
			}
		}
	}
}
