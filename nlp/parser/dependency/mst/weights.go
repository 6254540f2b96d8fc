package mst

import (
	"sort"

	nlp "github.com/Olnarrosh/dependency-parser/nlp/types"
)

// WeightTable counts how often a feature co-occurs with a relation label.
type WeightTable map[int]map[nlp.DepRel]int

func (w WeightTable) Increment(feature int, label nlp.DepRel) {
	labels, exists := w[feature]
	if !exists {
		labels = make(map[nlp.DepRel]int, 1)
		w[feature] = labels
	}
	labels[label] += 1
}

func (w WeightTable) Get(feature int, label nlp.DepRel) int {
	return w[feature][label]
}

// Sum is the total count over all features and labels.
func (w WeightTable) Sum() int {
	var total int
	for _, labels := range w {
		for _, count := range labels {
			total += count
		}
	}
	return total
}

// Merge adds the counts of other into w.
func (w WeightTable) Merge(other WeightTable) {
	for feature, labels := range other {
		for label, count := range labels {
			cur, exists := w[feature]
			if !exists {
				cur = make(map[nlp.DepRel]int, len(labels))
				w[feature] = cur
			}
			cur[label] += count
		}
	}
}

// Labels returns the labels seen with any feature, sorted.
func (w WeightTable) Labels() []nlp.DepRel {
	set := make(map[nlp.DepRel]bool)
	for _, labels := range w {
		for label := range labels {
			set[label] = true
		}
	}
	retval := make([]nlp.DepRel, 0, len(set))
	for label := range set {
		retval = append(retval, label)
	}
	sort.Slice(retval, func(i, j int) bool { return retval[i] < retval[j] })
	return retval
}
