package mst

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/Olnarrosh/dependency-parser/alg/graph"
	"github.com/Olnarrosh/dependency-parser/eval"
	nlp "github.com/Olnarrosh/dependency-parser/nlp/types"
)

var (
	ErrNoPositiveExamples = errors.New("mst: no positive training examples")
	ErrNoNegativeExamples = errors.New("mst: no negative training examples")
	ErrMissingFeatures    = errors.New("mst: no features for candidate arc")
)

// Model scores candidate arcs by how often their features were seen on
// gold arcs (Positive) versus on all other candidate arcs (Negative).
//
// The cost of labeling an arc with l sums, over its features f,
// log(Negative[f][l]) - log(Positive[f][l] * Ratio). Ratio balances the
// O(n^2) negative arcs of a sentence against its O(n) gold arcs.
type Model struct {
	Positive, Negative WeightTable
	Ratio              float64
	Log                bool
}

func NewModel() *Model {
	return &Model{
		Positive: make(WeightTable),
		Negative: make(WeightTable),
		Ratio:    1,
	}
}

// Train counts the features of every candidate arc of the corpus against
// the gold relation of its dependent, then sets Ratio. Counts add to those
// of earlier calls. On error the model is left unchanged. A zero Model is
// ready to train.
func (m *Model) Train(corpus nlp.Corpus) error {
	positive, negative := make(WeightTable), make(WeightTable)
	for i, sent := range corpus {
		var err error
		nlp.Candidates(sent.Len(), func(arc nlp.Arc) {
			if err != nil {
				return
			}
			feats, exists := sent.Features[arc]
			if !exists {
				err = fmt.Errorf("%w: sentence %d arc %v", ErrMissingFeatures, i, arc)
				return
			}
			gold := sent.Tokens[arc.Dependent]
			weights := negative
			if gold.Head == arc.Head {
				weights = positive
			}
			for _, f := range feats {
				weights.Increment(f, gold.Relation)
			}
		})
		if err != nil {
			return err
		}
	}

	posTotal := m.Positive.Sum() + positive.Sum()
	negTotal := m.Negative.Sum() + negative.Sum()
	if posTotal == 0 {
		return fmt.Errorf("%w: ratio undefined for %d sentences", ErrNoPositiveExamples, len(corpus))
	}
	if negTotal == 0 {
		return fmt.Errorf("%w: ratio undefined for %d sentences", ErrNoNegativeExamples, len(corpus))
	}
	if m.Positive == nil {
		m.Positive = make(WeightTable, len(positive))
	}
	if m.Negative == nil {
		m.Negative = make(WeightTable, len(negative))
	}
	m.Positive.Merge(positive)
	m.Negative.Merge(negative)
	m.Ratio = float64(negTotal) / float64(posTotal)
	if m.Log {
		log.Println("Trained on", len(corpus), "sentences")
		log.Println("Positive features:", len(m.Positive), "total count", posTotal)
		log.Println("Negative features:", len(m.Negative), "total count", negTotal)
		log.Println("Labels:", len(m.Positive.Labels()))
		log.Println("Ratio:", m.Ratio)
	}
	return nil
}

// Score returns the cheapest label for an arc with the given features and
// its cost. Equal costs go to the smallest label. Without any evidence the
// label is empty and the cost +Inf.
func (m *Model) Score(feats []int) (nlp.DepRel, float64) {
	weights := make(map[nlp.DepRel]float64)
	for _, f := range feats {
		for label, count := range m.Negative[f] {
			weights[label] += math.Log(float64(count))
		}
		for label, count := range m.Positive[f] {
			weights[label] -= math.Log(float64(count) * m.Ratio)
		}
	}
	if len(weights) == 0 {
		return "", math.Inf(1)
	}
	labels := make([]nlp.DepRel, 0, len(weights))
	for label := range weights {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	best := labels[0]
	for _, label := range labels[1:] {
		if weights[label] < weights[best] {
			best = label
		}
	}
	return best, weights[best]
}

// Graph builds the complete candidate graph of a sentence, one edge per
// candidate arc in head-major order.
func (m *Model) Graph(sent *nlp.Sentence) (*graph.Graph, error) {
	n := sent.Len()
	g := graph.NewGraph(n, n*(n-1))
	var err error
	nlp.Candidates(n, func(arc nlp.Arc) {
		if err != nil {
			return
		}
		feats, exists := sent.Features[arc]
		if !exists {
			err = fmt.Errorf("%w: arc %v", ErrMissingFeatures, arc)
			return
		}
		label, cost := m.Score(feats)
		g.AddEdge(arc.Head, arc.Dependent, cost, string(label))
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Predict parses a sentence with extracted features. The result is a copy
// of sent with predicted heads and relations; sent is not modified.
func (m *Model) Predict(sent *nlp.Sentence) (*nlp.Sentence, error) {
	g, err := m.Graph(sent)
	if err != nil {
		return nil, err
	}
	tree, err := g.CLE()
	if err != nil {
		return nil, err
	}
	prediction := sent.Unparsed()
	for _, edge := range tree {
		prediction.Tokens[edge.Target].Head = edge.Origin
		prediction.Tokens[edge.Target].Relation = nlp.DepRel(edge.Label)
	}
	return prediction, nil
}

// Parse predicts every sentence of a corpus.
func (m *Model) Parse(corpus nlp.Corpus) (nlp.Corpus, error) {
	return m.ParseNotify(corpus, nil)
}

// ParseNotify is Parse, calling done (if not nil) with the index of every
// sentence once it is parsed.
func (m *Model) ParseNotify(corpus nlp.Corpus, done func(i int)) (nlp.Corpus, error) {
	parsed := make(nlp.Corpus, len(corpus))
	for i, sent := range corpus {
		prediction, err := m.Predict(sent)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		parsed[i] = prediction
		if done != nil {
			done(i)
		}
	}
	return parsed, nil
}

// Test parses a gold corpus and returns its UAS, LAS, UCM and LCM scores.
func (m *Model) Test(corpus nlp.Corpus) (map[string]float64, error) {
	parsed, err := m.Parse(corpus)
	if err != nil {
		return nil, err
	}
	return eval.Evaluate(parsed, corpus)
}
