package mst

import (
	"math"
	"testing"

	"github.com/Olnarrosh/dependency-parser/eval"
	"github.com/Olnarrosh/dependency-parser/nlp/parser/dependency/features"
	nlp "github.com/Olnarrosh/dependency-parser/nlp/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticSentence builds "ROOT a b c" with heads 2 0 2 and gives every
// candidate arc its own feature, so each feature is either always gold or
// never gold.
func syntheticSentence() *nlp.Sentence {
	s := nlp.NewSentence()
	s.Append(nlp.NewToken("a", "a", "N", 2, "nsubj"))
	s.Append(nlp.NewToken("b", "b", "V", 0, "root"))
	s.Append(nlp.NewToken("c", "c", "N", 2, "dobj"))
	nlp.Candidates(s.Len(), func(arc nlp.Arc) {
		s.Features[arc] = []int{arc.Head*10 + arc.Dependent}
	})
	return s
}

func TestTrainCounts(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Train(nlp.Corpus{syntheticSentence()}))

	assert.Equal(t, 1, m.Positive.Get(21, "nsubj"))
	assert.Equal(t, 1, m.Positive.Get(2, "root"))
	assert.Equal(t, 1, m.Positive.Get(23, "dobj"))
	assert.Equal(t, 3, m.Positive.Sum())

	// negative arcs count against the gold relation of their dependent
	assert.Equal(t, 1, m.Negative.Get(1, "nsubj"))
	assert.Equal(t, 1, m.Negative.Get(31, "nsubj"))
	assert.Equal(t, 1, m.Negative.Get(12, "root"))
	assert.Equal(t, 6, m.Negative.Sum())
	assert.Equal(t, 2.0, m.Ratio)
}

func TestTrainAccumulates(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Train(nlp.Corpus{syntheticSentence()}))
	require.NoError(t, m.Train(nlp.Corpus{syntheticSentence()}))
	assert.Equal(t, 6, m.Positive.Sum())
	assert.Equal(t, 12, m.Negative.Sum())
	assert.Equal(t, 2, m.Positive.Get(21, "nsubj"))
	assert.Equal(t, 2.0, m.Ratio)
}

func TestTrainZeroModel(t *testing.T) {
	var m Model
	require.NoError(t, m.Train(nlp.Corpus{syntheticSentence()}))
	assert.Equal(t, 3, m.Positive.Sum())
	assert.Equal(t, 6, m.Negative.Sum())
	assert.Equal(t, 2.0, m.Ratio)

	trained := NewModel()
	require.NoError(t, trained.Train(nlp.Corpus{syntheticSentence()}))
	assert.Equal(t, trained, &m)
}

func TestTrainEmptyCorpus(t *testing.T) {
	m := NewModel()
	err := m.Train(nil)
	assert.ErrorIs(t, err, ErrNoPositiveExamples)
	assert.Equal(t, 1.0, m.Ratio)
}

func TestTrainNoNegatives(t *testing.T) {
	// a single word attached to ROOT has no wrong candidate head
	s := nlp.NewSentence()
	s.Append(nlp.NewToken("yes", "yes", "UH", 0, "root"))
	s.Features[nlp.Arc{Head: 0, Dependent: 1}] = []int{1}

	m := NewModel()
	assert.ErrorIs(t, m.Train(nlp.Corpus{s}), ErrNoNegativeExamples)
	assert.Empty(t, m.Positive)
}

func TestTrainMissingFeatures(t *testing.T) {
	s := syntheticSentence()
	delete(s.Features, nlp.Arc{Head: 3, Dependent: 1})

	m := NewModel()
	err := m.Train(nlp.Corpus{syntheticSentence(), s})
	assert.ErrorIs(t, err, ErrMissingFeatures)
	assert.Empty(t, m.Positive)
	assert.Empty(t, m.Negative)
}

func TestScore(t *testing.T) {
	m := NewModel()
	m.Ratio = 2
	m.Positive.Increment(1, "a")
	m.Positive.Increment(1, "a")
	m.Negative.Increment(1, "a")
	m.Negative.Increment(1, "b")
	m.Negative.Increment(1, "b")
	m.Negative.Increment(1, "b")
	m.Negative.Increment(2, "c")

	label, cost := m.Score([]int{1, 2})
	assert.Equal(t, nlp.DepRel("a"), label)
	assert.InDelta(t, math.Log(1)-math.Log(4), cost, 1e-12)

	label, cost = m.Score([]int{2})
	assert.Equal(t, nlp.DepRel("c"), label)
	assert.Zero(t, cost)

	label, cost = m.Score([]int{7})
	assert.Equal(t, nlp.DepRel(""), label)
	assert.True(t, math.IsInf(cost, 1))

	label, cost = m.Score(nil)
	assert.Empty(t, label)
	assert.True(t, math.IsInf(cost, 1))
}

func TestScoreTieSmallestLabel(t *testing.T) {
	m := NewModel()
	m.Negative.Increment(1, "zz")
	m.Negative.Increment(1, "aa")
	label, cost := m.Score([]int{1})
	assert.Equal(t, nlp.DepRel("aa"), label)
	assert.Zero(t, cost)
}

func TestGraphIsComplete(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Train(nlp.Corpus{syntheticSentence()}))
	g, err := m.Graph(syntheticSentence())
	require.NoError(t, err)
	assert.Equal(t, 4, g.Length)
	assert.Equal(t, 9, g.NumberOfEdges())
	for h := 0; h < 4; h++ {
		for d := 1; d < 4; d++ {
			if h != d {
				assert.NotNil(t, g.GetEdge(h, d, nil), "missing %d->%d", h, d)
			}
		}
	}
	assert.Nil(t, g.GetEdge(1, 0, nil))
}

func TestPredictRoundTrip(t *testing.T) {
	gold := syntheticSentence()
	m := NewModel()
	require.NoError(t, m.Train(nlp.Corpus{gold}))

	prediction, err := m.Predict(gold)
	require.NoError(t, err)
	if diff := cmp.Diff(gold.Tokens, prediction.Tokens); diff != "" {
		t.Errorf("prediction mismatch (-gold +predicted):\n%s", diff)
	}
	assert.Equal(t, 2, gold.Tokens[1].Head)
}

func TestParseNotify(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Train(nlp.Corpus{syntheticSentence()}))

	var seen []int
	corpus := nlp.Corpus{syntheticSentence(), syntheticSentence(), syntheticSentence()}
	parsed, err := m.ParseNotify(corpus, func(i int) { seen = append(seen, i) })
	require.NoError(t, err)
	assert.Len(t, parsed, 3)
	assert.Equal(t, []int{0, 1, 2}, seen)

	broken := syntheticSentence()
	delete(broken.Features, nlp.Arc{Head: 0, Dependent: 1})
	seen = nil
	_, err = m.ParseNotify(nlp.Corpus{syntheticSentence(), broken}, func(i int) { seen = append(seen, i) })
	assert.ErrorIs(t, err, ErrMissingFeatures)
	assert.Equal(t, []int{0}, seen)
}

func TestPredictDoesNotTouchGold(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Train(nlp.Corpus{syntheticSentence()}))

	s := syntheticSentence()
	for i := range s.Tokens[1:] {
		s.Tokens[i+1].Head = 0
		s.Tokens[i+1].Relation = "gold"
	}
	prediction, err := m.Predict(s)
	require.NoError(t, err)
	assert.Equal(t, nlp.DepRel("gold"), s.Tokens[1].Relation)
	assert.Equal(t, 0, s.Tokens[1].Head)
	assert.Equal(t, 2, prediction.Tokens[1].Head)
	assert.Len(t, s.Features, 9)
}

func TestPredictWithoutEvidence(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.Train(nlp.Corpus{syntheticSentence()}))

	s := nlp.NewSentence()
	s.Append(nlp.NewToken("x", "x", "X", nlp.NO_HEAD, ""))
	s.Append(nlp.NewToken("y", "y", "X", nlp.NO_HEAD, ""))
	nlp.Candidates(s.Len(), func(arc nlp.Arc) {
		s.Features[arc] = []int{999}
	})
	prediction, err := m.Predict(s)
	require.NoError(t, err)
	for _, tok := range prediction.Tokens[1:] {
		assert.Equal(t, 0, tok.Head)
		assert.Empty(t, tok.Relation)
	}
}

func TestPredictMissingFeatures(t *testing.T) {
	m := NewModel()
	s := syntheticSentence()
	delete(s.Features, nlp.Arc{Head: 0, Dependent: 3})
	_, err := m.Predict(s)
	assert.ErrorIs(t, err, ErrMissingFeatures)
}

func TestTestPerfect(t *testing.T) {
	corpus := nlp.Corpus{syntheticSentence(), syntheticSentence()}
	m := NewModel()
	require.NoError(t, m.Train(corpus))

	scores, err := m.Test(corpus)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{eval.UAS: 1, eval.LAS: 1, eval.UCM: 1, eval.LCM: 1}, scores)
}

func TestTestEmpty(t *testing.T) {
	m := NewModel()
	_, err := m.Test(nil)
	assert.ErrorIs(t, err, eval.ErrEmptyCorpus)
}

func TestWithExtractor(t *testing.T) {
	var corpus nlp.Corpus
	for _, words := range [][]string{
		{"the", "DT", "2", "det", "dog", "NN", "3", "nsubj", "barks", "VBZ", "0", "root"},
		{"a", "DT", "2", "det", "cat", "NN", "3", "nsubj", "sleeps", "VBZ", "0", "root"},
		{"the", "DT", "2", "det", "bird", "NN", "3", "nsubj", "sings", "VBZ", "0", "root"},
	} {
		s := nlp.NewSentence()
		for i := 0; i < len(words); i += 4 {
			head := int(words[i+2][0] - '0')
			s.Append(nlp.NewToken(words[i], words[i], words[i+1], head, nlp.DepRel(words[i+3])))
		}
		corpus = append(corpus, s)
	}
	x := features.NewExtractor(nil)
	x.Extract(corpus, true)
	x.Freeze()

	m := NewModel()
	require.NoError(t, m.Train(corpus))
	scores, err := m.Test(corpus)
	require.NoError(t, err)
	for _, key := range []string{eval.UAS, eval.LAS, eval.UCM, eval.LCM} {
		assert.GreaterOrEqual(t, scores[key], 0.0)
		assert.LessOrEqual(t, scores[key], 1.0)
	}
	// every determiner-noun-verb sentence shares the POS features
	assert.Equal(t, 1.0, scores[eval.UAS])
}
