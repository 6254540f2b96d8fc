package eval

import (
	"errors"
	"fmt"

	nlp "github.com/Olnarrosh/dependency-parser/nlp/types"
)

const (
	UAS = "UAS"
	LAS = "LAS"
	UCM = "UCM"
	LCM = "LCM"
)

var (
	ErrEmptyCorpus    = errors.New("eval: empty corpus")
	ErrLengthMismatch = errors.New("eval: parsed and gold sentence lengths differ")
)

func Precision(truePositives, testPositives int) float64 {
	return float64(truePositives) / float64(testPositives)
}

type Result struct {
	TP, FP, TN, FN int
}

func (r *Result) Incorrect() int {
	return r.FP + r.FN
}

func (r *Result) TestPositives() int {
	return r.TP + r.FP
}

func (r *Result) Precision() float64 {
	return Precision(r.TP, r.TestPositives())
}

type Total struct {
	Result
	Exact, Population int
}

func (t *Total) Add(r *Result) {
	t.TP += r.TP
	t.FP += r.FP
	t.TN += r.TN
	t.FN += r.FN
	if r.Incorrect() == 0 {
		t.Exact += 1
	}
	t.Population += 1
}

func (t *Total) ExactMatch() float64 {
	return float64(t.Exact) / float64(t.Population)
}

// DepEval scores the attachments of every non-root token of parsed against
// gold. A token is a true positive of the unlabeled result when its head is
// correct, and of the labeled result when its relation is correct as well.
func DepEval(parsed, gold *nlp.Sentence) (labeled, unlabeled *Result, err error) {
	if parsed.Len() != gold.Len() {
		return nil, nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, parsed.Len(), gold.Len())
	}
	labeled, unlabeled = &Result{}, &Result{}
	for i := 1; i < gold.Len(); i++ {
		test, cond := parsed.Tokens[i], gold.Tokens[i]
		if test.Head != cond.Head {
			unlabeled.FP += 1
			labeled.FP += 1
			continue
		}
		unlabeled.TP += 1
		if test.Relation == cond.Relation {
			labeled.TP += 1
		} else {
			labeled.FP += 1
		}
	}
	return labeled, unlabeled, nil
}

// Attachment accumulates labeled and unlabeled attachment over a corpus.
type Attachment struct {
	Labeled, Unlabeled Total
}

func (a *Attachment) Add(parsed, gold *nlp.Sentence) error {
	labeled, unlabeled, err := DepEval(parsed, gold)
	if err != nil {
		return err
	}
	a.Labeled.Add(labeled)
	a.Unlabeled.Add(unlabeled)
	return nil
}

// Scores returns token level attachment scores (UAS, LAS) and sentence
// level complete match rates (UCM, LCM).
func (a *Attachment) Scores() (map[string]float64, error) {
	if a.Unlabeled.Population == 0 {
		return nil, fmt.Errorf("%w: no sentences", ErrEmptyCorpus)
	}
	if a.Unlabeled.TestPositives() == 0 {
		return nil, fmt.Errorf("%w: no tokens", ErrEmptyCorpus)
	}
	return map[string]float64{
		UAS: a.Unlabeled.Precision(),
		LAS: a.Labeled.Precision(),
		UCM: a.Unlabeled.ExactMatch(),
		LCM: a.Labeled.ExactMatch(),
	}, nil
}

// Evaluate scores a parsed corpus against gold, sentence by sentence.
func Evaluate(parsed, gold nlp.Corpus) (map[string]float64, error) {
	if len(parsed) != len(gold) {
		return nil, fmt.Errorf("%w: %d parsed sentences, %d gold", ErrLengthMismatch, len(parsed), len(gold))
	}
	total := &Attachment{}
	for i := range gold {
		if err := total.Add(parsed[i], gold[i]); err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
	}
	return total.Scores()
}
