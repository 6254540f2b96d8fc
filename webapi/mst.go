package webapi

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Olnarrosh/dependency-parser/app"
	"github.com/Olnarrosh/dependency-parser/nlp/format/conll"
	"github.com/Olnarrosh/dependency-parser/nlp/parser/dependency/features"
	"github.com/Olnarrosh/dependency-parser/nlp/parser/dependency/mst"
	nlp "github.com/Olnarrosh/dependency-parser/nlp/types"
	"github.com/Olnarrosh/dependency-parser/util"
)

// MSTParser serves a trained model. Parses are serialized, the extractor's
// feature table and the model are shared between requests.
type MSTParser struct {
	Model     *mst.Model
	Extractor *features.Extractor
	ERel      *util.EnumSet

	lock sync.Mutex
}

func MSTParserInitialize(trainFile, featuresFile, labelsFile string, legacy bool) (*MSTParser, error) {
	setup, err := app.LoadFeatures(featuresFile)
	if err != nil {
		return nil, err
	}
	eRel, err := app.LoadLabels(labelsFile)
	if err != nil {
		return nil, err
	}
	model, extractor, err := app.MSTTrain(trainFile, setup, eRel, legacy)
	if err != nil {
		return nil, err
	}
	log.Println("Loaded model with", extractor.NumFeatures(), "features")
	return &MSTParser{Model: model, Extractor: extractor, ERel: eRel}, nil
}

func (p *MSTParser) read(input string) (nlp.Corpus, conll.Sentences, error) {
	sents, err := conll.Read(strings.NewReader(input))
	if err != nil {
		return nil, nil, err
	}
	corpus, err := conll.Conll2Corpus(sents, p.ERel)
	if err != nil {
		return nil, nil, err
	}
	p.Extractor.Extract(corpus, false)
	return corpus, sents, nil
}

// ParseConll parses conll formatted sentences and returns them with
// predicted heads and relations, in conll format. Every other column is
// returned as given.
func (p *MSTParser) ParseConll(input string) (string, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	corpus, sents, err := p.read(input)
	if err != nil {
		return "", err
	}
	parsed, err := p.Model.Parse(corpus)
	if err != nil {
		return "", err
	}
	merged, err := conll.MergeParseCorpus(sents, parsed)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err := conll.Write(buf, merged); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EvalConll parses annotated conll sentences and scores the parse against
// their annotation.
func (p *MSTParser) EvalConll(input string) (map[string]float64, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	corpus, _, err := p.read(input)
	if err != nil {
		return nil, err
	}
	scores, err := p.Model.Test(corpus)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	return scores, nil
}
