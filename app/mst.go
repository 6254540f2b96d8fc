package app

import (
	"fmt"
	"log"
	"time"

	"github.com/Olnarrosh/dependency-parser/eval"
	"github.com/Olnarrosh/dependency-parser/nlp/parser/dependency/features"
	"github.com/Olnarrosh/dependency-parser/nlp/parser/dependency/mst"
	nlp "github.com/Olnarrosh/dependency-parser/nlp/types"
	"github.com/Olnarrosh/dependency-parser/util"

	"github.com/gonuts/commander"
	"github.com/gosuri/uiprogress"
)

func MSTConfigOut() {
	log.Println("Configuration")
	log.Printf("Decoder:\t\tChu-Liu-Edmonds")
	if featuresFile == "" {
		log.Printf("Features File:\t(built-in)")
	} else {
		log.Printf("Features File:\t%s", featuresFile)
	}
	if labelsFile == "" {
		log.Printf("Labels File:\t\t(any)")
	} else {
		log.Printf("Labels File:\t\t%s", labelsFile)
	}
	log.Printf("Legacy Unseen:\t%v", legacyUnseen)
	log.Printf("Use CoNLL-U:\t\t%v", useConllU)
	if limit > 0 {
		log.Printf("Limit:\t\t%d", limit)
	}
	log.Println()
	log.Println("Data")
	log.Printf("Train file (conll):\t\t\t%s", tConll)
	log.Printf("Input file (conll):\t\t\t%s", input)
	log.Printf("Out (conll) file:\t\t\t%s", outConll)
	log.Println()
}

// MSTTrain reads a training corpus, extracts its features and trains a
// model on them. The returned extractor is frozen.
func MSTTrain(trainFile string, setup *features.FeatureSetup, eRel *util.EnumSet, legacy bool) (*mst.Model, *features.Extractor, error) {
	if !VerifyExists(trainFile) {
		return nil, nil, fmt.Errorf("training file %s not accessible", trainFile)
	}
	corpus, _, err := readCorpus(trainFile, eRel)
	if err != nil {
		return nil, nil, err
	}
	if allOut {
		log.Println("Conll:\tRead", len(corpus), "sentences,", corpus.NumTokens(), "tokens")
		log.Println("Extracting training features")
	}
	extractor := features.NewExtractor(setup)
	extractor.LegacyUnseen = legacy
	extractFeatures(extractor, corpus, true)
	extractor.Freeze()
	if allOut {
		log.Println("Extracted", extractor.NumFeatures(), "features")
		log.Println()
		log.Println("Training")
	}

	model := mst.NewModel()
	model.Log = allOut
	startTime := time.Now()
	if err := model.Train(corpus); err != nil {
		return nil, nil, err
	}
	if allOut {
		log.Println("TRAIN Total Time:", time.Since(startTime))
		util.LogMemory()
	}
	return model, extractor, nil
}

func extractFeatures(extractor *features.Extractor, corpus nlp.Corpus, addNew bool) {
	bar := startProgress(len(corpus))
	for _, sent := range corpus {
		extractor.ExtractSentence(sent, addNew)
		bar.Incr()
	}
	bar.Stop()
}

// Parse predicts every sentence of corpus, reporting progress unless quiet.
func Parse(model *mst.Model, corpus nlp.Corpus) (nlp.Corpus, error) {
	startTime := time.Now()
	bar := startProgress(len(corpus))
	parsed, err := model.ParseNotify(corpus, func(int) { bar.Incr() })
	bar.Stop()
	if err != nil {
		return nil, err
	}
	if allOut {
		log.Println("PARSE Total Time:", time.Since(startTime))
	}
	return parsed, nil
}

// progress wraps a terminal progress bar, nil when output is quiet.
type progress struct {
	ui  *uiprogress.Progress
	bar *uiprogress.Bar
}

func startProgress(total int) *progress {
	if !allOut || total == 0 {
		return nil
	}
	p := &progress{ui: uiprogress.New()}
	p.ui.Start()
	p.bar = p.ui.AddBar(total)
	p.bar.AppendCompleted()
	p.bar.PrependElapsed()
	return p
}

func (p *progress) Incr() {
	if p != nil {
		p.bar.Incr()
	}
}

func (p *progress) Stop() {
	if p != nil {
		p.ui.Stop()
	}
}

func LogScores(scores map[string]float64) {
	log.Printf("Result (UAS, LAS, UCM, LCM): %.4f %.4f %.4f %.4f",
		scores[eval.UAS], scores[eval.LAS], scores[eval.UCM], scores[eval.LCM])
}

func MSTTrainAndParse(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"tc", "in", "oc"}
	if err := VerifyFlags(cmd, REQUIRED_FLAGS); err != nil {
		return err
	}
	if allOut {
		MSTConfigOut()
	}

	setup, err := LoadFeatures(featuresFile)
	if err != nil {
		return err
	}
	eRel, err := LoadLabels(labelsFile)
	if err != nil {
		return err
	}
	if allOut && eRel != nil {
		log.Println("Loaded", eRel.Len(), "dependency labels")
	}

	model, extractor, err := MSTTrain(tConll, setup, eRel, legacyUnseen)
	if err != nil {
		return err
	}

	if !VerifyExists(input) {
		return fmt.Errorf("input file %s not accessible", input)
	}
	corpus, source, err := readCorpus(input, eRel)
	if err != nil {
		return err
	}
	if allOut {
		log.Println()
		log.Println("Read", len(corpus), "sentences from", input)
		log.Println("Extracting features")
	}
	extractFeatures(extractor, corpus, false)

	parsed, err := Parse(model, corpus)
	if err != nil {
		return err
	}
	if evaluate {
		scores, err := eval.Evaluate(parsed, corpus)
		if err != nil {
			return err
		}
		LogScores(scores)
	}

	if allOut {
		log.Println("Writing", len(parsed), "sentences to", outConll)
	}
	if err := writeCorpus(outConll, parsed, source); err != nil {
		return err
	}
	if allOut {
		log.Println("Wrote", len(parsed), "parsed sentences to", outConll)
	}
	return nil
}

func MSTCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       MSTTrainAndParse,
		UsageLine: "mst <file options> [arguments]",
		Short:     "runs the graph-based (Chu-Liu-Edmonds) dependency parser",
		Long: `
runs the graph-based dependency parser: counts features of gold and
candidate arcs in the training corpus, then decodes the minimum cost
spanning tree of every input sentence

	$ ./dependency-parser mst -tc <conll> -in <conll> -oc <file> [options]

`,
	}
	cmd.Flag.StringVar(&tConll, "tc", "", "Training Conll File")
	cmd.Flag.StringVar(&input, "in", "", "Dev/Test Conll File")
	cmd.Flag.StringVar(&outConll, "oc", "", "Output Conll File")
	cmd.Flag.StringVar(&featuresFile, "f", "", "Features Configuration File (YAML, built-in set if empty)")
	cmd.Flag.StringVar(&labelsFile, "l", "", "Dependency Labels Configuration File")
	cmd.Flag.BoolVar(&legacyUnseen, "legacy-unseen", false, "Map unseen features to the feature table size")
	cmd.Flag.BoolVar(&evaluate, "eval", false, "Evaluate the parse against the input annotation")
	cmd.Flag.BoolVar(&useConllU, "conllu", false, "Read and write CoNLL-U instead of CoNLL-X")
	cmd.Flag.IntVar(&limit, "limit", 0, "Limit the number of sentences read from each file (0 = all)")
	cmd.Flag.BoolVar(&quiet, "q", false, "Quiet: no configuration, progress or timing output")
	return cmd
}
