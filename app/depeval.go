package app

import (
	"fmt"
	"log"

	"github.com/Olnarrosh/dependency-parser/eval"

	"github.com/gonuts/commander"
)

func DepEvalConfigOut() {
	log.Println("Configuration")
	if labelsFile != "" {
		log.Printf("Labels File:\t\t%s", labelsFile)
	}
	log.Println()
	log.Println("Data")
	log.Printf("Parsed result file:\t%s", input)
	log.Printf("Gold file:\t%s", inputGold)
}

func DepEval(cmd *commander.Command, args []string) error {
	REQUIRED_FLAGS := []string{"p", "g"}

	if err := VerifyFlags(cmd, REQUIRED_FLAGS); err != nil {
		return err
	}
	if allOut {
		DepEvalConfigOut()
	}
	eRel, err := LoadLabels(labelsFile)
	if err != nil {
		return err
	}
	for _, file := range []string{input, inputGold} {
		if !VerifyExists(file) {
			return fmt.Errorf("file %s not accessible", file)
		}
	}

	parsed, _, err := readCorpus(input, eRel)
	if err != nil {
		return err
	}
	if allOut {
		log.Println("Read", len(parsed), "sentences from", input)
	}
	gold, _, err := readCorpus(inputGold, eRel)
	if err != nil {
		return err
	}
	if allOut {
		log.Println("Read", len(gold), "sentences from", inputGold)
	}

	scores, err := eval.Evaluate(parsed, gold)
	if err != nil {
		return err
	}
	LogScores(scores)
	return nil
}

func DepEvalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       DepEval,
		UsageLine: "depeval <file options> [arguments]",
		Short:     "runs dependency eval",
		Long: `
runs dependency eval, reporting UAS, LAS, UCM and LCM

	$ ./dependency-parser depeval -p <conll> -g <conll> [options]

`,
	}
	cmd.Flag.StringVar(&labelsFile, "l", "", "Dependency Labels Configuration File")
	cmd.Flag.StringVar(&input, "p", "", "Parse Result Conll File")
	cmd.Flag.StringVar(&inputGold, "g", "", "Gold Conll File")
	cmd.Flag.BoolVar(&useConllU, "conllu", false, "Read CoNLL-U instead of CoNLL-X")
	cmd.Flag.BoolVar(&quiet, "q", false, "Quiet: no configuration output")
	return cmd
}
