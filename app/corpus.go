package app

import (
	"github.com/Olnarrosh/dependency-parser/nlp/format/conll"
	"github.com/Olnarrosh/dependency-parser/nlp/format/conllu"
	nlp "github.com/Olnarrosh/dependency-parser/nlp/types"
	"github.com/Olnarrosh/dependency-parser/util"
)

// source keeps the sentences as read so a parse can be merged back into
// their columns. Only one of the formats is set.
type source struct {
	conll  conll.Sentences
	conllu conllu.Sentences
}

// readCorpus reads a conll file, or a conll-u file when useConllU is set.
func readCorpus(filename string, eRel *util.EnumSet) (nlp.Corpus, *source, error) {
	if useConllU {
		sents, err := conllu.ReadFile(filename, limit)
		if err != nil {
			return nil, nil, err
		}
		corpus, err := conllu.ConllU2Corpus(sents, eRel)
		if err != nil {
			return nil, nil, err
		}
		return corpus, &source{conllu: sents}, nil
	}
	sents, err := conll.ReadFile(filename)
	if err != nil {
		return nil, nil, err
	}
	if limit > 0 && len(sents) > limit {
		sents = sents[:limit]
	}
	corpus, err := conll.Conll2Corpus(sents, eRel)
	if err != nil {
		return nil, nil, err
	}
	return corpus, &source{conll: sents}, nil
}

func writeCorpus(filename string, parsed nlp.Corpus, src *source) error {
	if useConllU {
		merged, err := conllu.MergeParseCorpus(src.conllu, parsed)
		if err != nil {
			return err
		}
		return conllu.WriteFile(filename, merged)
	}
	merged, err := conll.MergeParseCorpus(src.conll, parsed)
	if err != nil {
		return err
	}
	return conll.WriteFile(filename, merged)
}
