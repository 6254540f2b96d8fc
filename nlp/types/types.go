package types

import "strings"

// Token is a word of a sentence. Head and Relation hold the gold annotation
// in a corpus and the predicted attachment in a parse.
type Token struct {
	Form     string
	Lemma    string
	POS      string
	Head     int
	Relation DepRel
}

func NewToken(form, lemma, pos string, head int, relation DepRel) Token {
	if lemma == "" {
		lemma = NO_LEMMA
	}
	if pos == "" {
		pos = NO_POS
	}
	return Token{form, lemma, pos, head, relation}
}

// Sentence is a sequence of tokens starting with the synthetic ROOT token,
// and the feature ids of every candidate arc as set by a feature extractor.
type Sentence struct {
	Tokens   []Token
	Features map[Arc][]int
}

func NewSentence() *Sentence {
	return &Sentence{
		Tokens: []Token{{
			Form:  ROOT_TOKEN,
			Lemma: NO_LEMMA,
			POS:   ROOT_POS,
			Head:  NO_HEAD,
		}},
		Features: make(map[Arc][]int),
	}
}

func (s *Sentence) Len() int {
	return len(s.Tokens)
}

func (s *Sentence) Append(token Token) {
	s.Tokens = append(s.Tokens, token)
}

// Unparsed returns a copy of the words of s without heads, relations and features.
func (s *Sentence) Unparsed() *Sentence {
	tokens := make([]Token, len(s.Tokens))
	for i, t := range s.Tokens {
		tokens[i] = Token{
			Form:  t.Form,
			Lemma: t.Lemma,
			POS:   t.POS,
			Head:  NO_HEAD,
		}
	}
	return &Sentence{Tokens: tokens, Features: make(map[Arc][]int)}
}

func (s *Sentence) Forms() []string {
	retval := make([]string, len(s.Tokens)-1)
	for i, t := range s.Tokens[1:] {
		retval[i] = t.Form
	}
	return retval
}

func (s *Sentence) String() string {
	return strings.Join(s.Forms(), " ")
}

type Corpus []*Sentence

// NumTokens counts the non-root tokens of the corpus.
func (c Corpus) NumTokens() int {
	var n int
	for _, s := range c {
		n += s.Len() - 1
	}
	return n
}
