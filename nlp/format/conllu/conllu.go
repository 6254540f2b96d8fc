package conllu

// Package ConllU reads ConLL-U format files
// Multiword token ranges and comments are kept for writing back,
// empty nodes are skipped.
// For a description see
// https://universaldependencies.github.io/docs/format.html

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Olnarrosh/dependency-parser/nlp/format/conll"
	nlp "github.com/Olnarrosh/dependency-parser/nlp/types"
	"github.com/Olnarrosh/dependency-parser/util"
)

const (
	FIELD_SEPARATOR = "\t"
	NUM_FIELDS      = 10
	DEPS_SEPARATOR  = "|"
	MAX_LINE        = 1 << 20
)

var ErrEmptySentence = errors.New("conllu: sentence has no syntactic words")

// A Row is a single parsed syntactic word of a conll-u data set
type Row struct {
	ID      int
	Form    string
	Lemma   string
	UPosTag string
	XPosTag string
	Feats   conll.Features
	Head    int
	DepRel  string
	Deps    []string
	Misc    string
}

func (r Row) String() string {
	fields := []string{
		strconv.Itoa(r.ID),
		r.Form,
		r.Lemma,
		r.UPosTag,
		r.XPosTag,
		conll.FormatFeatures(r.Feats),
		"",
		r.DepRel,
		strings.Join(r.Deps, DEPS_SEPARATOR),
		r.Misc,
	}
	if r.Head != nlp.NO_HEAD {
		fields[6] = strconv.Itoa(r.Head)
	}
	for i, field := range fields {
		if len(field) == 0 {
			fields[i] = conll.EMPTY
		}
	}
	return strings.Join(fields, FIELD_SEPARATOR)
}

// A Token is a multiword token range line, written before its first word.
type Token struct {
	First, Last int
	Line        string
}

// A Sentence holds the syntactic words of a sentence in order, along with
// its comments and multiword token lines. Trailing holds comments following
// the last sentence of a file, written after it.
type Sentence struct {
	Deps     []Row
	Tokens   []Token
	Comments []string
	Trailing []string
}

type Sentences []*Sentence

func NewSentence() *Sentence {
	return &Sentence{
		Deps:     make([]Row, 0, 16),
		Comments: make([]string, 0, 2),
	}
}

func ParseRow(record []string) (Row, error) {
	var row Row
	id, err := conll.ParseInt(record[0])
	if err != nil {
		return row, fmt.Errorf("Error parsing ID field (%s): %w", record[0], err)
	}
	row.ID = id

	row.UPosTag = conll.ParseString(record[3])
	row.XPosTag = conll.ParseString(record[4])

	if row.UPosTag != "SYM" && row.UPosTag != "PUNCT" {
		row.Form = conll.ParseString(record[1])
	} else {
		// SYM forms are taken as is (they're symbols)
		row.Form = record[1]
	}
	if row.Form == "" {
		return row, errors.New("Empty FORM field")
	}
	row.Lemma = conll.ParseString(record[2])

	features, err := conll.ParseFeatures(record[5])
	if err != nil {
		return row, fmt.Errorf("Error parsing FEATS field (%s): %w", record[5], err)
	}
	row.Feats = features

	head, err := conll.ParseHead(record[6])
	if err != nil {
		return row, fmt.Errorf("Error parsing HEAD field (%s): %w", record[6], err)
	}
	row.Head = head

	row.DepRel = conll.ParseString(record[7])

	deps := conll.ParseString(record[8])
	if len(deps) > 0 {
		row.Deps = strings.Split(deps, DEPS_SEPARATOR)
	}
	row.Misc = conll.ParseString(record[9])
	return row, nil
}

func ParseTokenRow(record []string) (Token, error) {
	var token Token
	ids := strings.Split(record[0], "-")
	if len(ids) != 2 {
		return token, fmt.Errorf("Error parsing token range (%s)", record[0])
	}
	first, err := conll.ParseInt(ids[0])
	if err != nil {
		return token, fmt.Errorf("Error parsing token range (%s): %w", record[0], err)
	}
	last, err := conll.ParseInt(ids[1])
	if err != nil {
		return token, fmt.Errorf("Error parsing token range (%s): %w", record[0], err)
	}
	if last < first {
		return token, fmt.Errorf("Error parsing token range (%s): empty range", record[0])
	}
	token.First, token.Last = first, last
	token.Line = strings.Join(record, FIELD_SEPARATOR)
	return token, nil
}

// Read reads up to limit sentences, all of them if limit is not positive.
func Read(reader io.Reader, limit int) (Sentences, error) {
	var sentences Sentences
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 16384), MAX_LINE)

	var (
		line        int
		currentSent = NewSentence()
	)
	// comments of a block without words carry over to the next sentence
	flush := func() {
		if len(currentSent.Deps) > 0 {
			sentences = append(sentences, currentSent)
			currentSent = NewSentence()
		}
	}
	for scanner.Scan() {
		line++
		curLine := scanner.Text()
		if len(curLine) == 0 {
			flush()
			if limit > 0 && len(sentences) >= limit {
				return sentences, nil
			}
			continue
		}
		// '#' is a start of comment for CONLL-U
		if curLine[0] == '#' {
			currentSent.Comments = append(currentSent.Comments, curLine)
			continue
		}
		record := strings.Split(curLine, FIELD_SEPARATOR)
		if len(record) != NUM_FIELDS {
			return nil, fmt.Errorf("Error processing line %d at statement %d: expected %d fields, got %d", line, len(sentences), NUM_FIELDS, len(record))
		}
		switch {
		case strings.Contains(record[0], "."):
			continue
		case strings.Contains(record[0], "-"):
			token, err := ParseTokenRow(record)
			if err != nil {
				return nil, fmt.Errorf("Error processing line %d at statement %d: %w", line, len(sentences), err)
			}
			currentSent.Tokens = append(currentSent.Tokens, token)
		default:
			row, err := ParseRow(record)
			if err != nil {
				return nil, fmt.Errorf("Error processing line %d at statement %d: %w", line, len(sentences), err)
			}
			if row.ID != len(currentSent.Deps)+1 {
				return nil, fmt.Errorf("Error processing line %d at statement %d: expected ID %d, got %d", line, len(sentences), len(currentSent.Deps)+1, row.ID)
			}
			currentSent.Deps = append(currentSent.Deps, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("Failure reading file: %w", err)
	}
	flush()
	if limit > 0 && len(sentences) > limit {
		return sentences[:limit], nil
	}
	if len(currentSent.Comments) > 0 && len(sentences) > 0 {
		last := sentences[len(sentences)-1]
		last.Trailing = append(last.Trailing, currentSent.Comments...)
	}
	return sentences, nil
}

func ReadFile(filename string, limit int) (Sentences, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, limit)
}

func Write(writer io.Writer, sents Sentences) error {
	w := bufio.NewWriter(writer)
	for _, sent := range sents {
		for _, comment := range sent.Comments {
			w.WriteString(comment)
			w.WriteByte('\n')
		}
		nextToken := 0
		for _, row := range sent.Deps {
			for nextToken < len(sent.Tokens) && sent.Tokens[nextToken].First <= row.ID {
				w.WriteString(sent.Tokens[nextToken].Line)
				w.WriteByte('\n')
				nextToken++
			}
			w.WriteString(row.String())
			w.WriteByte('\n')
		}
		w.WriteByte('\n')
		for _, comment := range sent.Trailing {
			w.WriteString(comment)
			w.WriteByte('\n')
		}
	}
	return w.Flush()
}

func WriteFile(filename string, sents Sentences) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return Write(file, sents)
}

// ConllU2Sentence converts the syntactic words of sent to a sentence with a
// ROOT token. The POS of a token is its UPOS, or its XPOS when UPOS is
// empty. If eRel is given every non-empty DEPREL must be one of its values.
func ConllU2Sentence(sent *Sentence, eRel *util.EnumSet) (*nlp.Sentence, error) {
	if len(sent.Deps) == 0 {
		return nil, ErrEmptySentence
	}
	retval := nlp.NewSentence()
	for i, row := range sent.Deps {
		if row.Head > len(sent.Deps) {
			return nil, fmt.Errorf("%w: token %d head %d of %d", conll.ErrHeadOutOfRange, i+1, row.Head, len(sent.Deps))
		}
		if eRel != nil && row.DepRel != "" {
			if _, known := eRel.IndexOf(row.DepRel); !known {
				return nil, fmt.Errorf("%w: token %d relation %s", conll.ErrUnknownRelation, i+1, row.DepRel)
			}
		}
		pos := row.UPosTag
		if pos == "" {
			pos = row.XPosTag
		}
		retval.Append(nlp.NewToken(row.Form, row.Lemma, pos, row.Head, nlp.DepRel(row.DepRel)))
	}
	return retval, nil
}

func ConllU2Corpus(corpus Sentences, eRel *util.EnumSet) (nlp.Corpus, error) {
	retval := make(nlp.Corpus, len(corpus))
	for i, sent := range corpus {
		converted, err := ConllU2Sentence(sent, eRel)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		retval[i] = converted
	}
	return retval, nil
}

// MergeParse returns a copy of sent with the heads and relations of parsed,
// keeping every other field, comment and token line of sent.
func MergeParse(sent *Sentence, parsed *nlp.Sentence) (*Sentence, error) {
	if parsed.Len()-1 != len(sent.Deps) {
		return nil, fmt.Errorf("parse has %d tokens, sentence %d", parsed.Len()-1, len(sent.Deps))
	}
	retval := &Sentence{
		Deps:     make([]Row, len(sent.Deps)),
		Tokens:   sent.Tokens,
		Comments: sent.Comments,
		Trailing: sent.Trailing,
	}
	for i, row := range sent.Deps {
		token := parsed.Tokens[i+1]
		row.Head = token.Head
		row.DepRel = string(token.Relation)
		retval.Deps[i] = row
	}
	return retval, nil
}

func MergeParseCorpus(corpus Sentences, parsed nlp.Corpus) (Sentences, error) {
	if len(corpus) != len(parsed) {
		return nil, fmt.Errorf("parsed %d sentences of %d", len(parsed), len(corpus))
	}
	retval := make(Sentences, len(corpus))
	for i, sent := range corpus {
		merged, err := MergeParse(sent, parsed[i])
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		retval[i] = merged
	}
	return retval, nil
}
