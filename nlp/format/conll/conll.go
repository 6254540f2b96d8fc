package conll

// Package Conll reads ConLL format files
// For a description see http://ilk.uvt.nl/conll/#dataformat

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	nlp "github.com/Olnarrosh/dependency-parser/nlp/types"
	"github.com/Olnarrosh/dependency-parser/util"
)

const (
	FIELD_SEPARATOR      = '\t'
	COMMENT              = '#'
	NUM_FIELDS           = 10
	FEATURES_SEPARATOR   = "|"
	FEATURE_SEPARATOR    = "="
	FEATURE_CONCAT_DELIM = ","
	EMPTY                = "_"
)

var (
	ErrUnknownRelation = errors.New("conll: unknown relation")
	ErrHeadOutOfRange  = errors.New("conll: head out of range")
	ErrMissingRow      = errors.New("conll: missing row")
)

type Features map[string]string

func (f Features) String() string {
	return FormatFeatures(f)
}

func FormatFeatures(feat map[string]string) string {
	if len(feat) == 0 {
		return EMPTY
	}
	strs := make([]string, 0, len(feat))
	for k, v := range feat {
		strs = append(strs, fmt.Sprintf("%v%v%v", k, FEATURE_SEPARATOR, v))
	}
	sort.Strings(strs)
	return strings.Join(strs, FEATURES_SEPARATOR)
}

// A Row is a single parsed row of a conll data set
// PHEAD and PDEPREL are ignored
type Row struct {
	ID      int
	Form    string
	Lemma   string
	CPosTag string
	PosTag  string
	Feats   Features
	Head    int
	DepRel  string
}

func (r Row) String() string {
	fields := []string{
		strconv.Itoa(r.ID),
		r.Form,
		formatString(r.Lemma),
		formatString(r.CPosTag),
		formatString(r.PosTag),
		FormatFeatures(r.Feats),
		formatHead(r.Head),
		formatString(r.DepRel),
		EMPTY,
		EMPTY}
	return strings.Join(fields, string(FIELD_SEPARATOR))
}

// A Sentence is a map of Rows using their ids
type Sentence map[int]Row

type Sentences []Sentence

func ParseInt(value string) (int, error) {
	i, err := strconv.ParseInt(value, 10, 0)
	return int(i), err
}

// ParseHead reads a HEAD field, "_" stands for an unparsed token.
func ParseHead(value string) (int, error) {
	if value == EMPTY {
		return nlp.NO_HEAD, nil
	}
	return ParseInt(value)
}

func ParseString(value string) string {
	if value == EMPTY {
		return ""
	} else {
		return value
	}
}

func formatString(value string) string {
	if value == "" {
		return EMPTY
	}
	return value
}

func formatHead(head int) string {
	if head == nlp.NO_HEAD {
		return EMPTY
	}
	return strconv.Itoa(head)
}

func ParseFeatures(featuresStr string) (Features, error) {
	var featureMap Features
	if featuresStr == EMPTY {
		return featureMap, nil
	}

	featureList := strings.Split(featuresStr, FEATURES_SEPARATOR)
	featureMap = make(Features, len(featureList))
	for _, featureStr := range featureList {
		featureKV := strings.Split(featureStr, FEATURE_SEPARATOR)
		if len(featureKV) != 2 {
			return nil, errors.New("Wrong number of fields for split of feature " + featureStr)
		}
		featName := featureKV[0]
		featValue := featureKV[1]
		existingFeatValue, featExist := featureMap[featName]
		if featExist {
			featureMap[featName] = existingFeatValue + FEATURE_CONCAT_DELIM + featValue
		} else {
			featureMap[featName] = featValue
		}
	}
	return featureMap, nil
}

// ParseRow parses the fields of a record. Only ID and FORM are required,
// parser input may leave every other field empty.
func ParseRow(record []string) (Row, error) {
	var row Row
	id, err := ParseInt(record[0])
	if err != nil {
		return row, fmt.Errorf("Error parsing ID field (%s): %w", record[0], err)
	}
	if id < 1 {
		return row, fmt.Errorf("Error parsing ID field (%s): must be positive", record[0])
	}
	row.ID = id

	form := ParseString(record[1])
	if form == "" {
		return row, errors.New("Empty FORM field")
	}
	row.Form = form

	row.Lemma = ParseString(record[2])
	row.CPosTag = ParseString(record[3])
	row.PosTag = ParseString(record[4])

	features, err := ParseFeatures(record[5])
	if err != nil {
		return row, fmt.Errorf("Error parsing FEATS field (%s): %w", record[5], err)
	}
	row.Feats = features

	head, err := ParseHead(record[6])
	if err != nil {
		return row, fmt.Errorf("Error parsing HEAD field (%s): %w", record[6], err)
	}
	if head < nlp.NO_HEAD {
		return row, fmt.Errorf("Error parsing HEAD field (%s): negative head", record[6])
	}
	row.Head = head

	row.DepRel = ParseString(record[7])
	return row, nil
}

func Read(reader io.Reader) (Sentences, error) {
	var sentences Sentences
	csvReader := csv.NewReader(reader)
	csvReader.Comma = FIELD_SEPARATOR
	csvReader.Comment = COMMENT
	csvReader.FieldsPerRecord = NUM_FIELDS
	csvReader.LazyQuotes = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Failure reading delimited file: %w", err)
	}

	var currentSent Sentence = nil
	for i, record := range records {
		// a record with id '1' indicates a new sentence
		// since csv csvReader ignores empty lines
		if record[0] == "1" {
			if currentSent != nil {
				sentences = append(sentences, currentSent)
			}
			currentSent = make(Sentence)
		}
		if currentSent == nil {
			return nil, fmt.Errorf("Error processing record %d: sentence does not start with ID 1", i)
		}

		row, err := ParseRow(record)
		if err != nil {
			return nil, fmt.Errorf("Error processing record %d at statement %d: %w", i, len(sentences), err)
		}
		if _, exists := currentSent[row.ID]; exists {
			return nil, fmt.Errorf("Error processing record %d at statement %d: duplicate ID %d", i, len(sentences), row.ID)
		}
		currentSent[row.ID] = row
	}
	if currentSent != nil {
		sentences = append(sentences, currentSent)
	}
	return sentences, nil
}

func ReadFile(filename string) (Sentences, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

func Write(writer io.Writer, sents Sentences) error {
	for _, sent := range sents {
		for i := 1; i <= len(sent); i++ {
			row := sent[i]
			if _, err := io.WriteString(writer, row.String()+"\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(writer, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func WriteFile(filename string, sents Sentences) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return Write(file, sents)
}

// Conll2Sentence converts rows to a sentence with a ROOT token. The POS of
// a token is its CPOSTAG, or its POSTAG when CPOSTAG is empty. If eRel is
// given every non-empty DEPREL must be one of its values.
func Conll2Sentence(sent Sentence, eRel *util.EnumSet) (*nlp.Sentence, error) {
	retval := nlp.NewSentence()
	for i := 1; i <= len(sent); i++ {
		row, exists := sent[i]
		if !exists {
			return nil, fmt.Errorf("%w: ID %d of %d", ErrMissingRow, i, len(sent))
		}
		if row.Head > len(sent) {
			return nil, fmt.Errorf("%w: token %d head %d of %d", ErrHeadOutOfRange, i, row.Head, len(sent))
		}
		if eRel != nil && row.DepRel != "" {
			if _, known := eRel.IndexOf(row.DepRel); !known {
				return nil, fmt.Errorf("%w: token %d relation %s", ErrUnknownRelation, i, row.DepRel)
			}
		}
		pos := row.CPosTag
		if pos == "" {
			pos = row.PosTag
		}
		retval.Append(nlp.NewToken(row.Form, row.Lemma, pos, row.Head, nlp.DepRel(row.DepRel)))
	}
	return retval, nil
}

func Conll2Corpus(corpus Sentences, eRel *util.EnumSet) (nlp.Corpus, error) {
	retval := make(nlp.Corpus, len(corpus))
	for i, sent := range corpus {
		converted, err := Conll2Sentence(sent, eRel)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i, err)
		}
		retval[i] = converted
	}
	return retval, nil
}

func Sentence2Conll(sent *nlp.Sentence) Sentence {
	retval := make(Sentence, sent.Len()-1)
	for i, token := range sent.Tokens[1:] {
		row := Row{
			ID:      i + 1,
			Form:    token.Form,
			CPosTag: token.POS,
			PosTag:  token.POS,
			Head:    token.Head,
			DepRel:  string(token.Relation),
		}
		if token.Lemma != nlp.NO_LEMMA {
			row.Lemma = token.Lemma
		}
		if token.POS == nlp.NO_POS {
			row.CPosTag, row.PosTag = "", ""
		}
		retval[row.ID] = row
	}
	return retval
}

func Corpus2Conll(corpus nlp.Corpus) Sentences {
	retval := make(Sentences, len(corpus))
	for i, sent := range corpus {
		retval[i] = Sentence2Conll(sent)
	}
	return retval
}

// MergeParse returns a copy of sent with the heads and relations of parsed,
// keeping every other column of sent.
func MergeParse(sent Sentence, parsed *nlp.Sentence) (Sentence, error) {
	if parsed.Len()-1 != len(sent) {
		return nil, fmt.Errorf("parse has %d tokens, sentence %d", parsed.Len()-1, len(sent))
	}
	retval := make(Sentence, len(sent))
	for i := 1; i <= len(sent); i++ {
		row, exists := sent[i]
		if !exists {
			return nil, fmt.Errorf("%w: ID %d of %d", ErrMissingRow, i, len(sent))
		}
		token := parsed.Tokens[i]
		row.Head = token.Head
		row.DepRel = string(token.Relation)
		retval[i] = row
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

// ReadCorpus reads a conll file straight into a corpus.
func ReadCorpus(filename string, eRel *util.EnumSet) (nlp.Corpus, error) {
	sents, err := ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Conll2Corpus(sents, eRel)
}
