package features

import (
	"sort"
	"strconv"
	"strings"

	nlp "github.com/Olnarrosh/dependency-parser/nlp/types"
	"github.com/Olnarrosh/dependency-parser/util"
)

const (
	// UNKNOWN_FEATURE is the id of every feature string never seen in
	// training. It is registered first, so no trained feature shares it.
	UNKNOWN_FEATURE = 0
	UNKNOWN_STRING  = "(UNKNOWN)"

	EMPTY_BETWEEN   = "(EMPTY)"
	NO_NEIGHBOR     = " "
	APPROX_FEATURES = 1 << 16
)

// Extractor turns candidate arcs into sorted feature id lists. It owns the
// feature string interning table; a single Extractor must serve both
// training and prediction so that ids agree.
type Extractor struct {
	Setup     *FeatureSetup
	EFeatures *util.EnumSet

	// LegacyUnseen maps unseen features to the current table size instead
	// of UNKNOWN_FEATURE. That id is taken by the next feature added to
	// the table, so the two collide if the table grows afterwards.
	LegacyUnseen bool
}

func NewExtractor(setup *FeatureSetup) *Extractor {
	if setup == nil {
		setup = DefaultFeatureSetup()
	}
	extractor := &Extractor{
		Setup:     setup,
		EFeatures: util.NewEnumSet(APPROX_FEATURES),
	}
	extractor.EFeatures.Add(UNKNOWN_STRING)
	return extractor
}

// Freeze stops the table from growing; later lookups never add.
func (x *Extractor) Freeze() {
	x.EFeatures.Freeze()
}

func (x *Extractor) NumFeatures() int {
	return x.EFeatures.Len()
}

// Lookup returns the id of a feature string, adding it when addNew is set
// and the table is not frozen.
func (x *Extractor) Lookup(feature string, addNew bool) int {
	if id, exists := x.EFeatures.IndexOf(feature); exists {
		return id
	}
	if addNew && !x.EFeatures.Frozen {
		id, _ := x.EFeatures.Add(feature)
		return id
	}
	if x.LegacyUnseen {
		return x.EFeatures.Len()
	}
	return UNKNOWN_FEATURE
}

// Extract fills the feature map of every sentence in corpus. addNew should
// be set for training data and unset for test data.
func (x *Extractor) Extract(corpus nlp.Corpus, addNew bool) {
	for _, sent := range corpus {
		x.ExtractSentence(sent, addNew)
	}
}

func (x *Extractor) ExtractSentence(sent *nlp.Sentence, addNew bool) {
	sent.Features = make(map[nlp.Arc][]int, sent.Len()*sent.Len())
	nlp.Candidates(sent.Len(), func(arc nlp.Arc) {
		strs := x.FeatureStrings(sent, arc)
		ids := make([]int, len(strs))
		for i, f := range strs {
			ids[i] = x.Lookup(f, addNew)
		}
		sort.Ints(ids)
		sent.Features[arc] = ids
	})
}

// FeatureStrings renders every template for arc, e.g.
// "hpos+dpos+dir:NN+DT+left".
func (x *Extractor) FeatureStrings(sent *nlp.Sentence, arc nlp.Arc) []string {
	attrs := Attributes(sent, arc)
	retval := make([]string, len(x.Setup.Templates))
	values := make([]string, 0, len(ATTRIBUTES))
	for i, tmpl := range x.Setup.Templates {
		values = values[:0]
		for _, attr := range tmpl {
			values = append(values, attrs[attr])
		}
		retval[i] = strings.Join(tmpl, "+") + ":" + strings.Join(values, "+")
	}
	return retval
}

// Attributes computes the atomic attribute values of a candidate arc.
func Attributes(sent *nlp.Sentence, arc nlp.Arc) map[string]string {
	h, d := arc.Head, arc.Dependent
	tokens := sent.Tokens
	n := len(tokens)

	between := make([]string, 0, util.AbsInt(h-d))
	for i := util.MinInt(h, d) + 1; i < util.MaxInt(h, d); i++ {
		between = append(between, tokens[i].POS)
	}
	bpos := strings.Join(between, "+")
	if bpos == "" {
		bpos = EMPTY_BETWEEN
	}

	attrs := map[string]string{
		"hform":  strings.ToLower(tokens[h].Form),
		"hpos":   tokens[h].POS,
		"hlem":   tokens[h].Lemma,
		"dform":  strings.ToLower(tokens[d].Form),
		"dpos":   tokens[d].POS,
		"dlem":   tokens[d].Lemma,
		"bpos":   bpos,
		"hpos+1": NO_NEIGHBOR,
		"hpos-1": NO_NEIGHBOR,
		"dpos+1": NO_NEIGHBOR,
		"dpos-1": NO_NEIGHBOR,
		"dir":    "right",
		"dist":   strconv.Itoa(util.AbsInt(h - d)),
	}
	if h == 0 {
		attrs["hpos+1"] = nlp.ROOT_POS
		attrs["hpos-1"] = nlp.ROOT_POS
	} else {
		if h+1 < n {
			attrs["hpos+1"] = tokens[h+1].POS
		}
		if h > 1 {
			attrs["hpos-1"] = tokens[h-1].POS
		}
	}
	if d+1 < n {
		attrs["dpos+1"] = tokens[d+1].POS
	}
	if d > 1 {
		attrs["dpos-1"] = tokens[d-1].POS
	}
	if h > d {
		attrs["dir"] = "left"
	}
	return attrs
}
