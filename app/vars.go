package app

import (
	"fmt"
	"log"
	"os"

	"github.com/Olnarrosh/dependency-parser/nlp/parser/dependency/features"
	"github.com/Olnarrosh/dependency-parser/util"
	"github.com/Olnarrosh/dependency-parser/util/conf"

	"github.com/gonuts/commander"
)

var (
	allOut bool = true
	quiet  bool

	// file names
	tConll       string
	input        string
	inputGold    string
	outConll     string
	featuresFile string
	labelsFile   string

	// processing options
	legacyUnseen bool
	evaluate     bool
	useConllU    bool
	limit        int
)

var DEFAULT_CONF_DIRS = []string{".", "conf", "../conf", "../../conf"}

// SetupRelationEnum freezes the labels read from a labels file into a
// relation enum. Returns nil when labels is empty.
func SetupRelationEnum(labels []string) *util.EnumSet {
	if len(labels) == 0 {
		return nil
	}
	eRel := util.NewEnumSet(len(labels))
	for _, label := range labels {
		eRel.Add(label)
	}
	eRel.Freeze()
	return eRel
}

func VerifyExists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		log.Println("Error accessing file", filename)
		log.Println(err)
		return false
	}
	return true
}

func VerifyFlags(cmd *commander.Command, required []string) error {
	for _, flag := range required {
		f := cmd.Flag.Lookup(flag)
		if f == nil || f.Value.String() == "" {
			cmd.Usage()
			return fmt.Errorf("required flag %s not set", flag)
		}
	}
	return nil
}

// LoadFeatures reads a feature template file, looked up in the default
// configuration directories. An empty filename selects the built-in set.
func LoadFeatures(filename string) (*features.FeatureSetup, error) {
	if filename == "" {
		return features.DefaultFeatureSetup(), nil
	}
	location, found := util.LocateFile(filename, DEFAULT_CONF_DIRS)
	if !found {
		return nil, fmt.Errorf("features file %s not found", filename)
	}
	return features.LoadFeatureConfFile(location)
}

// LoadLabels reads a labels file, looked up in the default configuration
// directories, into a frozen relation enum. An empty filename accepts any
// relation and returns nil.
func LoadLabels(filename string) (*util.EnumSet, error) {
	if filename == "" {
		return nil, nil
	}
	location, found := util.LocateFile(filename, DEFAULT_CONF_DIRS)
	if !found {
		return nil, fmt.Errorf("labels file %s not found", filename)
	}
	relations, err := conf.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed reading dependency labels file %s: %w", location, err)
	}
	if len(relations.Values) == 0 {
		return nil, fmt.Errorf("no labels in %s", location)
	}
	return SetupRelationEnum(relations.Values), nil
}
