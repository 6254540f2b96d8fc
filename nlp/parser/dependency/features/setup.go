package features

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

var ErrUnknownAttribute = errors.New("features: unknown template attribute")

// ATTRIBUTES are the atomic values a template may combine. Attributes
// prefixed with 'h' describe the head, 'd' the dependent; bpos is the POS
// sequence between them, dir and dist their relative position.
var ATTRIBUTES = map[string]bool{
	"hform":  true,
	"hpos":   true,
	"hlem":   true,
	"dform":  true,
	"dpos":   true,
	"dlem":   true,
	"bpos":   true,
	"hpos+1": true,
	"hpos-1": true,
	"dpos+1": true,
	"dpos-1": true,
	"dir":    true,
	"dist":   true,
}

// Template is an ordered combination of attributes forming one feature.
type Template []string

// FeatureSetup lists the templates to extract. Templates are unweighted,
// every feature of an arc counts once.
type FeatureSetup struct {
	Templates []Template `yaml:"templates"`
}

func (s *FeatureSetup) NumTemplates() int {
	return len(s.Templates)
}

func (s *FeatureSetup) Validate() error {
	if len(s.Templates) == 0 {
		return fmt.Errorf("%w: no templates", ErrUnknownAttribute)
	}
	for i, tmpl := range s.Templates {
		if len(tmpl) == 0 {
			return fmt.Errorf("%w: template %d is empty", ErrUnknownAttribute, i)
		}
		for _, attr := range tmpl {
			if !ATTRIBUTES[attr] {
				return fmt.Errorf("%w: %q in template %d", ErrUnknownAttribute, attr, i)
			}
		}
	}
	return nil
}

// DefaultFeatureSetup returns the built-in first-order template set.
func DefaultFeatureSetup() *FeatureSetup {
	return &FeatureSetup{Templates: []Template{
		{"hlem", "hpos", "dir", "dist"},
		{"dlem", "dpos", "dir", "dist"},
		{"hlem", "dlem", "dir", "dist"},
		{"hpos", "dpos", "dir", "dist"},
		{"hlem", "hpos", "dlem", "dpos", "dir", "dist"},
		{"hlem", "hpos", "dlem", "dir", "dist"},
		{"hlem", "dlem", "dpos", "dir", "dist"},
		{"hlem", "hpos", "dpos", "dir", "dist"},
		{"hpos", "dlem", "dpos", "dir", "dist"},
		{"hpos", "bpos", "dpos", "dir"},
		{"hpos", "dpos", "hpos+1", "dpos-1", "dir", "dist"},
		{"hpos", "dpos", "hpos-1", "dpos-1", "dir", "dist"},
		{"hpos", "dpos", "hpos+1", "dpos+1", "dir", "dist"},
		{"hpos", "dpos", "hpos-1", "dpos+1", "dir", "dist"},
	}}
}

func LoadFeatureConf(conf []byte) (*FeatureSetup, error) {
	setup := new(FeatureSetup)
	if err := yaml.UnmarshalStrict(conf, setup); err != nil {
		return nil, fmt.Errorf("features: parsing feature configuration: %w", err)
	}
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	return setup, nil
}

func LoadFeatureConfFile(filename string) (*FeatureSetup, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return LoadFeatureConf(data)
}
