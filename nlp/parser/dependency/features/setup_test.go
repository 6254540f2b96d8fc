package features

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFeatureConf(t *testing.T) {
	setup, err := LoadFeatureConf([]byte("templates:\n  - [hpos, dpos, dir]\n  - [bpos]\n"))
	require.NoError(t, err)
	assert.Equal(t, []Template{{"hpos", "dpos", "dir"}, {"bpos"}}, setup.Templates)
	assert.Equal(t, 2, setup.NumTemplates())
}

func TestLoadFeatureConfErrors(t *testing.T) {
	_, err := LoadFeatureConf([]byte("templates:\n  - [hpos, color]\n"))
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	_, err = LoadFeatureConf([]byte("templates: []\n"))
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	_, err = LoadFeatureConf([]byte("templates:\n  - []\n"))
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	_, err = LoadFeatureConf([]byte("feature groups: 3\n"))
	assert.Error(t, err)

	// templates are unweighted
	_, err = LoadFeatureConf([]byte("templates:\n  - {attributes: [hpos], weight: 2}\n"))
	assert.Error(t, err)
}

func TestDefaultFeatureSetupValid(t *testing.T) {
	setup := DefaultFeatureSetup()
	require.NoError(t, setup.Validate())
	assert.Equal(t, 14, setup.NumTemplates())
}

func TestShippedFeatureConfMatchesDefault(t *testing.T) {
	setup, err := LoadFeatureConfFile(filepath.Join("..", "..", "..", "..", "conf", "features.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultFeatureSetup(), setup)
}

func TestLoadFeatureConfFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "f.yaml")
	require.NoError(t, os.WriteFile(name, []byte("templates:\n  - [dist]\n"), 0o644))
	setup, err := LoadFeatureConfFile(name)
	require.NoError(t, err)
	assert.Equal(t, []Template{{"dist"}}, setup.Templates)

	_, err = LoadFeatureConfFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
