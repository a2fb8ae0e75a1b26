package recipe_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcelotrevisani/roboto/internal/app/review/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metaYaml = `{% set name = "requests" %}
{% set version = "2.31.0" %}

package:
  name: {{ name }}
  version: {{ version }}

source:
  url: https://pypi.io/packages/source/r/requests/requests-{{ version }}.tar.gz

build:
  number: 0
  noarch: python

requirements:
  host:
    - python >=3.7
    - pip
  run:
    - python >=3.7
    - urllib3 >=1.21.1,<3
    - certifi >=2017.4.17  # [not win]
    - {{ compiler('c') }}
`

func TestParseRecipe(t *testing.T) {
	rec, err := recipe.NewLoader().Parse(metaYaml)
	require.NoError(t, err)

	assert.Equal(t, "requests", rec.Name)
	assert.Equal(t, "2.31.0", rec.Version)
	assert.Equal(t, "https://pypi.io/packages/source/r/requests/requests-2.31.0.tar.gz", rec.SourceUrl)

	assert.Equal(t, []recipe.Dependency{
		{Name: "python", Constraint: ">=3.7"},
		{Name: "pip"},
	}, rec.Requirements["host"])

	// the templated compiler entry renders to nothing and is dropped
	assert.Equal(t, []recipe.Dependency{
		{Name: "python", Constraint: ">=3.7"},
		{Name: "urllib3", Constraint: ">=1.21.1,<3"},
		{Name: "certifi", Constraint: ">=2017.4.17", Selector: "not win"},
	}, rec.Requirements["run"])
}

func TestParseRecipeSourceUrlList(t *testing.T) {
	content := `package:
  name: foo
  version: "1.0"

source:
  url:
    - https://mirror.example.com/foo-1.0.tar.gz
    - https://pypi.io/packages/source/f/foo/foo-1.0.tar.gz

requirements:
  run:
    - python
`

	rec, err := recipe.NewLoader().Parse(content)
	require.NoError(t, err)

	assert.Equal(t, "https://mirror.example.com/foo-1.0.tar.gz", rec.SourceUrl)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "recipe"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipe", "meta.yaml"), []byte(metaYaml), 0o644))

	rec, err := recipe.NewLoader().LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "requests", rec.Name)
}

func TestLoadDirFallsBackToMetaYml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "recipe"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipe", "meta.yml"), []byte(metaYaml), 0o644))

	rec, err := recipe.NewLoader().LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "requests", rec.Name)
}

func TestLoadDirMissingRecipe(t *testing.T) {
	_, err := recipe.NewLoader().LoadDir(t.TempDir())
	assert.ErrorContains(t, err, "there is no recipe file in recipe folder (meta.yaml or meta.yml)")
}
