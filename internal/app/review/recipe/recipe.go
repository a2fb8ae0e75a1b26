package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const RecipeFolder = "recipe"

// Requirements sections in the order they are rendered by conda-build.
var Sections = []string{"build", "host", "run"}

var recipeFiles = []string{"meta.yaml", "meta.yml"}

// Recipe is the subset of a conda recipe the bot reasons about: the package
// identity, the upstream source url and the requirements sections.
type Recipe struct {
	Name         string
	Version      string
	SourceUrl    string
	Requirements map[string][]Dependency
}

type recipeLoader struct{}

func NewLoader() *recipeLoader {
	return &recipeLoader{}
}

// LoadDir locates and parses the recipe file inside the conventional
// "recipe" folder of a feedstock checkout.
func (l *recipeLoader) LoadDir(dir string) (*Recipe, error) {
	for _, name := range recipeFiles {
		path := filepath.Join(dir, RecipeFolder, name)
		if _, err := os.Stat(path); err == nil {
			return l.LoadFile(path)
		}
	}

	return nil, fmt.Errorf("there is no recipe file in recipe folder (meta.yaml or meta.yml)")
}

// LoadFile parses a single recipe file.
func (l *recipeLoader) LoadFile(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading recipe file '%s': %w", path, err)
	}

	return l.Parse(string(data))
}

type rawRecipe struct {
	Package struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"package"`
	Source struct {
		Url flexString `yaml:"url"`
	} `yaml:"source"`
	Requirements map[string][]string `yaml:"requirements"`
}

// Parse renders the recipe's templating to plain YAML and decodes the
// sections the bot needs.
func (l *recipeLoader) Parse(content string) (*Recipe, error) {
	rendered := renderTemplate(content)

	var raw rawRecipe
	if err := yaml.Unmarshal([]byte(rendered), &raw); err != nil {
		return nil, fmt.Errorf("error parsing recipe: %w", err)
	}

	recipe := &Recipe{
		Name:         raw.Package.Name,
		Version:      raw.Package.Version,
		SourceUrl:    string(raw.Source.Url),
		Requirements: map[string][]Dependency{},
	}

	for section, entries := range raw.Requirements {
		deps := []Dependency{}
		for _, entry := range entries {
			dep := ParseDependency(entry)
			if dep.Name == "" {
				continue
			}
			deps = append(deps, dep)
		}
		recipe.Requirements[section] = deps
	}

	return recipe, nil
}

var (
	jinjaSetRe   = regexp.MustCompile(`\{%\s*set\s+(\w+)\s*=\s*['"]?([^'"{}%]*?)['"]?\s*%\}`)
	jinjaStmtRe  = regexp.MustCompile(`\{%[^}]*%\}`)
	jinjaExprRe  = regexp.MustCompile(`\{\{\s*([^{}]*?)\s*\}\}`)
	selectorItem = regexp.MustCompile(`^(\s*-\s+)([^"'#][^#]*?)\s*(#\s*\[[^\]]*\])\s*$`)
)

// renderTemplate turns the Jinja-templated recipe into YAML that a strict
// parser accepts: simple "{% set %}" variables are substituted, all other
// template statements are dropped, and trailing "# [selector]" comments on
// sequence items are folded into the scalar so they survive decoding.
func renderTemplate(content string) string {
	vars := map[string]string{}
	for _, m := range jinjaSetRe.FindAllStringSubmatch(content, -1) {
		vars[m[1]] = strings.TrimSpace(m[2])
	}

	lines := strings.Split(content, "\n")
	rendered := make([]string, 0, len(lines))

	for _, line := range lines {
		if jinjaStmtRe.MatchString(line) {
			stripped := jinjaStmtRe.ReplaceAllString(line, "")
			if strings.TrimSpace(stripped) == "" {
				continue
			}
			line = stripped
		}

		line = jinjaExprRe.ReplaceAllStringFunc(line, func(expr string) string {
			name := strings.TrimSpace(jinjaExprRe.FindStringSubmatch(expr)[1])
			if value, ok := vars[name]; ok {
				return value
			}
			// unknown expressions, e.g. compiler('c') or pin_compatible(...)
			return ""
		})

		if m := selectorItem.FindStringSubmatch(line); m != nil {
			line = fmt.Sprintf("%s%q", m[1], strings.TrimSpace(m[2])+"  "+m[3])
		}

		rendered = append(rendered, line)
	}

	return strings.Join(rendered, "\n")
}

// flexString decodes a YAML scalar or the first element of a YAML sequence.
// Recipe source urls appear in both shapes.
type flexString string

func (f *flexString) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		if len(value.Content) == 0 {
			*f = ""
			return nil
		}
		*f = flexString(value.Content[0].Value)
	default:
		*f = flexString(value.Value)
	}
	return nil
}
