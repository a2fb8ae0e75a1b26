package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/marcelotrevisani/roboto/internal/app/review/recipe"
)

// Advisor regenerates the requirements a recipe should carry from the
// package's published metadata on the index, the same way a recipe
// generator would derive them from the sdist.
type Advisor struct {
	baseUrl string
	client  *http.Client
}

func New(baseUrl string) *Advisor {
	return &Advisor{
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type projectMetadata struct {
	Info struct {
		Name           string   `json:"name"`
		RequiresPython string   `json:"requires_python"`
		RequiresDist   []string `json:"requires_dist"`
	} `json:"info"`
}

// GenerateRequirements fetches the project metadata for name/version and
// maps it to conda-style host and run requirements.
func (a *Advisor) GenerateRequirements(ctx context.Context, name, version string) (map[string][]recipe.Dependency, error) {
	url := fmt.Sprintf("%s/pypi/%s/%s/json", a.baseUrl, name, version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building metadata request for '%s %s': %w", name, version, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching metadata for '%s %s': %w", name, version, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching metadata for '%s %s'", resp.StatusCode, name, version)
	}

	var meta projectMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("error decoding metadata for '%s %s': %w", name, version, err)
	}

	python := recipe.Dependency{Name: "python"}
	if meta.Info.RequiresPython != "" {
		python.Constraint = strings.ReplaceAll(meta.Info.RequiresPython, " ", "")
	}

	run := []recipe.Dependency{python}
	for _, dist := range meta.Info.RequiresDist {
		dep, ok := parseRequiresDist(dist)
		if !ok {
			continue
		}
		run = append(run, dep)
	}

	return map[string][]recipe.Dependency{
		"host": {python, {Name: "pip"}},
		"run":  run,
	}, nil
}

var (
	distConstraintRe = regexp.MustCompile(`\(([^)]*)\)`)
	platformMarkerRe = regexp.MustCompile(`sys_platform\s*==\s*['"](\w+)['"]`)
)

var platformSelectors = map[string]string{
	"win32":  "win",
	"linux":  "linux",
	"darwin": "osx",
}

// parseRequiresDist maps a requirement of the form
// "name (>=1.0) ; marker" to a conda dependency. Requirements guarded by
// an extra are optional and skipped.
func parseRequiresDist(dist string) (recipe.Dependency, bool) {
	spec, marker, _ := strings.Cut(dist, ";")
	spec = strings.TrimSpace(spec)
	marker = strings.TrimSpace(marker)

	if strings.Contains(marker, "extra") {
		return recipe.Dependency{}, false
	}

	dep := recipe.Dependency{}
	if m := platformMarkerRe.FindStringSubmatch(marker); m != nil {
		if selector, ok := platformSelectors[m[1]]; ok {
			dep.Selector = selector
		}
	}

	// older index metadata wraps the constraint in parentheses
	if m := distConstraintRe.FindStringSubmatch(spec); m != nil {
		dep.Constraint = strings.ReplaceAll(m[1], " ", "")
		spec = strings.TrimSpace(spec[:strings.Index(spec, "(")])
	} else if i := strings.IndexAny(spec, "<>=!~"); i >= 0 {
		dep.Constraint = strings.ReplaceAll(spec[i:], " ", "")
		spec = strings.TrimSpace(spec[:i])
	}

	dep.Name = strings.ToLower(strings.TrimSpace(spec))
	if dep.Name == "" {
		return recipe.Dependency{}, false
	}

	return dep, true
}
