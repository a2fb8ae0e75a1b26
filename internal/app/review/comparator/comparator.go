package comparator

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/marcelotrevisani/roboto/internal/app/review/recipe"
)

const (
	markerMatch    = ":heavy_check_mark:"
	markerMismatch = ":heavy_exclamation_mark:"
	markerMissing  = ":x:"
	markerAdded    = ":heavy_plus_sign:"
)

type comparator struct{}

func New() *comparator {
	return &comparator{}
}

// RenderComparison renders one markdown table per requirements section
// present in the current recipe, comparing it against the regenerated
// requirements. Sections keep conda-build order; rows follow the recipe's
// own ordering, with regenerated-only entries appended sorted by name.
func (c *comparator) RenderComparison(current, generated map[string][]recipe.Dependency) string {
	tables := []string{}

	for _, section := range recipe.Sections {
		if _, ok := current[section]; !ok {
			continue
		}
		tables = append(tables, c.renderSection(section, current[section], generated[section]))
	}

	return strings.Join(tables, "\n\n")
}

func (c *comparator) renderSection(section string, current, generated []recipe.Dependency) string {
	generatedByName := map[string]recipe.Dependency{}
	for _, dep := range generated {
		generatedByName[dep.Name] = dep
	}
	currentNames := map[string]bool{}
	for _, dep := range current {
		currentNames[dep.Name] = true
	}

	var table strings.Builder
	fmt.Fprintf(&table, "================ **%s** ================", strings.ToUpper(section))
	fmt.Fprintf(&table, "\nRequirements for **%s**\n", section)
	table.WriteString("| Current Deps | Grayskull found |  |\n")
	table.WriteString("|--------------|-----------------|--|\n")

	for _, dep := range current {
		found, ok := generatedByName[dep.Name]
		switch {
		case ok && dep.Equal(found):
			fmt.Fprintf(&table, "| %s | %s | %s |\n", dep, found, markerMatch)
		case ok:
			fmt.Fprintf(&table, "| %s | %s | %s |\n", dep, found, markerMismatch)
		default:
			fmt.Fprintf(&table, "| %s |  | %s |\n", dep, markerMissing)
		}
	}

	added := treeset.NewWithStringComparator()
	for _, dep := range generated {
		if !currentNames[dep.Name] {
			added.Add(dep.String())
		}
	}
	added.Each(func(_ int, value interface{}) {
		fmt.Fprintf(&table, "| | %s | %s |\n", value, markerAdded)
	})

	return table.String()
}
