package recipe

import (
	"fmt"
	"regexp"
	"strings"
)

// Dependency is a single requirements entry of a conda recipe. A raw entry
// looks like "name constraint  # [selector]"; constraint and selector are
// both optional.
type Dependency struct {
	Name       string
	Constraint string
	Selector   string
}

var selectorRe = regexp.MustCompile(`#\s*\[([^\]]*)\]\s*$`)

// ParseDependency parses a raw requirements entry. Entries that render to
// nothing (templated compiler stanzas) produce a Dependency with an empty
// Name, which callers skip.
func ParseDependency(entry string) Dependency {
	dep := Dependency{}

	if m := selectorRe.FindStringSubmatch(entry); m != nil {
		dep.Selector = strings.TrimSpace(m[1])
		entry = entry[:len(entry)-len(m[0])]
	}

	fields := strings.Fields(entry)
	if len(fields) == 0 {
		return dep
	}

	dep.Name = fields[0]
	if len(fields) > 1 {
		dep.Constraint = strings.Join(fields[1:], " ")
	}

	return dep
}

// String renders the entry back in the recipe's own notation.
func (d Dependency) String() string {
	str := d.Name
	if d.Constraint != "" {
		str += " " + d.Constraint
	}
	if d.Selector != "" {
		str += fmt.Sprintf("  # [%s]", d.Selector)
	}
	return str
}

func (d Dependency) Equal(other Dependency) bool {
	return d.Name == other.Name && d.Constraint == other.Constraint && d.Selector == other.Selector
}
