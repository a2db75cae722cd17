package buildspec

import (
	"regexp"
	"strings"
)

// Operator is the comparison in a dependency relation. The zero value
// means any version of the named package satisfies the relation.
type Operator string

const (
	AnyVersion   Operator = ""
	Equal        Operator = "="
	Less         Operator = "<"
	LessEqual    Operator = "<="
	Greater      Operator = ">"
	GreaterEqual Operator = ">="
)

// A version never starts with an operator character, so "foo >=" is
// rejected instead of read as ">" followed by the version "=".
var dependencyPattern = regexp.MustCompile(`^([a-zA-Z0-9\-._]+)(\s*(>=|>|=|<=|<)\s*([^<>=\s].*))?$`)

const dependencyGrammar = "<name> [>|>=|=|<=|< version]"

// Dependency is a single relation against another package.
type Dependency struct {
	Name     string   `json:"name" yaml:"name"`
	Operator Operator `json:"operator,omitempty" yaml:"operator,omitempty"`
	Version  string   `json:"version,omitempty" yaml:"version,omitempty"`
}

// AnyVersionOf returns a relation satisfied by every version of name.
func AnyVersionOf(name string) Dependency {
	return Dependency{Name: name}
}

// IsAny reports whether the relation accepts any version.
func (d Dependency) IsAny() bool { return d.Operator == AnyVersion }

func (d Dependency) String() string {
	if d.IsAny() {
		return d.Name
	}

	return d.Name + " " + string(d.Operator) + " " + d.Version
}

// ParseDependency parses "<name> [<op> <version>]".
func ParseDependency(input string) (Dependency, error) {
	match := dependencyPattern.FindStringSubmatch(input)
	if match == nil {
		return Dependency{}, NewError(InvalidDependencyExpression, input,
			"use the format '"+dependencyGrammar+"'")
	}

	if match[3] == "" {
		return AnyVersionOf(match[1]), nil
	}

	return Dependency{
		Name:     match[1],
		Operator: Operator(match[3]),
		Version:  strings.TrimSpace(match[4]),
	}, nil
}

// ParseDependencies parses every input, stopping at the first invalid
// expression.
func ParseDependencies(inputs []string) ([]Dependency, error) {
	out := make([]Dependency, 0, len(inputs))
	for _, in := range inputs {
		dep, err := ParseDependency(in)
		if err != nil {
			return nil, err
		}
		out = append(out, dep)
	}

	return out, nil
}

// RelationKind is one of the dependency categories carried by a
// package.
type RelationKind string

const (
	Requires    RelationKind = "requires"
	Provides    RelationKind = "provides"
	Obsoletes   RelationKind = "obsoletes"
	Conflicts   RelationKind = "conflicts"
	Suggests    RelationKind = "suggests"
	Recommends  RelationKind = "recommends"
	Enhances    RelationKind = "enhances"
	Supplements RelationKind = "supplements"
)

// RelationKinds lists every kind in the order the builder receives
// them.
var RelationKinds = []RelationKind{
	Requires,
	Obsoletes,
	Conflicts,
	Provides,
	Suggests,
	Enhances,
	Recommends,
	Supplements,
}
