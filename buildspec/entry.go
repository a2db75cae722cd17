package buildspec

import (
	"os"
	"strings"
)

const (
	// entrySeparator splits every delimited argument: files,
	// directories and changelog entries. There is no escaping.
	entrySeparator = ":"

	entryGrammar = "<source-path>:<dest-path>"
)

// ExecutableMode is the permission applied to files added with the
// executable class.
const ExecutableMode os.FileMode = 0755

// FileSpec describes one file to place in the package. Mode is an
// override: zero means the builder uses the source file's own
// permissions.
type FileSpec struct {
	Source      string      `json:"source" yaml:"source"`
	Destination string      `json:"destination" yaml:"destination"`
	Mode        os.FileMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Config      bool        `json:"config,omitempty" yaml:"config,omitempty"`
	Doc         bool        `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// FileClass selects the attributes assigned to a parsed file entry.
type FileClass string

const (
	PlainFile      FileClass = "file"
	ExecutableFile FileClass = "exec-file"
	ConfigFile     FileClass = "config-file"
	DocFile        FileClass = "doc-file"
)

// splitPair splits s on the entry separator into exactly two
// non-empty segments.
func splitPair(s string) (string, string, bool) {
	parts := strings.Split(s, entrySeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	return parts[0], parts[1], true
}

// ParseFileEntry parses a "<source-path>:<dest-path>" argument and
// applies the attributes of the given class.
func ParseFileEntry(input string, class FileClass) (FileSpec, error) {
	src, dest, ok := splitPair(input)
	if !ok {
		return FileSpec{}, NewError(MalformedEntry, input,
			"it needs to be of the form "+entryGrammar)
	}

	spec := FileSpec{Source: src, Destination: dest}
	switch class {
	case ExecutableFile:
		spec.Mode = ExecutableMode
	case ConfigFile:
		spec.Config = true
	case DocFile:
		spec.Doc = true
	}

	return spec, nil
}

// ParseFileEntries parses every input with the same class, stopping at
// the first malformed entry.
func ParseFileEntries(inputs []string, class FileClass) ([]FileSpec, error) {
	out := make([]FileSpec, 0, len(inputs))
	for _, in := range inputs {
		spec, err := ParseFileEntry(in, class)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}

	return out, nil
}
