package buildspec

import (
	"fmt"
	"os"
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// Compression names the payload compression requested from the
// builder.
type Compression string

const (
	Gzip          Compression = "gzip"
	Zstd          Compression = "zstd"
	NoCompression Compression = "none"
	Xz            Compression = "xz"
	Lzma          Compression = "lzma"

	// DefaultCompression is used when no compression is requested.
	DefaultCompression = NoCompression
)

// ParseCompression validates a compression name. The empty string
// selects the default.
func ParseCompression(name string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(name))); c {
	case "":
		return DefaultCompression, nil
	case Gzip, Zstd, NoCompression, Xz, Lzma:
		return c, nil
	default:
		return "", NewError(InvalidOption, name, "compression must be one of gzip|zstd|none|xz|lzma")
	}
}

// ScriptletKind identifies an install or uninstall hook.
type ScriptletKind string

const (
	PreInstall    ScriptletKind = "pre-install"
	PostInstall   ScriptletKind = "post-install"
	PreUninstall  ScriptletKind = "pre-uninstall"
	PostUninstall ScriptletKind = "post-uninstall"
)

// ScriptletKinds lists the hooks in the order they are loaded.
var ScriptletKinds = []ScriptletKind{PreInstall, PostInstall, PreUninstall, PostUninstall}

// Metadata holds the identity fields of a package.
type Metadata struct {
	Name        string      `json:"name" yaml:"name"`
	Epoch       uint32      `json:"epoch" yaml:"epoch"`
	Version     string      `json:"version" yaml:"version"`
	Release     string      `json:"release" yaml:"release"`
	Arch        string      `json:"arch" yaml:"arch"`
	OS          string      `json:"os" yaml:"os"`
	License     string      `json:"license" yaml:"license"`
	Summary     string      `json:"summary" yaml:"summary"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string      `json:"url,omitempty" yaml:"url,omitempty"`
	Vendor      string      `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Packager    string      `json:"packager,omitempty" yaml:"packager,omitempty"`
	Group       string      `json:"group,omitempty" yaml:"group,omitempty"`
	Compression Compression `json:"compression" yaml:"compression"`
}

// FullVersion renders "[epoch:]version-release".
func (m Metadata) FullVersion() string {
	v := m.Version
	if m.Release != "" {
		v = fmt.Sprintf("%s-%s", v, m.Release)
	}
	if m.Epoch > 0 {
		v = fmt.Sprintf("%d:%s", m.Epoch, v)
	}

	return v
}

// Identifier renders the name-version-release.arch string used to
// name the package file.
func (m Metadata) Identifier() string {
	return fmt.Sprintf("%s-%s-%s.%s", m.Name, m.Version, m.Release, m.Arch)
}

// BuildSpec is everything needed to produce one package. Files are in
// the order the builder receives them.
type BuildSpec struct {
	Metadata   Metadata                      `json:"metadata" yaml:"metadata"`
	Files      []FileSpec                    `json:"files" yaml:"files"`
	Relations  map[RelationKind][]Dependency `json:"relations,omitempty" yaml:"relations,omitempty"`
	Changelog  []ChangelogEntry              `json:"changelog,omitempty" yaml:"changelog,omitempty"`
	Scriptlets map[ScriptletKind]string      `json:"scriptlets,omitempty" yaml:"scriptlets,omitempty"`
	SigningKey string                        `json:"signing_key,omitempty" yaml:"signing_key,omitempty"`
}

// HasRelation reports whether a relation of the given kind names pkg.
func (s *BuildSpec) HasRelation(kind RelationKind, pkg string) bool {
	for _, dep := range s.Relations[kind] {
		if dep.Name == pkg {
			return true
		}
	}

	return false
}

// Assemble runs every parser over opts, walks the directory mappings
// and loads scriptlet bodies. The first failure aborts assembly, so a
// BuildSpec is either complete or not returned at all.
func Assemble(opts Options) (*BuildSpec, error) {
	meta, err := opts.metadata()
	if err != nil {
		return nil, err
	}

	spec := &BuildSpec{
		Metadata:   meta,
		Relations:  make(map[RelationKind][]Dependency),
		Scriptlets: make(map[ScriptletKind]string),
		SigningKey: opts.SigningKey,
	}

	for _, group := range []struct {
		inputs []string
		class  FileClass
	}{
		{inputs: opts.Files, class: PlainFile},
		{inputs: opts.ExecFiles, class: ExecutableFile},
		{inputs: opts.ConfigFiles, class: ConfigFile},
	} {
		files, err := ParseFileEntries(group.inputs, group.class)
		if err != nil {
			return nil, errors.Wrapf(err, "adding %s", group.class)
		}
		spec.Files = append(spec.Files, files...)
	}

	for _, group := range []struct {
		inputs []string
		kind   DirectoryKind
	}{
		{inputs: opts.Dirs, kind: PlainDirectory},
		{inputs: opts.ConfigDirs, kind: ConfigDirectory},
		{inputs: opts.DocDirs, kind: DocDirectory},
	} {
		for _, in := range group.inputs {
			mapping, err := ParseDirectoryMapping(in, group.kind)
			if err != nil {
				return nil, errors.Wrapf(err, "adding %s", group.kind)
			}
			files, err := WalkDirectory(mapping)
			if err != nil {
				return nil, errors.Wrapf(err, "adding %s %s", group.kind, mapping.Source)
			}
			grip.Debug(message.Fields{
				"message":     "expanded directory",
				"source":      mapping.Source,
				"destination": mapping.Destination,
				"kind":        mapping.Kind,
				"files":       len(files),
			})
			spec.Files = append(spec.Files, files...)
		}
	}

	docs, err := ParseFileEntries(opts.DocFiles, DocFile)
	if err != nil {
		return nil, errors.Wrapf(err, "adding %s", DocFile)
	}
	spec.Files = append(spec.Files, docs...)

	for _, kind := range ScriptletKinds {
		fn := opts.Scriptlets[kind]
		if fn == "" {
			continue
		}
		body, err := os.ReadFile(fn)
		if err != nil {
			return nil, errors.Wrapf(WrapError(err, IoFailure, fn), "reading %s script", kind)
		}
		spec.Scriptlets[kind] = string(body)
	}

	spec.Changelog, err = ParseChangelogEntries(opts.Changelog)
	if err != nil {
		return nil, errors.Wrap(err, "adding changelog")
	}

	for _, kind := range RelationKinds {
		deps, err := ParseDependencies(opts.Relations[kind])
		if err != nil {
			return nil, errors.Wrapf(err, "adding %s", kind)
		}
		if len(deps) > 0 {
			spec.Relations[kind] = deps
		}
	}

	return spec, nil
}
