package buildspec

import (
	"os"
	"path"
	"path/filepath"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// DirectoryKind marks every file found under a directory mapping.
type DirectoryKind string

const (
	PlainDirectory  DirectoryKind = "dir"
	ConfigDirectory DirectoryKind = "config-dir"
	DocDirectory    DirectoryKind = "doc-dir"
)

// DirectoryMapping maps a source tree onto a destination root in the
// package.
type DirectoryMapping struct {
	Source      string        `json:"source" yaml:"source"`
	Destination string        `json:"destination" yaml:"destination"`
	Kind        DirectoryKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// ParseDirectoryMapping parses a "<source-dir>:<dest-dir>" argument.
func ParseDirectoryMapping(input string, kind DirectoryKind) (DirectoryMapping, error) {
	src, dest, ok := splitPair(input)
	if !ok {
		return DirectoryMapping{}, NewError(MalformedEntry, input,
			"it needs to be of the form <source-dir>:<dest-dir>")
	}

	return DirectoryMapping{Source: src, Destination: dest, Kind: kind}, nil
}

// WalkDirectory expands a mapping into one FileSpec per regular file
// below its source root. Each recursive call returns its own entries
// and the caller appends them, so nothing is shared between levels.
//
// A symbolic link is not packaged as a link: the link value is read and
// used as the source path. The link is classified by its own metadata,
// so it is never descended into, and a relative link value is passed on
// unchanged. Entries come back in the order os.ReadDir lists them.
func WalkDirectory(m DirectoryMapping) ([]FileSpec, error) {
	return walk(m.Source, m.Destination, m.Kind)
}

func walk(source, destination string, kind DirectoryKind) ([]FileSpec, error) {
	entries, err := os.ReadDir(source)
	if err != nil {
		return nil, WrapError(errors.Wrap(err, "reading directory"), IoFailure, source)
	}

	var out []FileSpec
	for _, entry := range entries {
		entryPath := filepath.Join(source, entry.Name())
		effective := entryPath

		if entry.Type()&os.ModeSymlink != 0 {
			target, err := os.Readlink(entryPath)
			if err != nil {
				return nil, WrapError(errors.Wrap(err, "reading symlink"), IoFailure, entryPath)
			}
			grip.Debug(message.Fields{
				"message": "using symlink target as source",
				"link":    entryPath,
				"target":  target,
			})
			effective = target
		}

		name, ok := baseName(effective)
		if !ok {
			return nil, NewError(PathHasNoFilename, effective,
				"found while walking "+source)
		}
		target := path.Join(destination, name)

		if entry.IsDir() {
			children, err := walk(effective, target, kind)
			if err != nil {
				return nil, err
			}
			out = append(out, children...)
			continue
		}

		out = append(out, FileSpec{
			Source:      effective,
			Destination: target,
			Config:      kind == ConfigDirectory,
			Doc:         kind == DocDirectory,
		})
	}

	return out, nil
}

// baseName returns the last element of p, reporting false when p has
// no file name component.
func baseName(p string) (string, bool) {
	if p == "" {
		return "", false
	}

	name := filepath.Base(p)
	switch name {
	case string(filepath.Separator), ".", "..":
		return "", false
	}

	return name, true
}
