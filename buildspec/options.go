package buildspec

import "strings"

// Defaults applied to identity fields that are left empty.
const (
	DefaultVersion = "1.0.0"
	DefaultRelease = "1"
	DefaultArch    = "noarch"
	DefaultOS      = "linux"
	DefaultLicense = "MIT"
)

// Options holds the raw, unparsed inputs of one build as they arrive
// from the command line or a configuration file. Every string keeps
// its argument grammar until Assemble parses it.
type Options struct {
	Name        string  `json:"name,omitempty" yaml:"name,omitempty"`
	Epoch       *uint32 `json:"epoch,omitempty" yaml:"epoch,omitempty"`
	Version     string  `json:"version,omitempty" yaml:"version,omitempty"`
	Release     string  `json:"release,omitempty" yaml:"release,omitempty"`
	Arch        string  `json:"arch,omitempty" yaml:"arch,omitempty"`
	OS          string  `json:"os,omitempty" yaml:"os,omitempty"`
	License     string  `json:"license,omitempty" yaml:"license,omitempty"`
	Summary     string  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string  `json:"url,omitempty" yaml:"url,omitempty"`
	Vendor      string  `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Packager    string  `json:"packager,omitempty" yaml:"packager,omitempty"`
	Group       string  `json:"group,omitempty" yaml:"group,omitempty"`
	Compression string  `json:"compression,omitempty" yaml:"compression,omitempty"`
	Output      string  `json:"out,omitempty" yaml:"out,omitempty"`

	Files       []string `json:"files,omitempty" yaml:"files,omitempty"`
	ExecFiles   []string `json:"exec_files,omitempty" yaml:"exec_files,omitempty"`
	ConfigFiles []string `json:"config_files,omitempty" yaml:"config_files,omitempty"`
	DocFiles    []string `json:"doc_files,omitempty" yaml:"doc_files,omitempty"`
	Dirs        []string `json:"dirs,omitempty" yaml:"dirs,omitempty"`
	ConfigDirs  []string `json:"config_dirs,omitempty" yaml:"config_dirs,omitempty"`
	DocDirs     []string `json:"doc_dirs,omitempty" yaml:"doc_dirs,omitempty"`
	Changelog   []string `json:"changelog,omitempty" yaml:"changelog,omitempty"`

	Relations  map[RelationKind][]string `json:"relations,omitempty" yaml:"relations,omitempty"`
	Scriptlets map[ScriptletKind]string  `json:"scriptlets,omitempty" yaml:"scriptlets,omitempty"`
	SigningKey string                    `json:"sign_with_pgp_asc,omitempty" yaml:"sign_with_pgp_asc,omitempty"`
}

// Extend layers other on top of o: scalar values set in other replace
// those in o, and repeatable values are appended after o's.
func (o *Options) Extend(other Options) {
	for _, pair := range []struct {
		dst *string
		src string
	}{
		{&o.Name, other.Name},
		{&o.Version, other.Version},
		{&o.Release, other.Release},
		{&o.Arch, other.Arch},
		{&o.OS, other.OS},
		{&o.License, other.License},
		{&o.Summary, other.Summary},
		{&o.Description, other.Description},
		{&o.URL, other.URL},
		{&o.Vendor, other.Vendor},
		{&o.Packager, other.Packager},
		{&o.Group, other.Group},
		{&o.Compression, other.Compression},
		{&o.Output, other.Output},
		{&o.SigningKey, other.SigningKey},
	} {
		if pair.src != "" {
			*pair.dst = pair.src
		}
	}

	if other.Epoch != nil {
		epoch := *other.Epoch
		o.Epoch = &epoch
	}

	o.Files = append(o.Files, other.Files...)
	o.ExecFiles = append(o.ExecFiles, other.ExecFiles...)
	o.ConfigFiles = append(o.ConfigFiles, other.ConfigFiles...)
	o.DocFiles = append(o.DocFiles, other.DocFiles...)
	o.Dirs = append(o.Dirs, other.Dirs...)
	o.ConfigDirs = append(o.ConfigDirs, other.ConfigDirs...)
	o.DocDirs = append(o.DocDirs, other.DocDirs...)
	o.Changelog = append(o.Changelog, other.Changelog...)

	for kind, deps := range other.Relations {
		if len(deps) == 0 {
			continue
		}
		if o.Relations == nil {
			o.Relations = make(map[RelationKind][]string)
		}
		o.Relations[kind] = append(o.Relations[kind], deps...)
	}

	for kind, fn := range other.Scriptlets {
		if fn == "" {
			continue
		}
		if o.Scriptlets == nil {
			o.Scriptlets = make(map[ScriptletKind]string)
		}
		o.Scriptlets[kind] = fn
	}
}

func (o Options) metadata() (Metadata, error) {
	name := strings.TrimSpace(o.Name)
	if name == "" {
		return Metadata{}, NewError(InvalidOption, o.Name, "a package name is required")
	}

	compression, err := ParseCompression(o.Compression)
	if err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		Name:        name,
		Version:     valueOr(o.Version, DefaultVersion),
		Release:     valueOr(o.Release, DefaultRelease),
		Arch:        valueOr(o.Arch, DefaultArch),
		OS:          valueOr(o.OS, DefaultOS),
		License:     valueOr(o.License, DefaultLicense),
		Summary:     o.Summary,
		Description: o.Description,
		URL:         o.URL,
		Vendor:      o.Vendor,
		Packager:    o.Packager,
		Group:       o.Group,
		Compression: compression,
	}
	if o.Epoch != nil {
		meta.Epoch = *o.Epoch
	}

	return meta, nil
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
