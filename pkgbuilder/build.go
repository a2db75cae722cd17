package pkgbuilder

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/rpmbuilder/buildspec"
	"github.com/pkg/errors"
)

// Options controls how a BuildSpec is turned into a file.
type Options struct {
	// Output is the user supplied output path, which may be empty,
	// a directory or a file name.
	Output string

	// Passphrase unlocks an encrypted signing key.
	Passphrase []byte

	// Factory creates the package builder. Defaults to
	// NewRPMBuilder.
	Factory Factory

	// LoadSigner loads the signing key named by the BuildSpec.
	// Defaults to LoadPGPSigner.
	LoadSigner func(fn string, passphrase []byte) (Signer, error)
}

// Result describes a written package.
type Result struct {
	Path       string `json:"path" yaml:"path"`
	Identifier string `json:"identifier" yaml:"identifier"`
	Size       int    `json:"size" yaml:"size"`
	Signed     bool   `json:"signed" yaml:"signed"`
}

// Build feeds spec to a new builder, builds the package, signing it
// when the BuildSpec names a key, and writes it to the resolved output
// path. Any failure aborts the run before the output file is created.
func Build(spec *buildspec.BuildSpec, opts Options) (*Result, error) {
	if spec == nil {
		return nil, errors.New("no build spec")
	}
	if opts.Factory == nil {
		opts.Factory = NewRPMBuilder
	}
	if opts.LoadSigner == nil {
		opts.LoadSigner = LoadPGPSigner
	}

	builder, err := opts.Factory(spec.Metadata)
	if err != nil {
		return nil, errors.Wrapf(err, "creating builder for %s", spec.Metadata.Name)
	}

	if err = populate(builder, spec); err != nil {
		return nil, err
	}

	var signer Signer
	if spec.SigningKey != "" {
		signer, err = opts.LoadSigner(spec.SigningKey, opts.Passphrase)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create signer from private key %s", spec.SigningKey)
		}
	}

	var data []byte
	if signer != nil {
		data, err = builder.BuildAndSign(signer)
	} else {
		data, err = builder.Build()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "building %s", spec.Metadata.Name)
	}

	res := &Result{
		Identifier: builder.Identifier(),
		Size:       len(data),
		Signed:     signer != nil,
	}
	res.Path = ResolveOutputPath(opts.Output, res.Identifier)

	if err = writeArtifact(res.Path, data); err != nil {
		return nil, errors.Wrapf(err, "unable to write package to path %s", res.Path)
	}

	grip.Info(message.Fields{
		"message":    "wrote package",
		"path":       res.Path,
		"identifier": res.Identifier,
		"size":       res.Size,
		"signed":     res.Signed,
		"files":      len(spec.Files),
	})

	return res, nil
}

// populate adds files, scriptlets, changelog entries and relations to
// the builder in that order.
func populate(builder Builder, spec *buildspec.BuildSpec) error {
	for _, f := range spec.Files {
		if err := builder.AddFile(f); err != nil {
			return errors.Wrapf(err, "error adding %s file %s", fileClass(f), f.Source)
		}
	}

	for _, kind := range buildspec.ScriptletKinds {
		body, ok := spec.Scriptlets[kind]
		if !ok {
			continue
		}
		if err := builder.SetScriptlet(kind, body); err != nil {
			return errors.Wrapf(err, "error adding %s script", kind)
		}
	}

	for _, entry := range spec.Changelog {
		if err := builder.AddChangelogEntry(entry); err != nil {
			return errors.Wrapf(err, "error adding changelog entry by %s", entry.Author)
		}
	}

	for _, kind := range buildspec.RelationKinds {
		for _, dep := range spec.Relations[kind] {
			if err := builder.AddRelation(kind, dep); err != nil {
				return errors.Wrapf(err, "error adding %s '%s'", kind, dep)
			}
		}
	}

	if !spec.HasRelation(buildspec.Provides, spec.Metadata.Name) {
		self := buildspec.Dependency{
			Name:     spec.Metadata.Name,
			Operator: buildspec.Equal,
			Version:  spec.Metadata.FullVersion(),
		}
		if err := builder.AddRelation(buildspec.Provides, self); err != nil {
			return errors.Wrap(err, "error adding self provides")
		}
	}

	grip.Debug(message.Fields{
		"message":    "populated builder",
		"identifier": builder.Identifier(),
		"files":      len(spec.Files),
		"changelog":  len(spec.Changelog),
		"scriptlets": len(spec.Scriptlets),
	})

	return nil
}

func fileClass(f buildspec.FileSpec) buildspec.FileClass {
	switch {
	case f.Config:
		return buildspec.ConfigFile
	case f.Doc:
		return buildspec.DocFile
	case f.Mode != 0:
		return buildspec.ExecutableFile
	default:
		return buildspec.PlainFile
	}
}
