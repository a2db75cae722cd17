package pkgbuilder

import (
	"bytes"
	"os"
	"path"
	"time"

	"github.com/google/rpmpack"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/rpmbuilder/buildspec"
	"github.com/pkg/errors"
)

// Header tags that rpmpack does not model directly.
const (
	tagChangelogTime = 1080
	tagChangelogName = 1081
	tagChangelogText = 1082

	tagSupplementName    = 5052
	tagSupplementVersion = 5053
	tagSupplementFlags   = 5054
	tagEnhanceName       = 5055
	tagEnhanceVersion    = 5056
	tagEnhanceFlags      = 5057
)

const (
	regularFileType = 0100000
	fileOwner       = "root"
)

// compressors maps compression names to rpmpack compressor settings.
// rpmpack has no uncompressed payload, so "none" is stored gzip.
var compressors = map[buildspec.Compression]string{
	buildspec.Gzip:          "gzip",
	buildspec.Zstd:          "zstd",
	buildspec.Xz:            "xz",
	buildspec.Lzma:          "lzma",
	buildspec.NoCompression: "gzip:0",
}

// rpmBuilder adapts rpmpack to the Builder interface.
type rpmBuilder struct {
	rpm         *rpmpack.RPM
	enhances    []buildspec.Dependency
	supplements []buildspec.Dependency
	changelog   []buildspec.ChangelogEntry
	built       bool
}

// NewRPMBuilder returns a Builder that produces RPM archives with
// rpmpack.
func NewRPMBuilder(meta buildspec.Metadata) (Builder, error) {
	compressor, ok := compressors[meta.Compression]
	if !ok {
		return nil, buildspec.NewError(buildspec.InvalidOption, string(meta.Compression), "unsupported compression")
	}

	host, err := os.Hostname()
	if err != nil {
		grip.Warning(message.WrapError(err, message.Fields{
			"message": "could not determine build host",
		}))
		host = "localhost"
	}

	r, err := rpmpack.NewRPM(rpmpack.RPMMetaData{
		Name:        meta.Name,
		Epoch:       meta.Epoch,
		Version:     meta.Version,
		Release:     meta.Release,
		Arch:        meta.Arch,
		OS:          meta.OS,
		Licence:     meta.License,
		Summary:     meta.Summary,
		Description: meta.Description,
		URL:         meta.URL,
		Vendor:      meta.Vendor,
		Packager:    meta.Packager,
		Group:       meta.Group,
		Compressor:  compressor,
		BuildHost:   host,
		BuildTime:   time.Now(),
	})
	if err != nil {
		return nil, buildspec.WrapError(errors.Wrap(err, "creating rpm"), buildspec.BuilderFailure, meta.Name)
	}
	// rpmpack provides the package without its epoch; Build adds the
	// self provides when the caller has not.
	r.Provides = nil

	return &rpmBuilder{rpm: r}, nil
}

func (b *rpmBuilder) Identifier() string {
	return buildspec.Metadata{
		Name:    b.rpm.Name,
		Version: b.rpm.Version,
		Release: b.rpm.Release,
		Arch:    b.rpm.Arch,
	}.Identifier()
}

func (b *rpmBuilder) AddFile(f buildspec.FileSpec) error {
	if !path.IsAbs(f.Destination) {
		return buildspec.NewError(buildspec.BuilderFailure, f.Destination,
			"destination of "+f.Source+" must be an absolute path")
	}

	info, err := os.Stat(f.Source)
	if err != nil {
		return buildspec.WrapError(err, buildspec.IoFailure, f.Source)
	}
	if info.IsDir() {
		return buildspec.NewError(buildspec.BuilderFailure, f.Source, "is a directory, not a file")
	}

	body, err := os.ReadFile(f.Source)
	if err != nil {
		return buildspec.WrapError(err, buildspec.IoFailure, f.Source)
	}

	mode := info.Mode().Perm()
	if f.Mode != 0 {
		mode = f.Mode.Perm()
	}

	file := rpmpack.RPMFile{
		Name:  f.Destination,
		Body:  body,
		Mode:  uint(mode) | regularFileType,
		Owner: fileOwner,
		Group: fileOwner,
		MTime: uint32(info.ModTime().Unix()),
	}
	switch {
	case f.Config:
		file.Type = rpmpack.ConfigFile
	case f.Doc:
		file.Type = rpmpack.DocFile
	}

	b.rpm.AddFile(file)

	return nil
}

func (b *rpmBuilder) SetScriptlet(kind buildspec.ScriptletKind, body string) error {
	switch kind {
	case buildspec.PreInstall:
		b.rpm.AddPrein(body)
	case buildspec.PostInstall:
		b.rpm.AddPostin(body)
	case buildspec.PreUninstall:
		b.rpm.AddPreun(body)
	case buildspec.PostUninstall:
		b.rpm.AddPostun(body)
	default:
		return buildspec.NewError(buildspec.BuilderFailure, string(kind), "unknown scriptlet")
	}

	return nil
}

func (b *rpmBuilder) AddRelation(kind buildspec.RelationKind, dep buildspec.Dependency) error {
	rel := relation(dep)

	switch kind {
	case buildspec.Requires:
		b.rpm.Requires = appendRelation(b.rpm.Requires, rel)
	case buildspec.Provides:
		b.rpm.Provides = appendRelation(b.rpm.Provides, rel)
	case buildspec.Obsoletes:
		b.rpm.Obsoletes = appendRelation(b.rpm.Obsoletes, rel)
	case buildspec.Conflicts:
		b.rpm.Conflicts = appendRelation(b.rpm.Conflicts, rel)
	case buildspec.Suggests:
		b.rpm.Suggests = appendRelation(b.rpm.Suggests, rel)
	case buildspec.Recommends:
		b.rpm.Recommends = appendRelation(b.rpm.Recommends, rel)
	case buildspec.Enhances:
		b.enhances = append(b.enhances, dep)
	case buildspec.Supplements:
		b.supplements = append(b.supplements, dep)
	default:
		return buildspec.NewError(buildspec.BuilderFailure, dep.String(), "unknown relation kind "+string(kind))
	}

	return nil
}

func (b *rpmBuilder) AddChangelogEntry(entry buildspec.ChangelogEntry) error {
	b.changelog = append(b.changelog, entry)
	return nil
}

func (b *rpmBuilder) Build() ([]byte, error) {
	return b.write()
}

func (b *rpmBuilder) BuildAndSign(s Signer) ([]byte, error) {
	if s == nil {
		return nil, buildspec.NewError(buildspec.SigningFailure, b.Identifier(), "no signer")
	}
	b.rpm.SetPGPSigner(s.Sign)

	return b.write()
}

func (b *rpmBuilder) write() ([]byte, error) {
	if b.built {
		return nil, buildspec.NewError(buildspec.BuilderFailure, b.Identifier(), "package was already built")
	}
	b.built = true

	b.addCustomTags()

	var buf bytes.Buffer
	if err := b.rpm.Write(&buf); err != nil {
		return nil, buildspec.WrapError(errors.Wrap(err, "writing rpm"), buildspec.BuilderFailure, b.Identifier())
	}

	return buf.Bytes(), nil
}

func (b *rpmBuilder) addCustomTags() {
	if len(b.changelog) > 0 {
		times := make([]int32, 0, len(b.changelog))
		names := make([]string, 0, len(b.changelog))
		texts := make([]string, 0, len(b.changelog))
		for _, entry := range b.changelog {
			times = append(times, int32(entry.Timestamp()))
			names = append(names, entry.Author)
			texts = append(texts, entry.Description)
		}
		b.rpm.AddCustomTag(tagChangelogTime, rpmpack.EntryInt32(times))
		b.rpm.AddCustomTag(tagChangelogName, rpmpack.EntryStringSlice(names))
		b.rpm.AddCustomTag(tagChangelogText, rpmpack.EntryStringSlice(texts))
	}

	b.addRelationTags(b.enhances, tagEnhanceName, tagEnhanceVersion, tagEnhanceFlags)
	b.addRelationTags(b.supplements, tagSupplementName, tagSupplementVersion, tagSupplementFlags)
}

func (b *rpmBuilder) addRelationTags(deps []buildspec.Dependency, nameTag, versionTag, flagsTag int) {
	if len(deps) == 0 {
		return
	}

	names := make([]string, 0, len(deps))
	versions := make([]string, 0, len(deps))
	flags := make([]uint32, 0, len(deps))
	for _, dep := range deps {
		rel := relation(dep)
		names = append(names, rel.Name)
		versions = append(versions, rel.Version)
		flags = append(flags, uint32(rel.Sense))
	}

	b.rpm.AddCustomTag(nameTag, rpmpack.EntryStringSlice(names))
	b.rpm.AddCustomTag(versionTag, rpmpack.EntryStringSlice(versions))
	b.rpm.AddCustomTag(flagsTag, rpmpack.EntryUint32(flags))
}

func appendRelation(rels rpmpack.Relations, rel *rpmpack.Relation) rpmpack.Relations {
	for _, existing := range rels {
		if existing.Equal(rel) {
			return rels
		}
	}

	return append(rels, rel)
}

func relation(dep buildspec.Dependency) *rpmpack.Relation {
	rel := &rpmpack.Relation{Name: dep.Name, Version: dep.Version}

	switch dep.Operator {
	case buildspec.Equal:
		rel.Sense = rpmpack.SenseEqual
	case buildspec.Less:
		rel.Sense = rpmpack.SenseLess
	case buildspec.LessEqual:
		rel.Sense = rpmpack.SenseLess | rpmpack.SenseEqual
	case buildspec.Greater:
		rel.Sense = rpmpack.SenseGreater
	case buildspec.GreaterEqual:
		rel.Sense = rpmpack.SenseGreater | rpmpack.SenseEqual
	default:
		rel.Sense = rpmpack.SenseAny
		rel.Version = ""
	}

	return rel
}
