/*
Package pkgbuilder sequences an assembled BuildSpec into calls against a
package builder, optionally signs the result, and writes the archive to
its resolved location.

The builder itself is a collaborator described by the Builder
interface. The production implementation, returned by NewRPMBuilder,
delegates serialization, compression and signing to
github.com/google/rpmpack.
*/
package pkgbuilder

import (
	"github.com/mongodb/rpmbuilder/buildspec"
)

// Builder is the capability the orchestrator needs from a package
// building library. Implementations are used once: entries are added,
// then exactly one of Build or BuildAndSign is called.
type Builder interface {
	// AddFile adds one file entry. The source is read by the
	// builder, so a missing source is reported here or at build
	// time.
	AddFile(buildspec.FileSpec) error
	SetScriptlet(buildspec.ScriptletKind, string) error
	AddRelation(buildspec.RelationKind, buildspec.Dependency) error
	AddChangelogEntry(buildspec.ChangelogEntry) error

	// Build produces the unsigned archive.
	Build() ([]byte, error)
	// BuildAndSign produces an archive signed with the given
	// signer.
	BuildAndSign(Signer) ([]byte, error)

	// Identifier returns the name-version-release.arch string of
	// the package being built.
	Identifier() string
}

// Factory constructs a Builder for the given package identity.
type Factory func(buildspec.Metadata) (Builder, error)

// Signer produces a detached signature over the bytes it is given.
type Signer interface {
	Sign([]byte) ([]byte, error)
}
