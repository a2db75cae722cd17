package pkgbuilder

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/rpmpack"
	"github.com/mongodb/rpmbuilder/buildspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rpmLeadMagic = []byte{0xed, 0xab, 0xee, 0xdb}

func testMetadata() buildspec.Metadata {
	return buildspec.Metadata{
		Name:        "pkg",
		Version:     "1.0.0",
		Release:     "1",
		Arch:        "noarch",
		OS:          "linux",
		License:     "MIT",
		Compression: buildspec.DefaultCompression,
	}
}

func newTestBuilder(t *testing.T, meta buildspec.Metadata) *rpmBuilder {
	b, err := NewRPMBuilder(meta)
	require.NoError(t, err)
	rb, ok := b.(*rpmBuilder)
	require.True(t, ok)
	return rb
}

type countingSigner struct {
	calls int
}

func (s *countingSigner) Sign(data []byte) ([]byte, error) {
	s.calls++
	return []byte("signature"), nil
}

func TestRPMBuilder(t *testing.T) {
	t.Run("NameOnlyPackage", func(t *testing.T) {
		b := newTestBuilder(t, testMetadata())
		assert.Equal(t, "pkg-1.0.0-1.noarch", b.Identifier())
		assert.Empty(t, b.rpm.Provides)

		data, err := b.Build()
		require.NoError(t, err)
		require.True(t, len(data) > 96)
		assert.Equal(t, rpmLeadMagic, data[:4])
		assert.True(t, bytes.HasPrefix(data[10:], []byte("pkg-1.0.0-1")))
	})
	t.Run("CannotBuildTwice", func(t *testing.T) {
		b := newTestBuilder(t, testMetadata())
		_, err := b.Build()
		require.NoError(t, err)

		_, err = b.Build()
		require.Error(t, err)
		assert.Equal(t, buildspec.BuilderFailure, buildspec.KindOf(err))
	})
	t.Run("EveryCompression", func(t *testing.T) {
		for _, c := range []buildspec.Compression{
			buildspec.Gzip,
			buildspec.Zstd,
			buildspec.Xz,
			buildspec.Lzma,
			buildspec.NoCompression,
		} {
			t.Run(string(c), func(t *testing.T) {
				meta := testMetadata()
				meta.Compression = c
				b := newTestBuilder(t, meta)

				data, err := b.Build()
				require.NoError(t, err)
				assert.Equal(t, rpmLeadMagic, data[:4])
			})
		}
	})
	t.Run("UnknownCompression", func(t *testing.T) {
		meta := testMetadata()
		meta.Compression = "brotli"
		_, err := NewRPMBuilder(meta)
		require.Error(t, err)
		assert.Equal(t, buildspec.InvalidOption, buildspec.KindOf(err))
	})
	t.Run("SignsHeaderAndPayload", func(t *testing.T) {
		b := newTestBuilder(t, testMetadata())
		signer := &countingSigner{}

		data, err := b.BuildAndSign(signer)
		require.NoError(t, err)
		assert.Equal(t, rpmLeadMagic, data[:4])
		assert.Equal(t, 2, signer.calls)
	})
	t.Run("NilSigner", func(t *testing.T) {
		b := newTestBuilder(t, testMetadata())
		_, err := b.BuildAndSign(nil)
		require.Error(t, err)
		assert.Equal(t, buildspec.SigningFailure, buildspec.KindOf(err))
	})
}

func TestRPMBuilderFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0640))

	t.Run("UsesSourcePermissions", func(t *testing.T) {
		b := newTestBuilder(t, testMetadata())
		require.NoError(t, b.AddFile(buildspec.FileSpec{Source: src, Destination: "/usr/bin/tool"}))

		data, err := b.Build()
		require.NoError(t, err)
		assert.True(t, bytes.Contains(data, []byte("tool")))
	})
	t.Run("ModeOverride", func(t *testing.T) {
		b := newTestBuilder(t, testMetadata())
		require.NoError(t, b.AddFile(buildspec.FileSpec{
			Source:      src,
			Destination: "/usr/bin/tool",
			Mode:        buildspec.ExecutableMode,
		}))
		_, err := b.Build()
		require.NoError(t, err)
	})
	t.Run("ConfigAndDocFiles", func(t *testing.T) {
		b := newTestBuilder(t, testMetadata())
		require.NoError(t, b.AddFile(buildspec.FileSpec{Source: src, Destination: "/etc/tool.conf", Config: true}))
		require.NoError(t, b.AddFile(buildspec.FileSpec{Source: src, Destination: "/usr/share/doc/tool/README", Doc: true}))
		_, err := b.Build()
		require.NoError(t, err)
	})
	t.Run("RelativeDestination", func(t *testing.T) {
		b := newTestBuilder(t, testMetadata())
		err := b.AddFile(buildspec.FileSpec{Source: src, Destination: "usr/bin/tool"})
		require.Error(t, err)
		assert.Equal(t, buildspec.BuilderFailure, buildspec.KindOf(err))
	})
	t.Run("MissingSource", func(t *testing.T) {
		b := newTestBuilder(t, testMetadata())
		err := b.AddFile(buildspec.FileSpec{Source: filepath.Join(dir, "missing"), Destination: "/usr/bin/missing"})
		require.Error(t, err)
		assert.Equal(t, buildspec.IoFailure, buildspec.KindOf(err))
	})
	t.Run("DirectorySource", func(t *testing.T) {
		b := newTestBuilder(t, testMetadata())
		err := b.AddFile(buildspec.FileSpec{Source: dir, Destination: "/opt/dir"})
		require.Error(t, err)
		assert.Equal(t, buildspec.BuilderFailure, buildspec.KindOf(err))
	})
}

func TestRPMBuilderMetadataEntries(t *testing.T) {
	b := newTestBuilder(t, testMetadata())

	for _, kind := range buildspec.ScriptletKinds {
		require.NoError(t, b.SetScriptlet(kind, "echo "+string(kind)))
	}
	assert.Error(t, b.SetScriptlet("pre-transaction", "true"))

	require.NoError(t, b.AddChangelogEntry(buildspec.ChangelogEntry{Author: "jane", Description: "first release"}))

	for _, kind := range buildspec.RelationKinds {
		require.NoError(t, b.AddRelation(kind, buildspec.AnyVersionOf("dep-"+string(kind))))
	}
	require.NoError(t, b.AddRelation(buildspec.Requires, buildspec.AnyVersionOf("dep-requires")))
	assert.Len(t, b.rpm.Requires, 1, "duplicate relations are dropped")
	assert.Len(t, b.enhances, 1)
	assert.Len(t, b.supplements, 1)
	assert.Error(t, b.AddRelation("breaks", buildspec.AnyVersionOf("x")))

	data, err := b.Build()
	require.NoError(t, err)
	assert.True(t, bytes.Contains(data, []byte("first release")))
	assert.True(t, bytes.Contains(data, []byte("dep-supplements")))
	assert.True(t, bytes.Contains(data, []byte("dep-enhances")))
}

func TestRelation(t *testing.T) {
	for name, test := range map[string]struct {
		dep     buildspec.Dependency
		sense   uint32
		version string
	}{
		"Any":          {dep: buildspec.AnyVersionOf("a"), sense: uint32(rpmpack.SenseAny)},
		"Equal":        {dep: buildspec.Dependency{Name: "a", Operator: buildspec.Equal, Version: "1"}, sense: rpmpack.SenseEqual, version: "1"},
		"Less":         {dep: buildspec.Dependency{Name: "a", Operator: buildspec.Less, Version: "1"}, sense: rpmpack.SenseLess, version: "1"},
		"LessEqual":    {dep: buildspec.Dependency{Name: "a", Operator: buildspec.LessEqual, Version: "1"}, sense: rpmpack.SenseLess | rpmpack.SenseEqual, version: "1"},
		"Greater":      {dep: buildspec.Dependency{Name: "a", Operator: buildspec.Greater, Version: "1"}, sense: rpmpack.SenseGreater, version: "1"},
		"GreaterEqual": {dep: buildspec.Dependency{Name: "a", Operator: buildspec.GreaterEqual, Version: "1"}, sense: rpmpack.SenseGreater | rpmpack.SenseEqual, version: "1"},
	} {
		t.Run(name, func(t *testing.T) {
			rel := relation(test.dep)
			assert.Equal(t, "a", rel.Name)
			assert.Equal(t, test.version, rel.Version)
			assert.Equal(t, test.sense, uint32(rel.Sense))
		})
	}
}
