package pkgbuilder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mongodb/rpmbuilder/buildspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutputPath(t *testing.T) {
	const id = "pkg-1.0.0-1.noarch"
	dir := t.TempDir()

	existing := filepath.Join(dir, "existing.rpm.old")
	require.NoError(t, os.WriteFile(existing, nil, 0644))

	for name, test := range map[string]struct {
		user     string
		expected string
	}{
		"NoPath":            {user: "", expected: "./pkg-1.0.0-1.noarch.rpm"},
		"ExistingDir":       {user: dir, expected: filepath.Join(dir, "pkg-1.0.0-1.noarch.rpm")},
		"NewFile":           {user: filepath.Join(dir, "custom.bin"), expected: filepath.Join(dir, "custom.rpm")},
		"NoExtension":       {user: filepath.Join(dir, "custom"), expected: filepath.Join(dir, "custom.rpm")},
		"AlreadyRPM":        {user: filepath.Join(dir, "custom.rpm"), expected: filepath.Join(dir, "custom.rpm")},
		"ExistingFile":      {user: existing, expected: filepath.Join(dir, "existing.rpm.rpm")},
		"HiddenFile":        {user: filepath.Join(dir, ".hidden"), expected: filepath.Join(dir, ".hidden.rpm")},
		"NonexistentInDir":  {user: filepath.Join(dir, "missing", "out.bin"), expected: filepath.Join(dir, "missing", "out.rpm")},
		"TrailingSeparator": {user: filepath.Join(dir, "missing") + string(filepath.Separator), expected: filepath.Join(dir, "missing.rpm")},
		"DoubledSeparator":  {user: filepath.Join(dir, "missing") + "//", expected: filepath.Join(dir, "missing.rpm")},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, ResolveOutputPath(test.user, id))
		})
	}
}

func TestResolveOutputPathIsIdempotent(t *testing.T) {
	first := ResolveOutputPath("/tmp/custom.bin", "pkg-1.0.0-1.noarch")
	assert.Equal(t, "/tmp/custom.rpm", first)
	assert.Equal(t, first, ResolveOutputPath(first, "pkg-1.0.0-1.noarch"))
}

func TestWriteArtifact(t *testing.T) {
	t.Run("WritesCompleteFile", func(t *testing.T) {
		dir := t.TempDir()
		fn := filepath.Join(dir, "out.rpm")
		require.NoError(t, writeArtifact(fn, []byte("payload")))

		data, err := os.ReadFile(fn)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary files must not remain")
	})
	t.Run("OverwritesExistingFile", func(t *testing.T) {
		fn := filepath.Join(t.TempDir(), "out.rpm")
		require.NoError(t, os.WriteFile(fn, []byte("old contents"), 0644))
		require.NoError(t, writeArtifact(fn, []byte("new")))

		data, err := os.ReadFile(fn)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})
	t.Run("MissingDirectoryIsIoFailure", func(t *testing.T) {
		fn := filepath.Join(t.TempDir(), "missing", "out.rpm")
		err := writeArtifact(fn, []byte("payload"))
		require.Error(t, err)
		assert.Equal(t, buildspec.IoFailure, buildspec.KindOf(err))

		_, err = os.Stat(fn)
		assert.True(t, os.IsNotExist(err))
	})
}
