package pkgbuilder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mongodb/grip"
	"github.com/mongodb/rpmbuilder/buildspec"
	"github.com/pkg/errors"
)

const packageExtension = ".rpm"

// ResolveOutputPath decides where the archive is written. Without a
// user path the file goes to the working directory, an existing
// directory receives "<identifier>.rpm", and any other path keeps its
// location with the extension replaced by ".rpm".
func ResolveOutputPath(userPath, identifier string) string {
	fileName := identifier + packageExtension

	if userPath == "" {
		return "." + string(filepath.Separator) + fileName
	}

	if info, err := os.Stat(userPath); err == nil && info.IsDir() {
		return filepath.Join(userPath, fileName)
	}

	return withExtension(userPath, packageExtension)
}

// withExtension replaces the extension of the last path element. A
// leading dot names a hidden file rather than an extension, and
// trailing separators do not start a new element.
func withExtension(p, ext string) string {
	p = filepath.Clean(p)
	base := filepath.Base(p)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}

	return filepath.Join(filepath.Dir(p), stem+ext)
}

// writeArtifact writes data to fn through a temporary file in the same
// directory, so fn either holds the complete archive or is untouched.
func writeArtifact(fn string, data []byte) error {
	dir := filepath.Dir(fn)
	tmp := filepath.Join(dir, "."+filepath.Base(fn)+"."+uuid.New().String()+".tmp")

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		grip.Debug(errors.Wrapf(os.Remove(tmp), "removing %s", tmp))
		return buildspec.WrapError(errors.Wrap(err, "unable to write package"), buildspec.IoFailure, fn)
	}

	if err := os.Rename(tmp, fn); err != nil {
		grip.Warning(errors.Wrapf(os.Remove(tmp), "removing %s", tmp))
		return buildspec.WrapError(errors.Wrap(err, "unable to create output file"), buildspec.IoFailure, fn)
	}

	return nil
}
