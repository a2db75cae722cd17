/*
Package rpmbuilder is a tool for assembling rpm packages from files,
directories and package metadata given on the command line or in a
configuration file.

# Architecture and Organization

The rpm-builder binary is built from the "cmd/rpm-builder" package,
with a command that resembles the following:

	go build -o rpm-builder ./cmd/rpm-builder

The "buildspec" package parses the argument grammars (file entries,
dependency expressions, changelog entries, directory mappings) into a
complete BuildSpec. The "pkgbuilder" package feeds a BuildSpec to an
rpm writer, optionally signs the result and writes it atomically to
the resolved output path. The command line interface uses the
urfave/cli package, with the implementation of entry points in the
"operations" package.
*/
package rpmbuilder
