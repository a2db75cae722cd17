/*
Package operations contains the integration between the package
assembly code in buildspec and pkgbuilder and the user-exposed
command line interface.

The public functions in this package return cli.Command objects that
are registered in the main package. Commands translate flags and
configuration files into buildspec.Options and hand the assembled
BuildSpec to pkgbuilder.
*/
package operations

// This file is documentation only.
