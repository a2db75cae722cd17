package operations

import (
	"math"
	"os"
	"strconv"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/rpmbuilder/buildspec"
	"github.com/mongodb/rpmbuilder/pkgbuilder"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	configFlagName      = "config"
	dryRunFlagName      = "dry-run"
	epochFlagName       = "epoch"
	outputFlagName      = "out"
	signingKeyFlagName  = "sign-with-pgp-asc"
	compressionFlagName = "compression"

	// PassphraseEnvVar names the environment variable holding the
	// passphrase of an encrypted signing key.
	PassphraseEnvVar = "RPM_BUILDER_PGP_PASSPHRASE"
)

// scalarFlags maps single valued metadata flags to the option they
// set.
func scalarFlags(opts *buildspec.Options) map[string]*string {
	return map[string]*string{
		"version":           &opts.Version,
		"release":           &opts.Release,
		"arch":              &opts.Arch,
		"os":                &opts.OS,
		"license":           &opts.License,
		"summary":           &opts.Summary,
		"description":       &opts.Description,
		"url":               &opts.URL,
		"vendor":            &opts.Vendor,
		"packager":          &opts.Packager,
		"group":             &opts.Group,
		compressionFlagName: &opts.Compression,
		outputFlagName:      &opts.Output,
		signingKeyFlagName:  &opts.SigningKey,
	}
}

// listFlags maps repeatable entry flags to the option they extend.
func listFlags(opts *buildspec.Options) map[string]*[]string {
	return map[string]*[]string{
		"file":        &opts.Files,
		"exec-file":   &opts.ExecFiles,
		"config-file": &opts.ConfigFiles,
		"doc-file":    &opts.DocFiles,
		"dir":         &opts.Dirs,
		"config-dir":  &opts.ConfigDirs,
		"doc-dir":     &opts.DocDirs,
		"changelog":   &opts.Changelog,
	}
}

func scriptletFlagName(kind buildspec.ScriptletKind) string {
	return string(kind) + "-script"
}

// Build returns a cli.Command object for assembling and writing a
// package.
func Build() cli.Command {
	return cli.Command{
		Name:      "build",
		Aliases:   []string{"rpm"},
		Usage:     "build an rpm package from files, directories and metadata",
		ArgsUsage: "<name>",
		Flags:     buildFlags(),
		Before:    requireAtMostOneArg,
		Action: func(c *cli.Context) error {
			opts, err := optionsFromContext(c)
			if err != nil {
				return errors.Wrap(err, "problem reading build options")
			}

			if c.Bool(dryRunFlagName) {
				return printPlan(c.App.Writer, opts)
			}

			return buildPackage(opts, []byte(os.Getenv(PassphraseEnvVar)))
		},
	}
}

func buildFlags() []cli.Flag {
	flags := []cli.Flag{
		cli.UintFlag{
			Name:  epochFlagName,
			Usage: "package epoch",
		},
		cli.StringFlag{
			Name:  "version",
			Usage: "package version (default: " + buildspec.DefaultVersion + ")",
		},
		cli.StringFlag{
			Name:  "release",
			Usage: "package release (default: " + buildspec.DefaultRelease + ")",
		},
		cli.StringFlag{
			Name:  "arch",
			Usage: "target architecture of the package (default: " + buildspec.DefaultArch + ")",
		},
		cli.StringFlag{
			Name:  "os",
			Usage: "target operating system of the package (default: " + buildspec.DefaultOS + ")",
		},
		cli.StringFlag{
			Name:  "license",
			Usage: "package license (default: " + buildspec.DefaultLicense + ")",
		},
		cli.StringFlag{
			Name:  "summary",
			Usage: "one line package summary",
		},
		cli.StringFlag{
			Name:  "description",
			Usage: "long package description",
		},
		cli.StringFlag{
			Name:  "url",
			Usage: "project home page",
		},
		cli.StringFlag{
			Name:  "vendor",
			Usage: "package vendor",
		},
		cli.StringFlag{
			Name:  "packager",
			Usage: "person or organization that built the package",
		},
		cli.StringFlag{
			Name:  "group",
			Usage: "package group",
		},
		cli.StringFlag{
			Name:  compressionFlagName,
			Usage: "payload compression, one of gzip|zstd|none|xz|lzma (default: " + string(buildspec.DefaultCompression) + ")",
		},
		cli.StringFlag{
			Name:  outputFlagName + ", o",
			Usage: "output file or directory; defaults to <name>-<version>-<release>.<arch>.rpm in the working directory",
		},
		cli.StringSliceFlag{
			Name:  "file",
			Usage: "add a file as 'src:dest', may be repeated",
		},
		cli.StringSliceFlag{
			Name:  "exec-file",
			Usage: "add an executable (0755) file as 'src:dest', may be repeated",
		},
		cli.StringSliceFlag{
			Name:  "config-file",
			Usage: "add a configuration file as 'src:dest', may be repeated",
		},
		cli.StringSliceFlag{
			Name:  "doc-file",
			Usage: "add a documentation file as 'src:dest', may be repeated",
		},
		cli.StringSliceFlag{
			Name:  "dir",
			Usage: "add every file below a directory as 'src:dest', may be repeated",
		},
		cli.StringSliceFlag{
			Name:  "config-dir",
			Usage: "add every file below a directory as configuration files, 'src:dest', may be repeated",
		},
		cli.StringSliceFlag{
			Name:  "doc-dir",
			Usage: "add every file below a directory as documentation files, 'src:dest', may be repeated",
		},
		cli.StringSliceFlag{
			Name:  "changelog",
			Usage: "add a changelog entry as 'author:description:YYYY-MM-DD', may be repeated",
		},
	}

	for _, kind := range buildspec.RelationKinds {
		flags = append(flags, cli.StringSliceFlag{
			Name:  string(kind),
			Usage: "add a '" + string(kind) + "' relation as 'name [op version]', may be repeated",
		})
	}

	for _, kind := range buildspec.ScriptletKinds {
		flags = append(flags, cli.StringFlag{
			Name:  scriptletFlagName(kind),
			Usage: "path of the " + string(kind) + " script",
		})
	}

	return append(flags,
		cli.StringFlag{
			Name:  signingKeyFlagName,
			Usage: "sign the package with this ascii armored pgp private key; set " + PassphraseEnvVar + " for encrypted keys",
		},
		cli.StringFlag{
			Name:  configFlagName,
			Usage: "path of a yaml or json file holding build options; flags override scalar values and extend lists",
		},
		cli.BoolFlag{
			Name:  dryRunFlagName,
			Usage: "print the assembled package contents without building",
		},
	)
}

// optionsFromContext reads the optional configuration file and layers
// the command line values on top of it.
func optionsFromContext(c *cli.Context) (buildspec.Options, error) {
	opts := buildspec.Options{}

	if fn := c.String(configFlagName); fn != "" {
		fileOpts, err := buildspec.ReadOptionsFile(fn)
		if err != nil {
			return buildspec.Options{}, errors.Wrapf(err, "problem reading config file '%s'", fn)
		}
		opts = *fileOpts
	}

	flagOpts, err := flagOptions(c)
	if err != nil {
		return buildspec.Options{}, err
	}
	opts.Extend(flagOpts)

	return opts, nil
}

func flagOptions(c *cli.Context) (buildspec.Options, error) {
	opts := buildspec.Options{
		Name:       c.Args().First(),
		Relations:  make(map[buildspec.RelationKind][]string),
		Scriptlets: make(map[buildspec.ScriptletKind]string),
	}

	if c.IsSet(epochFlagName) {
		epoch := c.Uint(epochFlagName)
		if uint64(epoch) > math.MaxUint32 {
			return buildspec.Options{}, buildspec.NewError(buildspec.InvalidOption,
				strconv.FormatUint(uint64(epoch), 10), "epoch is out of range")
		}
		value := uint32(epoch)
		opts.Epoch = &value
	}

	for name, dst := range scalarFlags(&opts) {
		*dst = c.String(name)
	}

	for name, dst := range listFlags(&opts) {
		*dst = c.StringSlice(name)
	}

	for _, kind := range buildspec.RelationKinds {
		if deps := c.StringSlice(string(kind)); len(deps) > 0 {
			opts.Relations[kind] = deps
		}
	}

	for _, kind := range buildspec.ScriptletKinds {
		if fn := c.String(scriptletFlagName(kind)); fn != "" {
			opts.Scriptlets[kind] = fn
		}
	}

	return opts, nil
}

func buildPackage(opts buildspec.Options, passphrase []byte) error {
	spec, err := buildspec.Assemble(opts)
	if err != nil {
		return errors.Wrap(err, "problem assembling package")
	}

	grip.Debug(message.Fields{
		"message":    "assembled package",
		"identifier": spec.Metadata.Identifier(),
		"files":      len(spec.Files),
		"signed":     spec.SigningKey != "",
	})

	res, err := pkgbuilder.Build(spec, pkgbuilder.Options{
		Output:     opts.Output,
		Passphrase: passphrase,
	})
	if err != nil {
		return errors.Wrapf(err, "problem building package '%s'", spec.Metadata.Name)
	}

	grip.Notice(message.Fields{
		"message": "built package",
		"path":    res.Path,
		"size":    res.Size,
		"signed":  res.Signed,
	})

	return nil
}
