package operations

import (
	"io"

	"github.com/mongodb/rpmbuilder/buildspec"
	"github.com/mongodb/rpmbuilder/pkgbuilder"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// plan is the dry run view of a build.
type plan struct {
	Identifier string               `yaml:"identifier"`
	Output     string               `yaml:"output"`
	Spec       *buildspec.BuildSpec `yaml:"spec"`
}

// printPlan assembles the package described by opts and writes it to
// w as YAML without building anything.
func printPlan(w io.Writer, opts buildspec.Options) error {
	spec, err := buildspec.Assemble(opts)
	if err != nil {
		return errors.Wrap(err, "problem assembling package")
	}

	identifier := spec.Metadata.Identifier()
	out, err := yaml.Marshal(plan{
		Identifier: identifier,
		Output:     pkgbuilder.ResolveOutputPath(opts.Output, identifier),
		Spec:       spec,
	})
	if err != nil {
		return errors.Wrap(err, "problem marshaling build plan")
	}

	_, err = w.Write(out)
	return errors.Wrap(err, "problem writing build plan")
}
