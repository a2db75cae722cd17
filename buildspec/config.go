/*
Configuration

A build can be described in a YAML or JSON file holding the same raw
values as the command line flags. The file is only a container: every
entry keeps its argument grammar ("src:dest", "name >= version", ...)
and is parsed by the same functions as the flags.
*/
package buildspec

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/evergreen-ci/utility"
	"github.com/ghodss/yaml"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

type format string

const (
	formatYAML format = "yaml"
	formatJSON format = "json"
)

func getFormat(fn string) (format, error) {
	ext := filepath.Ext(fn)

	if ext == ".yaml" || ext == ".yml" {
		return formatYAML, nil
	} else if ext == ".json" {
		return formatJSON, nil
	}

	return "", errors.Errorf("files with '%s' extension are not supported", ext)
}

func getJSONFormattedConfig(format format, data []byte) ([]byte, error) {
	var err error

	if format == formatYAML {
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return nil, errors.Wrap(err, "problem parsing config")
		}

		return data, nil
	} else if format == formatJSON {
		return data, nil
	}

	return nil, errors.Errorf("%s is not a supported format", format)
}

// ReadOptionsFile reads build options from a YAML or JSON file. If the
// file is unreadable or holds invalid values, ReadOptionsFile returns
// nil and an error.
func ReadOptionsFile(fn string) (*Options, error) {
	if !utility.FileExists(fn) {
		return nil, NewError(InvalidOption, fn, "config file does not exist")
	}

	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, WrapError(errors.Wrap(err, "problem reading config file"), IoFailure, fn)
	}

	format, err := getFormat(fn)
	if err != nil {
		return nil, WrapError(err, InvalidOption, fn)
	}

	data, err = getJSONFormattedConfig(format, data)
	if err != nil {
		return nil, WrapError(err, InvalidOption, fn)
	}

	opts := &Options{}
	if err = json.Unmarshal(data, opts); err != nil {
		return nil, WrapError(errors.Wrap(err, "problem decoding config"), InvalidOption, fn)
	}

	if err = opts.validate(); err != nil {
		return nil, WrapError(err, InvalidOption, fn)
	}

	return opts, nil
}

// validate checks the enumerated keys of a decoded file. Grammar
// errors in the values are left to Assemble.
func (o *Options) validate() error {
	catcher := grip.NewCatcher()

	if o.Compression != "" {
		_, err := ParseCompression(o.Compression)
		catcher.Add(err)
	}

	known := make(map[RelationKind]bool, len(RelationKinds))
	for _, kind := range RelationKinds {
		known[kind] = true
	}
	for kind := range o.Relations {
		if !known[kind] {
			catcher.Add(errors.Errorf("'%s' is not a relation kind", kind))
		}
	}

	for kind := range o.Scriptlets {
		switch kind {
		case PreInstall, PostInstall, PreUninstall, PostUninstall:
		default:
			catcher.Add(errors.Errorf("'%s' is not a scriptlet kind", kind))
		}
	}

	return catcher.Resolve()
}
