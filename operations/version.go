package operations

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/mongodb/rpmbuilder"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

type versionInfo struct {
	Build     string `json:"build"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func getVersionInfo() versionInfo {
	return versionInfo{
		Build:     valueOrUnknown(rpmbuilder.BuildRevision),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func valueOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func (v versionInfo) String() string {
	return strings.Join([]string{
		"rpm-builder Version Info:",
		"\n\t", "Build: ", v.Build,
		"\n\t", "Go: ", v.GoVersion,
		"\n\t", "Platform: ", v.Platform,
	}, "")
}

// Version returns a cli.Command object that prints build information.
func Version() cli.Command {
	return cli.Command{
		Name:  "version",
		Usage: "prints version information",
		Flags: []cli.Flag{
			cli.BoolFlag{
				Name:  "json",
				Usage: "specify this option to output data as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			info := getVersionInfo()
			if c.Bool("json") {
				out, err := json.MarshalIndent(info, "", "   ")
				if err != nil {
					return errors.Wrap(err, "problem marshaling json")
				}
				fmt.Fprintln(c.App.Writer, string(out))
				return nil
			}

			fmt.Fprintln(c.App.Writer, info)
			return nil
		},
	}
}
