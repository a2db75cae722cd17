package operations

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func requireAtMostOneArg(c *cli.Context) error {
	if c.NArg() > 1 {
		return errors.Errorf("expected a single package name, but found %d arguments: %v", c.NArg(), c.Args())
	}
	return nil
}
