package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mongodb/rpmbuilder"
	"github.com/mongodb/rpmbuilder/operations"
	"github.com/urfave/cli"
)

func main() {
	// this is where the main action of the program starts. The
	// command line interface is managed by the cli package and
	// its objects/structures. This, plus the basic configuration
	// in buildApp(), is all that's necessary for bootstrapping the
	// environment.
	os.Exit(run(os.Args, os.Stderr))
}

// run executes the app and reports a failure on stderr regardless of
// where the log output goes.
func run(args []string, stderr io.Writer) int {
	app := buildApp()
	if err := app.Run(withDefaultCommand(app, args)); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", app.Name, err)
		return 1
	}

	return 0
}

// we build the app outside of main so that we can test the operation
func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "rpm-builder"
	app.Usage = "build rpm packages from files and metadata"
	app.UsageText = strings.Join([]string{
		"rpm-builder [global options] <name> [build options]",
		"rpm-builder [global options] command [command options] [arguments...]",
	}, "\n   ")
	app.Version = rpmbuilder.BuildRevision

	// Register sub-commands here.
	app.Commands = []cli.Command{
		operations.Build(),
		operations.Version(),
	}

	// These are global options. Use this to configure logging or
	// other options independent from specific sub commands.
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "level",
			Value: "info",
			Usage: "Specify lowest visible loglevel as string: 'emergency|alert|critical|error|warning|notice|info|debug'",
		},
		cli.StringFlag{
			Name:  "log-format",
			Value: operations.LogFormatStderr,
			Usage: "log output, one of 'stderr|stdout|file|json-stdout|json-file'",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "path of the log file for the 'file' and 'json-file' formats",
		},
	}

	app.Before = func(c *cli.Context) error {
		return loggingSetup(app.Name, c.String("level"), c.String("log-format"), c.String("log-file"))
	}

	return app
}

// withDefaultCommand routes "rpm-builder <name> [flags]" to the build
// command. The build command name is inserted at the first argument
// that is neither a global flag, its value, nor a command name.
func withDefaultCommand(app *cli.App, args []string) []string {
	global := globalFlags(app)

	for i := 1; i < len(args); i++ {
		arg := args[i]

		if !strings.HasPrefix(arg, "-") {
			if arg == "help" || arg == "h" || app.Command(arg) != nil {
				return args
			}
			return insertArg(args, i, "build")
		}

		name := strings.TrimLeft(arg, "-")
		takesValue, ok := global[strings.SplitN(name, "=", 2)[0]]
		if !ok {
			return insertArg(args, i, "build")
		}
		if takesValue && !strings.Contains(name, "=") {
			i++
		}
	}

	return args
}

// globalFlags maps every app level flag name to whether it takes a
// value.
func globalFlags(app *cli.App) map[string]bool {
	out := map[string]bool{}

	for _, f := range append([]cli.Flag{cli.HelpFlag, cli.VersionFlag}, app.Flags...) {
		_, isBool := f.(cli.BoolFlag)
		for _, name := range strings.Split(f.GetName(), ",") {
			out[strings.TrimSpace(name)] = !isBool
		}
	}

	return out
}

func insertArg(args []string, i int, arg string) []string {
	out := make([]string, 0, len(args)+1)
	out = append(out, args[:i]...)
	out = append(out, arg)
	return append(out, args[i:]...)
}

// logging setup is separate to make it unit testable
func loggingSetup(name, level, format, fileName string) error {
	return operations.SetupLogging(name, format, fileName, level)
}
