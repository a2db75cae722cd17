package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/stretchr/testify/suite"
)

// MainSuite is a collection of tests that exercise the main() of the
// program, and associated operations and top-level configuration.
type MainSuite struct {
	suite.Suite
}

func TestMainSuite(t *testing.T) {
	suite.Run(t, new(MainSuite))
}

func (s *MainSuite) TestLoggingSetupUsingDefaultSender() {
	err := loggingSetup("test", "info", "stderr", "")
	s.NoError(err)
	s.Equal("test", grip.Name())
	s.Equal(level.Info, grip.GetSender().Level().Threshold)
}

func (s *MainSuite) TestLogSetupWithInvalidLevelDoesNotChangeLevel() {
	// when you specify an invalid level, grip shouldn't change
	// the level.
	s.NoError(loggingSetup("test", "info", "stderr", ""))
	s.NoError(loggingSetup("test", "QUIET", "stderr", ""))
	s.Equal(level.Info, grip.GetSender().Level().Threshold)

	// Following case is just to make sure that normal
	// setting still works as expected.
	s.NoError(loggingSetup("test", "debug", "stderr", ""))
	s.Equal(level.Debug, grip.GetSender().Level().Threshold)
}

func (s *MainSuite) TestAppBuilderFunctionSetsCorrectProperties() {
	app := buildApp()

	s.Equal("rpm-builder", app.Name)

	// the exact number will change, but should be >0
	s.NotEqual(len(app.Commands), 0)
	s.Equal("build", app.Commands[0].Name)

	// The app should have some top level flags, and the first
	// flag should be the logging-level configuration.
	s.NotZero(app.Flags)
	s.Equal(app.Flags[0].GetName(), "level")

	// both the bare name form and the command form are documented
	s.Contains(app.UsageText, "<name> [build options]")
	s.Contains(app.UsageText, "command [command options]")

	// we do logging set up here, so it needs to be set
	s.NotZero(app.Before)
}

func (s *MainSuite) TestBuildRunsThroughApp() {
	dir := s.T().TempDir()
	app := buildApp()

	s.NoError(app.Run([]string{"rpm-builder", "--level", "error", "build", "pkg", "--out", dir}))
	s.FileExists(dir + "/pkg-1.0.0-1.noarch.rpm")
}

func (s *MainSuite) TestDefaultCommand() {
	app := buildApp()

	for name, test := range map[string]struct {
		args     []string
		expected []string
	}{
		"NoArguments":     {args: []string{"rpm-builder"}, expected: []string{"rpm-builder"}},
		"BareName":        {args: []string{"rpm-builder", "pkg", "-o", "out"}, expected: []string{"rpm-builder", "build", "pkg", "-o", "out"}},
		"FlagsFirst":      {args: []string{"rpm-builder", "--out", "out", "pkg"}, expected: []string{"rpm-builder", "build", "--out", "out", "pkg"}},
		"AfterGlobalFlag": {args: []string{"rpm-builder", "--level", "debug", "pkg"}, expected: []string{"rpm-builder", "--level", "debug", "build", "pkg"}},
		"AssignedGlobal":  {args: []string{"rpm-builder", "--level=debug", "pkg"}, expected: []string{"rpm-builder", "--level=debug", "build", "pkg"}},
		"BuildCommand":    {args: []string{"rpm-builder", "build", "pkg"}, expected: []string{"rpm-builder", "build", "pkg"}},
		"Alias":           {args: []string{"rpm-builder", "rpm", "pkg"}, expected: []string{"rpm-builder", "rpm", "pkg"}},
		"VersionCommand":  {args: []string{"rpm-builder", "version"}, expected: []string{"rpm-builder", "version"}},
		"HelpCommand":     {args: []string{"rpm-builder", "help"}, expected: []string{"rpm-builder", "help"}},
		"HelpFlag":        {args: []string{"rpm-builder", "--help"}, expected: []string{"rpm-builder", "--help"}},
	} {
		s.Run(name, func() {
			s.Equal(test.expected, withDefaultCommand(app, test.args))
		})
	}
}

func (s *MainSuite) TestBareNameBuildsPackage() {
	dir := s.T().TempDir()
	stderr := &bytes.Buffer{}

	s.Equal(0, run([]string{"rpm-builder", "--level", "error", "pkg", "--out", dir}, stderr))
	s.FileExists(filepath.Join(dir, "pkg-1.0.0-1.noarch.rpm"))
	s.Empty(stderr.String())
}

func (s *MainSuite) TestFailureIsWrittenToStderr() {
	defer func() { s.NoError(loggingSetup("test", "info", "stderr", "")) }()

	for _, format := range []string{"stdout", "file"} {
		s.Run(format, func() {
			dir := s.T().TempDir()
			stderr := &bytes.Buffer{}

			code := run([]string{"rpm-builder",
				"--log-format", format,
				"--log-file", filepath.Join(dir, "build.log"),
				"pkg", "--requires", "foo >=", "--out", dir,
			}, stderr)

			s.NotEqual(0, code)
			s.Contains(stderr.String(), "rpm-builder: ")
			s.Contains(stderr.String(), "invalid dependency expression 'foo >='")
			s.NoFileExists(filepath.Join(dir, "pkg-1.0.0-1.noarch.rpm"))
		})
	}
}
