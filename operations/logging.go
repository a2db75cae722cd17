package operations

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/pkg/errors"
)

// Log output formats accepted by SetupLogging.
const (
	LogFormatStderr     = "stderr"
	LogFormatStdout     = "stdout"
	LogFormatFile       = "file"
	LogFormatJSONStdout = "json-stdout"
	LogFormatJSONFile   = "json-file"
)

// SetupLogging configures the global grip logging instance. Log
// messages go to standard error unless another format is requested, so
// that standard output stays free for command output such as dry run
// plans. An unknown threshold leaves the current level in place.
func SetupLogging(name, format, fileName, threshold string) error {
	var sender send.Sender
	var err error

	switch format {
	case LogFormatStderr, "":
		sender = send.MakeErrorLogger()
	case LogFormatStdout:
		sender = send.MakeNative()
	case LogFormatFile:
		sender, err = send.MakeFileLogger(fileName)
	case LogFormatJSONStdout:
		sender = send.MakeJSONConsoleLogger()
	case LogFormatJSONFile:
		sender, err = send.MakeJSONFileLogger(fileName)
	default:
		grip.Warningf("no supported output format '%s' writing log messages to standard error", format)
		sender = send.MakeErrorLogger()
	}

	if err != nil {
		return errors.Wrapf(err, "configuring log type '%s'", format)
	}

	if err = grip.SetSender(sender); err != nil {
		return errors.Wrap(err, "problem setting sender")
	}
	grip.SetName(name)

	sender = grip.GetSender()
	info := sender.Level()
	if l := level.FromString(threshold); l != level.Invalid {
		info.Threshold = l
	}

	return sender.SetLevel(info)
}
