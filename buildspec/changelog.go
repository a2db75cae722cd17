package buildspec

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	changelogDateLayout = "2006-01-02"
	changelogGrammar    = "<author>:<content>:<yyyy-mm-dd>"
)

// ChangelogEntry is a day-granularity changelog record. Time is always
// midnight UTC.
type ChangelogEntry struct {
	Author      string    `json:"author" yaml:"author"`
	Description string    `json:"description" yaml:"description"`
	Time        time.Time `json:"time" yaml:"time"`
}

// Timestamp returns the entry's date in Unix seconds.
func (e ChangelogEntry) Timestamp() int64 { return e.Time.Unix() }

// ParseChangelogEntry parses "<author>:<content>:<yyyy-mm-dd>". The
// date is read in UTC and never carries a time of day.
func ParseChangelogEntry(input string) (ChangelogEntry, error) {
	parts := strings.Split(input, entrySeparator)
	if len(parts) != 3 {
		return ChangelogEntry{}, NewError(MalformedChangelogEntry, input,
			"it needs to be of the form "+changelogGrammar)
	}

	date, err := time.ParseInLocation(changelogDateLayout, parts[2], time.UTC)
	if err != nil {
		return ChangelogEntry{}, WrapError(errors.Wrap(err, "expected yyyy-mm-dd"),
			InvalidDate, parts[2])
	}

	return ChangelogEntry{
		Author:      parts[0],
		Description: parts[1],
		Time:        date,
	}, nil
}

// ParseChangelogEntries parses every input in order, stopping at the
// first failure.
func ParseChangelogEntries(inputs []string) ([]ChangelogEntry, error) {
	out := make([]ChangelogEntry, 0, len(inputs))
	for _, in := range inputs {
		entry, err := ParseChangelogEntry(in)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}

	return out, nil
}
