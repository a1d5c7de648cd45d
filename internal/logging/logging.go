// Package logging provides the process-wide structured logger.
// Every entry is a single JSON object per line.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// L is the package-level logger used across the application.
var L = New(os.Stdout, time.UTC)

// New returns a JSON logger whose timestamps are rendered in loc.
func New(w io.Writer, loc *time.Location) *log.Logger {
	if loc == nil {
		loc = time.UTC
	}
	return log.NewWithOptions(w, log.Options{
		Formatter:       log.JSONFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		TimeFunction:    func(t time.Time) time.Time { return t.In(loc) },
		Level:           log.InfoLevel,
	})
}

// Configure replaces L with a logger writing to w. An unknown level keeps info.
func Configure(w io.Writer, loc *time.Location, level string) *log.Logger {
	l := New(w, loc)
	if lvl, err := log.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	L = l
	return l
}
