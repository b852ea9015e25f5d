// Package logging builds the charmbracelet loggers used across twin-memory.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

type config struct {
	level  log.Level
	json   bool
	prefix string
	writer io.Writer
}

// Option configures a logger created with New.
type Option func(*config)

// WithLevel sets the minimum level that is written.
func WithLevel(l log.Level) Option {
	return func(c *config) { c.level = l }
}

// WithDebug lowers the level to Debug when true.
func WithDebug(debug bool) Option {
	return func(c *config) {
		if debug {
			c.level = log.DebugLevel
		}
	}
}

// WithJSON switches to one JSON object per line.
func WithJSON(json bool) Option {
	return func(c *config) { c.json = json }
}

// WithPrefix tags every line with prefix.
func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}

// WithWriter overrides the output writer. Defaults to os.Stderr so command
// output on stdout stays machine readable.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.writer = w }
}

// New returns a logger configured by opts.
func New(opts ...Option) *log.Logger {
	c := config{level: log.InfoLevel, writer: os.Stderr}
	for _, o := range opts {
		o(&c)
	}

	formatter := log.TextFormatter
	if c.json {
		formatter = log.JSONFormatter
	}

	return log.NewWithOptions(c.writer, log.Options{
		Level:           c.level,
		Prefix:          c.prefix,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	})
}

// ParseLevel maps a config string such as "debug" or "warn" to a level,
// falling back to Info for unknown values.
func ParseLevel(s string) log.Level {
	l, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// Nop returns a logger that discards everything.
func Nop() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
