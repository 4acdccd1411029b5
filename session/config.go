package session

import (
	"io"
	"os"
	"time"

	"github.com/hupe1980/autopsy/core"
	"github.com/hupe1980/autopsy/logging"
)

// DefaultFilePath is the report file used when none is configured, relative
// to the working directory at construction time.
const DefaultFilePath = "autopsy.txt"

// Config holds the user facing session settings.
type Config struct {
	// FilePath is the report file. It may contain {{.PID}}, {{.Date}}
	// (UTC, YYYYMMDD) and {{.Session}} markers; {{short .Session}} gives the
	// first eight characters of the session ID.
	FilePath string `json:"filePath,omitempty"`

	// Shallow disables recursive tracking: composite members of tracked
	// composites are returned unwrapped.
	Shallow bool `json:"shallow,omitempty"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{FilePath: DefaultFilePath}
}

// Merge returns c with every non-zero field of src applied on top.
func (c Config) Merge(src Config) Config {
	if src.FilePath != "" {
		c.FilePath = src.FilePath
	}
	if src.Shallow {
		c.Shallow = true
	}
	return c
}

// Options configures a Session.
type Options struct {
	Config Config

	// Reporter receives the payload at shutdown. Defaults to a
	// report.FileReporter on Config.FilePath.
	Reporter core.Reporter

	// DisableReport skips producing the payload. The report file is still
	// created and the exit still happens.
	DisableReport bool

	// Host supplies the shutdown hooks. Defaults to a new host.ProcessHost.
	Host core.Host

	// Logger receives session and interception events.
	Logger logging.Logger

	// Clock stamps the payload. Defaults to time.Now.
	Clock func() time.Time

	// Stderr receives report failures.
	Stderr io.Writer
}

func defaultOptions() Options {
	return Options{
		Config: DefaultConfig(),
		Logger: logging.NoOpLogger{},
		Clock:  time.Now,
		Stderr: os.Stderr,
	}
}
