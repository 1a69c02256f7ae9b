package gen

import (
	"runtime"
	"time"
)

// DefaultVersion is reported in generated headers when no version is configured.
const DefaultVersion = "dev"

// Config holds the configuration of a generation run. Only the timestamp and
// version options affect the generated text, and only its header comment.
type Config struct {
	// Timestamp adds the generation time to the header comment.
	Timestamp bool
	// Version is the generator version reported next to the timestamp.
	Version string
	// Clock returns the generation time. Defaults to time.Now.
	Clock func() time.Time
	// Header is an optional comment written above every generated unit.
	Header string
	// Workers bounds the number of units generated in parallel.
	Workers int
	// Target is the output directory used by the Writer.
	Target string
	// Overwrite makes the Writer replace existing files. Query stubs are
	// meant to be customized, so they are only written when missing by default.
	Overwrite bool
}

// now returns the generation time.
func (c *Config) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// version returns the configured version or DefaultVersion.
func (c *Config) version() string {
	if c.Version != "" {
		return c.Version
	}
	return DefaultVersion
}

// workers returns the configured worker count or GOMAXPROCS.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
