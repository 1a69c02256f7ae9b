package gen

import (
	"errors"
	"time"
)

// Option configures code generation.
type Option func(*Config) error

// WithTimestamp controls whether generated headers carry the generation time.
func WithTimestamp(enabled bool) Option {
	return func(c *Config) error {
		c.Timestamp = enabled
		return nil
	}
}

// WithVersion sets the generator version reported in generated headers.
func WithVersion(version string) Option {
	return func(c *Config) error {
		if version == "" {
			return NewConfigError("Version", nil, "version cannot be empty")
		}
		c.Version = version
		return nil
	}
}

// WithClock sets the function returning the generation time.
func WithClock(clock func() time.Time) Option {
	return func(c *Config) error {
		if clock == nil {
			return NewConfigError("Clock", nil, "clock cannot be nil")
		}
		c.Clock = clock
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of units generated in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithOverwrite makes the writer replace files that already exist.
func WithOverwrite(overwrite bool) Option {
	return func(c *Config) error {
		c.Overwrite = overwrite
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
