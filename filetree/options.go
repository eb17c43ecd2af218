package filetree

import (
	"log/slog"
)

// Option configures a leaf collection. Options that do not apply to a kind
// are ignored by it.
type Option func(*config)

type config struct {
	logger       *slog.Logger
	include      []string
	exclude      []string
	maxEntries   int
	maxEntrySize int64
}

func newConfig(opts []Option) config {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger used to report resolution progress.
// The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInclude adds include patterns to a directory or archive tree. When any
// include pattern is set, only matching files are visited.
func WithInclude(patterns ...string) Option {
	return func(c *config) {
		c.include = append(c.include, patterns...)
	}
}

// WithExclude adds exclude patterns to a directory or archive tree. Exclusion
// wins over inclusion, and an excluded directory is not descended into.
func WithExclude(patterns ...string) Option {
	return func(c *config) {
		c.exclude = append(c.exclude, patterns...)
	}
}

// WithMaxEntries limits how many entries an archive tree reads before
// failing. Zero means no limit.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		c.maxEntries = n
	}
}

// WithMaxEntrySize limits the uncompressed size of a single archive entry.
// Zero means no limit.
func WithMaxEntrySize(n int64) Option {
	return func(c *config) {
		c.maxEntrySize = n
	}
}
