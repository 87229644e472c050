package forward

import "github.com/gekko3d/forward/label"

const (
	DefaultShadowMapBudget int64 = 64 << 20
	DefaultScratchBudget   int64 = 128 << 20
)

// Config configures a Pipeline.
type Config struct {
	// ShadowMapBudget and ScratchBudget are soft limits in bytes for the two
	// render target pools.
	ShadowMapBudget int64
	ScratchBudget   int64
	Platform        label.Platform
	Debug           bool
	LogPrefix       string
	// Logger overrides the DefaultLogger built from LogPrefix and Debug.
	Logger Logger
}

func DefaultConfig() Config {
	return Config{
		ShadowMapBudget: DefaultShadowMapBudget,
		ScratchBudget:   DefaultScratchBudget,
		Platform:        label.DefaultPlatform(),
		LogPrefix:       "forward",
	}
}

// Option adjusts a Config.
type Option func(*Config)

func WithShadowMapBudget(bytes int64) Option {
	return func(c *Config) { c.ShadowMapBudget = bytes }
}

func WithScratchBudget(bytes int64) Option {
	return func(c *Config) { c.ScratchBudget = bytes }
}

func WithPlatform(p label.Platform) Option {
	return func(c *Config) { c.Platform = p }
}

func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func WithLogPrefix(prefix string) Option {
	return func(c *Config) { c.LogPrefix = prefix }
}

// WithDebug enables debug logging, including on a logger set by WithLogger.
func WithDebug(enabled bool) Option {
	return func(c *Config) { c.Debug = enabled }
}
