package synthmark

import (
	"time"

	"github.com/rs/zerolog"
)

type embedConfig struct {
	limits   Limits
	log      zerolog.Logger
	now      func() time.Time
	platform string
}

type EmbedOption func(*embedConfig)

func newEmbedConfig(opts []EmbedOption) embedConfig {
	cfg := embedConfig{
		limits:   defaultLimits(),
		log:      zerolog.Nop(),
		now:      defaultNow,
		platform: DefaultPlatform,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	if cfg.platform == "" {
		cfg.platform = DefaultPlatform
	}
	return cfg
}

func WithEmbedLimits(l Limits) EmbedOption {
	return func(c *embedConfig) { c.limits = l }
}

// WithEmbedLogger surfaces the internal cause of pass-through fallbacks
// at debug level. The public contract stays "never fails".
func WithEmbedLogger(log zerolog.Logger) EmbedOption {
	return func(c *embedConfig) { c.log = log }
}

// WithNow injects the clock used for the timestamp default.
func WithNow(now func() time.Time) EmbedOption {
	return func(c *embedConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDefaultPlatform overrides the platform written when the caller's
// record leaves the slot empty.
func WithDefaultPlatform(platform string) EmbedOption {
	return func(c *embedConfig) { c.platform = platform }
}

type detectConfig struct {
	limits Limits
	log    zerolog.Logger
}

type DetectOption func(*detectConfig)

func newDetectConfig(opts []DetectOption) detectConfig {
	cfg := detectConfig{
		limits: defaultLimits(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	return cfg
}

func WithDetectLimits(l Limits) DetectOption {
	return func(c *detectConfig) { c.limits = l }
}

// WithDetectLogger surfaces the internal cause of not-found results at
// debug level. The public signal stays binary.
func WithDetectLogger(log zerolog.Logger) DetectOption {
	return func(c *detectConfig) { c.log = log }
}
