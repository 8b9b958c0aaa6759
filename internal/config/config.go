// Package config loads the service configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Server  Server
	Marker  Marker
	Logger  Logger
	Metrics Metrics
}

type Server struct {
	Host           string
	Port           int
	MaxUploadBytes int64
}

type Marker struct {
	// Platform fills the marker's platform slot when a request leaves
	// it empty.
	Platform    string
	MaxFieldLen int
	MaxTextLen  int
}

type Logger struct {
	Level string
}

type Metrics struct {
	Enabled bool
}

// Load reads the configuration at path, applies SYNTHMARK_* environment
// overrides, and validates the result. An empty path skips the file and
// uses defaults plus environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.maxUploadBytes", int64(32<<20))
	v.SetDefault("marker.platform", "synthmark")
	v.SetDefault("marker.maxFieldLen", 4096)
	v.SetDefault("marker.maxTextLen", 1<<20)
	v.SetDefault("logger.level", "info")
	v.SetDefault("metrics.enabled", true)

	v.BindEnv("server.host", "SYNTHMARK_HOST")
	v.BindEnv("server.port", "SYNTHMARK_PORT")
	v.BindEnv("server.maxUploadBytes", "SYNTHMARK_MAX_UPLOAD_BYTES")
	v.BindEnv("marker.platform", "SYNTHMARK_PLATFORM")
	v.BindEnv("logger.level", "SYNTHMARK_LOG_LEVEL")
	v.BindEnv("metrics.enabled", "SYNTHMARK_METRICS_ENABLED")

	if path != "" {
		filename := filepath.Base(path)
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: max upload bytes must be positive")
	}
	if c.Marker.Platform == "" {
		return fmt.Errorf("config: marker platform must not be empty")
	}
	if strings.Contains(c.Marker.Platform, "|") {
		return fmt.Errorf("config: marker platform must not contain the field delimiter")
	}
	if _, err := zerolog.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("config: invalid log level %q: %w", c.Logger.Level, err)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
