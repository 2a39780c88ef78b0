package config

import (
	"strings"
	"time"
)

// Config is the resolved configuration for one pulse invocation.
type Config struct {
	path  string
	pulse *PulseConfig
}

func NewConfig(path string) (*Config, error) {
	pulse := &PulseConfig{}
	if path != "" {
		loaded, err := loadPulseConfig(path)
		if err != nil {
			return nil, err
		}
		pulse = loaded
	}

	pulse.SetDefaults()
	if err := pulse.Validate(); err != nil {
		return nil, err
	}

	return &Config{path: path, pulse: pulse}, nil
}

func (c *Config) Path() string {
	return c.path
}

func (c *Config) Pulse() *PulseConfig {
	return c.pulse
}

func (c *Config) Duration() time.Duration {
	return c.pulse.Duration
}

func (c *Config) Hook() *HookConfig {
	return &c.pulse.Hook
}

func (c *Config) Watch() *WatchConfig {
	return &c.pulse.Watch
}

// Overrides holds command line values. Zero fields leave the file value alone.
type Overrides struct {
	Duration time.Duration
	Debug    bool
	Cmd      string
	Paths    []string
	Ignore   []string
	Tracked  bool
}

func (c *Config) Apply(o Overrides) error {
	if o.Duration != 0 {
		c.pulse.Duration = o.Duration
	}
	if o.Debug {
		c.pulse.LogLevel = "debug"
	}
	if o.Cmd != "" {
		c.pulse.Hook.Cmd = o.Cmd
	}
	if len(o.Paths) > 0 {
		c.pulse.Watch.Paths = o.Paths
	}
	if o.Tracked {
		c.pulse.Watch.TrackedOnly = true
	}
	if len(o.Ignore) > 0 {
		c.pulse.Watch.Ignore = append(c.pulse.Watch.Ignore, o.Ignore...)
	}
	return c.pulse.Validate()
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
