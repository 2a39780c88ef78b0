package config

import (
	"fmt"
	"time"

	"github.com/vcnkl/pulse/logger"
)

const (
	DefaultDuration = 200 * time.Millisecond
	DefaultShell    = "/bin/sh"
)

type PulseConfig struct {
	Duration time.Duration `koanf:"duration"`
	LogLevel string        `koanf:"log_level"`
	Hook     HookConfig    `koanf:"hook"`
	Watch    WatchConfig   `koanf:"watch"`
}

// HookConfig describes the shell command run for every settled value.
type HookConfig struct {
	Cmd     interface{}       `koanf:"cmd"`
	Shell   string            `koanf:"shell"`
	Timeout time.Duration     `koanf:"timeout"`
	Env     map[string]string `koanf:"env"`
	Dotenv  string            `koanf:"dotenv"`
}

type WatchConfig struct {
	Paths  []string `koanf:"paths"`
	Ignore []string `koanf:"ignore"`

	// TrackedOnly skips directories git does not track.
	TrackedOnly bool `koanf:"tracked_only"`
}

func (c *PulseConfig) SetDefaults() {
	if c.Duration == 0 {
		c.Duration = DefaultDuration
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.Hook.SetDefaults()
	c.Watch.SetDefaults()
}

func (c *PulseConfig) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("invalid duration %s: must be positive", c.Duration)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Hook.Timeout < 0 {
		return fmt.Errorf("invalid hook timeout %s: must not be negative", c.Hook.Timeout)
	}
	return nil
}

func (c *PulseConfig) Level() logger.Level {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}

func (h *HookConfig) SetDefaults() {
	if h.Shell == "" {
		h.Shell = DefaultShell
	}
	if h.Env == nil {
		h.Env = make(map[string]string)
	}
}

// GetCmd accepts either a single string or a list of lines.
func (h *HookConfig) GetCmd() string {
	switch v := h.Cmd.(type) {
	case string:
		return v
	case []interface{}:
		var cmds []string
		for _, c := range v {
			if s, ok := c.(string); ok {
				cmds = append(cmds, s)
			}
		}
		return joinLines(cmds)
	case []string:
		return joinLines(v)
	}
	return ""
}

func (h *HookConfig) Enabled() bool {
	return h.GetCmd() != ""
}

func (w *WatchConfig) SetDefaults() {
	if len(w.Paths) == 0 {
		w.Paths = []string{"."}
	}
	if w.Ignore == nil {
		w.Ignore = []string{}
	}
}
