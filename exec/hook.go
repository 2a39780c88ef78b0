package exec

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/vcnkl/pulse/config"
	"github.com/vcnkl/pulse/logger"
)

// Hook runs the configured command once per settled value.
type Hook struct {
	cmd     string
	shell   string
	timeout time.Duration
	env     map[string]string
	dotenv  string
	log     logger.Logger
	stdout  io.Writer
}

func NewHook(cfg *config.HookConfig, log logger.Logger) *Hook {
	return &Hook{
		cmd:     cfg.GetCmd(),
		shell:   cfg.Shell,
		timeout: cfg.Timeout,
		env:     cfg.Env,
		dotenv:  cfg.Dotenv,
		log:     log.WithPrefix("hook"),
	}
}

// WithStdout redirects command output, which otherwise is logged at info
// level tagged with the value.
func (h *Hook) WithStdout(w io.Writer) *Hook {
	h.stdout = w
	return h
}

func (h *Hook) Run(ctx context.Context, value string) error {
	start := time.Now()
	log := h.log.With(logger.String("value", value))
	log.Debug("running hook")

	stdout := h.stdout
	if stdout == nil {
		stdout = log.Writer()
	}

	env, err := HookEnv(value, h.env, h.dotenv)
	if err != nil {
		return errors.Wrap(err, "hook")
	}

	err = RunCommand(ctx, h.cmd, &ShellOptions{
		Env:     env,
		Shell:   h.shell,
		Stdout:  stdout,
		Stderr:  log.WriterAt(logger.WarnLevel),
		Timeout: h.timeout,
	})
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			log.Warn("hook failed", logger.Int("status", exitErr.Status))
		}
		return errors.Wrap(err, "hook")
	}

	log.Debug("hook finished", logger.Duration("duration", time.Since(start)))
	return nil
}
