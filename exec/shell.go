package exec

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bitfield/script"

	"github.com/vcnkl/pulse/config"
)

type ShellOptions struct {
	WorkDir string
	Env     []string
	Shell   string
	Stdout  io.Writer
	Stderr  io.Writer
	Timeout time.Duration
}

// ExitError reports a command that ran and exited non-zero.
type ExitError struct {
	Status int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Status)
}

// RunCommand runs cmdStr through opts.Shell and returns once it exits or ctx
// ends, whichever is first.
func RunCommand(ctx context.Context, cmdStr string, opts *ShellOptions) error {
	if opts.Shell == "" {
		opts.Shell = config.DefaultShell
	}

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// TODO: kill the child on ctx end once script can run a pipe under a context.
	done := make(chan error, 1)
	go func() {
		pipe := script.NewPipe().WithEnv(opts.Env)
		pipe = pipe.Exec(shellLine(opts.Shell, opts.WorkDir, cmdStr))
		pipe = pipe.WithStdout(opts.Stdout).WithStderr(opts.Stderr)
		_, err := pipe.Stdout()
		if status := pipe.ExitStatus(); status != 0 {
			err = &ExitError{Status: status}
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func shellLine(shell, workDir, cmdStr string) string {
	wrapped := cmdStr
	if workDir != "" {
		wrapped = fmt.Sprintf("cd %q && (\n%s\n)", workDir, cmdStr)
	}

	parts := strings.Fields(shell)
	return strings.Join(parts, " ") + " -c " + shellQuote(wrapped)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
