package exec

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellLine(t *testing.T) {
	tests := []struct {
		name     string
		shell    string
		workDir  string
		cmd      string
		expected string
	}{
		{
			name:     "plain shell",
			shell:    "/bin/sh",
			cmd:      "echo hi",
			expected: "/bin/sh -c 'echo hi'",
		},
		{
			name:     "shell with args",
			shell:    "/usr/bin/env  bash",
			cmd:      "echo hi",
			expected: "/usr/bin/env bash -c 'echo hi'",
		},
		{
			name:     "work dir wraps command",
			shell:    "/bin/sh",
			workDir:  "/tmp/x",
			cmd:      "ls",
			expected: "/bin/sh -c 'cd \"/tmp/x\" && (\nls\n)'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shellLine(tt.shell, tt.workDir, tt.cmd))
		})
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple string",
			input:    "hello world",
			expected: "'hello world'",
		},
		{
			name:     "string with single quote",
			input:    "it's working",
			expected: "'it'\"'\"'s working'",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "''",
		},
		{
			name:     "string with special chars",
			input:    "echo $PULSE_VALUE && make",
			expected: "'echo $PULSE_VALUE && make'",
		},
		{
			name:     "string with newlines",
			input:    "line1\nline2",
			expected: "'line1\nline2'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shellQuote(tt.input))
		})
	}
}

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name         string
		cmd          string
		env          []string
		expectOutput string
		expectStatus int
	}{
		{
			name:         "prints value from env",
			cmd:          "echo \"got $PULSE_VALUE\"",
			env:          []string{"PULSE_VALUE=42"},
			expectOutput: "got 42",
		},
		{
			name:         "multi line command",
			cmd:          "echo one\necho two",
			expectOutput: "one\ntwo",
		},
		{
			name:         "non-zero exit",
			cmd:          "exit 3",
			expectStatus: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			err := RunCommand(context.Background(), tt.cmd, &ShellOptions{
				Env:    tt.env,
				Shell:  "/bin/sh",
				Stdout: &stdout,
				Stderr: &bytes.Buffer{},
			})

			if tt.expectStatus != 0 {
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr))
				assert.Equal(t, tt.expectStatus, exitErr.Status)
				assert.Equal(t, "command exited with status 3", exitErr.Error())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectOutput, strings.TrimSpace(stdout.String()))
		})
	}
}

func TestRunCommand_WorkDir(t *testing.T) {
	dir := t.TempDir()

	var stdout bytes.Buffer
	err := RunCommand(context.Background(), "pwd", &ShellOptions{
		WorkDir: dir,
		Shell:   "/bin/sh",
		Stdout:  &stdout,
	})

	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), filepath.Base(strings.TrimSpace(stdout.String())))
}

func TestRunCommand_Timeout(t *testing.T) {
	start := time.Now()
	err := RunCommand(context.Background(), "sleep 5", &ShellOptions{
		Shell:   "/bin/sh",
		Timeout: 50 * time.Millisecond,
		Stdout:  &bytes.Buffer{},
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
