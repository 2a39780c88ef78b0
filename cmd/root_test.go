package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestNewApp(t *testing.T) {
	app := NewApp()

	assert.Equal(t, "pulse", app.Name)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"pipe", "watch"}, names)
}

func TestApp_Pipe(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "pulse.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("duration: 30ms\nlog_level: error\n"), 0644))

	tests := []struct {
		name        string
		args        []string
		input       string
		expected    string
		expectError bool
	}{
		{
			name:     "prints last value",
			args:     []string{"pulse", "--duration", "30ms", "pipe"},
			input:    "one\ntwo\nthree\n",
			expected: "three\n",
		},
		{
			name:     "config file",
			args:     []string{"pulse", "--config", configPath, "pipe"},
			input:    "a\nb\n",
			expected: "b\n",
		},
		{
			name:     "exec hook",
			args:     []string{"pulse", "-t", "30ms", "pipe", "--exec", "echo got=$PULSE_VALUE"},
			input:    "x\ny\n",
			expected: "got=y\n",
		},
		{
			name:        "invalid duration",
			args:        []string{"pulse", "--duration", "-5ms", "pipe"},
			input:       "a\n",
			expectError: true,
		},
		{
			name:        "missing config",
			args:        []string{"pulse", "--config", filepath.Join(t.TempDir(), "nope.yml"), "pipe"},
			input:       "a\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewApp()
			var out bytes.Buffer
			app.Reader = strings.NewReader(tt.input)
			app.Writer = &out
			app.ErrWriter = &bytes.Buffer{}
			app.ExitErrHandler = func(*cli.Context, error) {}

			err := app.RunContext(context.Background(), tt.args)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.String())
		})
	}
}
