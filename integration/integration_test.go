package integration

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
)

func skipIntegration(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("skipping integration test via SKIP_INTEGRATION env var")
	}
}

func buildPulseBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "pulse")

	pulseDir, _ := filepath.Abs("..")
	t.Logf("Building pulse from: %s", pulseDir)

	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = pulseDir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0", "GOOS=linux", "GOARCH=amd64")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build pulse binary: %s", string(output))

	return binaryPath
}

func startTestContainer(t *testing.T, ctx context.Context) testcontainers.Container {
	t.Helper()

	binaryPath := buildPulseBinary(t)

	ctr, err := testcontainers.Run(ctx, "alpine:3.20",
		testcontainers.WithFiles(
			testcontainers.ContainerFile{
				HostFilePath:      binaryPath,
				ContainerFilePath: "/usr/local/bin/pulse",
				FileMode:          0o755,
			},
		),
		testcontainers.WithCmd("tail", "-f", "/dev/null"),
		testcontainers.WithWaitStrategy(
			wait.ForExec([]string{"pulse", "--version"}).
				WithStartupTimeout(60*time.Second).
				WithPollInterval(time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	return ctr
}

func run(t *testing.T, ctx context.Context, ctr testcontainers.Container, script string) (int, string) {
	t.Helper()

	exitCode, reader, err := ctr.Exec(ctx, []string{"sh", "-c", script}, tcexec.Multiplexed())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(reader)
	require.NoError(t, err)

	t.Logf("%s\n(exit code %d): %s", script, exitCode, buf.String())
	return exitCode, buf.String()
}

func TestIntegration_Pipe(t *testing.T) {
	skipIntegration(t)

	ctx := context.Background()
	ctr := startTestContainer(t, ctx)
	defer testcontainers.CleanupContainer(t, ctr)

	tests := []struct {
		name     string
		script   string
		expected string
	}{
		{
			name:     "burst settles to last line",
			script:   `printf 'a\nb\nc\n' | pulse --duration 50ms pipe 2>/dev/null`,
			expected: "c",
		},
		{
			name:     "separate bursts each settle",
			script:   `(echo a; echo b; sleep 1; echo c) | pulse --duration 100ms pipe 2>/dev/null`,
			expected: "b\nc",
		},
		{
			name:     "exec hook sees value",
			script:   `printf 'x\ny\n' | pulse -t 50ms pipe --exec 'echo hook=$PULSE_VALUE' 2>/dev/null`,
			expected: "hook=y",
		},
		{
			name: "config file",
			script: `printf 'duration: 50ms\nhook:\n  cmd: echo cfg=$PULSE_VALUE\n' > /tmp/pulse.yml && ` +
				`printf '1\n2\n' | pulse --config /tmp/pulse.yml pipe 2>/dev/null`,
			expected: "cfg=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exitCode, output := run(t, ctx, ctr, tt.script)
			assert.Zero(t, exitCode)
			assert.Equal(t, tt.expected, strings.TrimSpace(output))
		})
	}
}

func TestIntegration_Watch(t *testing.T) {
	skipIntegration(t)

	ctx := context.Background()
	ctr := startTestContainer(t, ctx)
	defer testcontainers.CleanupContainer(t, ctr)

	exitCode, output := run(t, ctx, ctr, `
		set -e
		mkdir -p /tmp/w
		pulse --duration 200ms watch --exec 'echo settled=$PULSE_VALUE >> /tmp/settled' /tmp/w >/dev/null 2>&1 &
		sleep 1
		for i in 1 2 3 4 5; do echo $i > /tmp/w/file.txt; done
		sleep 1
		pkill pulse
		cat /tmp/settled
	`)

	assert.Zero(t, exitCode)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Equal(t, []string{"settled=/tmp/w/file.txt"}, lines)
}
