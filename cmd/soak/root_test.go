//go:build linux || darwin || freebsd

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tezrry/baremetal/pkg/logging"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	prevLogger, prevFlusher := logging.GetDefaultLogger(), logging.GetDefaultFlusher()
	logging.SetDefaultLoggerAndFlusher(logging.NewNop(), nil)
	t.Cleanup(func() { logging.SetDefaultLoggerAndFlusher(prevLogger, prevFlusher) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTakeCmd(t *testing.T) {
	out, err := run(t, "take", "--contenders", "8", "--rounds", "3", "--pool-size", "4")
	require.NoError(t, err)
	require.Contains(t, out, "rounds=3 contenders=8 winners=3 refused=24 steals=3")
}

func TestBorrowCmd(t *testing.T) {
	out, err := run(t, "borrow", "--iterations", "50", "--preempt-percent", "0")
	require.NoError(t, err)
	require.Contains(t, out, "iterations=50 timer=0 uart=50 conflicts=0 ticks=0 bytes=50")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SOAK_ROUNDS", "2")
	out, err := run(t, "take", "--contenders", "4")
	require.NoError(t, err)
	require.Contains(t, out, "rounds=2 contenders=4 winners=2")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soak.yaml")
	require.NoError(t, os.WriteFile(path, []byte("contenders: 6\nrounds: 1\n"), 0o644))

	out, err := run(t, "take", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "rounds=1 contenders=6 winners=1 refused=6")
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "borrow", "--preempt-percent", "200")
	require.Error(t, err)
}
