package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation(t *testing.T) {
	r := New()

	r.ObserveOperation("set-ip", nil)
	r.ObserveOperation("set-ip", nil)
	r.ObserveOperation("set-ip", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.OperationsTotal.WithLabelValues("set-ip", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.OperationsTotal.WithLabelValues("set-ip", ResultFailure)))
}

func TestObserveCommand(t *testing.T) {
	r := New()

	r.ObserveCommand("disable", nil)
	r.ObserveCommand("enable", errors.New("permission denied"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.CommandsTotal.WithLabelValues("disable", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.CommandsTotal.WithLabelValues("enable", ResultFailure)))
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry

	r.ObserveOperation("list", nil)
	r.ObserveCommand("set-dns", nil)
	r.ObserveRestartWait(time.Second)
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom"), time.Now()))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ObserveOperation("restart", nil)
	r.ObserveRestartWait(4 * time.Second)

	path := filepath.Join(t.TempDir(), "nicctl.prom")
	require.NoError(t, r.WriteTextfile(path, time.Unix(1700000000, 0)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.Contains(text, `nicctl_operations_total{operation="restart",result="success"} 1`))
	assert.True(t, strings.Contains(text, "nicctl_restart_wait_seconds_count 1"))
	assert.True(t, strings.Contains(text, "nicctl_last_run_timestamp_seconds 1.7e+09"))
}
