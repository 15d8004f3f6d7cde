package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/snowdamiz/meshrt/gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
name: demo@localhost
shutdown_timeout: 2s
log:
  level: debug
  color: true
scheduler:
  workers: 3
env:
  region: eu
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	options, err := cfg.NodeOptions()
	require.NoError(t, err)
	assert.Equal(t, gen.LogLevelInfo, options.Log.Level)
	assert.Equal(t, gen.DefaultReductions, options.Scheduler.Reductions)
	assert.Equal(t, gen.DefaultShutdownTimeout, options.ShutdownTimeout)
	assert.Nil(t, options.Env)
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "node.yaml", testYAML))
	require.NoError(t, err)

	assert.Equal(t, "demo@localhost", cfg.Name)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Color)
	// not in the file
	assert.Equal(t, time.DateTime, cfg.Log.TimeFormat)
	assert.Equal(t, 3, cfg.Scheduler.Workers)
	assert.Equal(t, gen.DefaultReductions, cfg.Scheduler.Reductions)

	options, err := cfg.NodeOptions()
	require.NoError(t, err)
	assert.Equal(t, gen.LogLevelDebug, options.Log.Level)
	assert.True(t, options.Log.DefaultLogger.Color)
	assert.Equal(t, 3, options.Scheduler.Workers)
	assert.Equal(t, map[gen.Env]any{"region": "eu"}, options.Env)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "node.json", `{"name": "json@localhost", "scheduler": {"reductions": 100}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json@localhost", cfg.Name)
	assert.Equal(t, 100, cfg.Scheduler.Reductions)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("MESHRT_NAME", "env@localhost")
	t.Setenv("MESHRT_LOG__LEVEL", "warning")

	cfg, err := Load(writeFile(t, "node.yml", testYAML))
	require.NoError(t, err)
	assert.Equal(t, "env@localhost", cfg.Name)
	assert.Equal(t, "warning", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Scheduler.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "node.toml", "name = 1"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	cfg := Default()
	cfg.Log.Level = "verbose"
	_, err = cfg.NodeOptions()
	assert.ErrorIs(t, err, gen.ErrIncorrect)

	cfg = Default()
	cfg.Scheduler.Workers = -1
	_, err = cfg.NodeOptions()
	assert.ErrorIs(t, err, gen.ErrIncorrect)
}

func TestWatch(t *testing.T) {
	path := writeFile(t, "node.yaml", testYAML)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	levels := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c Config, err error) {
			if err != nil {
				return
			}
			select {
			case levels <- c.Log.Level:
			default:
			}
		})
	}()

	// let the watcher start
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case level := <-levels:
			// a write may come in several events
			if level != "error" {
				continue
			}
		case <-deadline:
			t.Fatal("no reload")
		}
		break
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher hasn't stopped")
	}
}
