// Package config builds gen.NodeOptions from the defaults, a YAML or JSON
// file and the MESHRT_* environment variables (in this order of precedence).
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/snowdamiz/meshrt/gen"
	"github.com/snowdamiz/meshrt/lib"
)

// EnvPrefix is the prefix of the environment variables overriding the config
// values. Nested keys are separated with the double underscore:
// MESHRT_LOG__LEVEL=debug sets log.level
const EnvPrefix = "MESHRT_"

// Config
type Config struct {
	Name            string            `koanf:"name"`
	ShutdownTimeout time.Duration     `koanf:"shutdown_timeout"`
	Log             Log               `koanf:"log"`
	Scheduler       Scheduler         `koanf:"scheduler"`
	Env             map[string]string `koanf:"env,omitempty"`
}

// Log
type Log struct {
	Level           string `koanf:"level"`
	TimeFormat      string `koanf:"time_format"`
	Color           bool   `koanf:"color"`
	IncludeName     bool   `koanf:"include_name"`
	IncludeBehavior bool   `koanf:"include_behavior"`
	IncludeFields   bool   `koanf:"include_fields"`
}

// Scheduler
type Scheduler struct {
	Workers    int `koanf:"workers"`
	Reductions int `koanf:"reductions"`
}

// Default returns the config with the default values
func Default() Config {
	return Config{
		Name:            "meshrt@" + lib.GetHostname(),
		ShutdownTimeout: gen.DefaultShutdownTimeout,
		Log: Log{
			Level:      gen.LogLevelInfo.String(),
			TimeFormat: time.DateTime,
		},
		Scheduler: Scheduler{
			Reductions: gen.DefaultReductions,
		},
	}
}

// Load reads the config. Empty path means the defaults and the environment only.
func Load(path string) (Config, error) {
	var cfg Config

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return cfg, fmt.Errorf("unable to load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserOf(path)
		if err != nil {
			return cfg, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return cfg, fmt.Errorf("unable to load %s: %w", path, err)
		}
	}

	envKey := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("unable to load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, nil
}

func parserOf(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	}
	return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
}

// NodeOptions converts the config into gen.NodeOptions
func (c Config) NodeOptions() (gen.NodeOptions, error) {
	var options gen.NodeOptions

	level, err := gen.ParseLogLevel(c.Log.Level)
	if err != nil {
		return options, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	if c.Scheduler.Workers < 0 || c.Scheduler.Reductions < 0 {
		return options, fmt.Errorf("scheduler: %w", gen.ErrIncorrect)
	}

	options.Log.Level = level
	options.Log.DefaultLogger = gen.DefaultLoggerOptions{
		TimeFormat:      c.Log.TimeFormat,
		Color:           c.Log.Color,
		IncludeName:     c.Log.IncludeName,
		IncludeBehavior: c.Log.IncludeBehavior,
		IncludeFields:   c.Log.IncludeFields,
	}
	options.Scheduler.Workers = c.Scheduler.Workers
	options.Scheduler.Reductions = c.Scheduler.Reductions
	options.ShutdownTimeout = c.ShutdownTimeout

	if len(c.Env) > 0 {
		options.Env = make(map[gen.Env]any)
		for k, v := range c.Env {
			options.Env[gen.Env(k)] = v
		}
	}
	return options, nil
}

// Watch reloads the config on every change of the file and invokes fn with
// the result. Blocks until the context is done.
func Watch(ctx context.Context, path string, fn func(Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// editors replace the file on save, so the directory is watched
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if ok == false {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) == false && event.Has(fsnotify.Create) == false {
				continue
			}
			fn(Load(path))

		case err, ok := <-watcher.Errors:
			if ok == false {
				return nil
			}
			fn(Config{}, err)
		}
	}
}
