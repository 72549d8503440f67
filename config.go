package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const configName = ".postfix.toml"

// config holds command settings; each may come from the config file, and be
// overridden by its flag of the same name.
type config struct {
	Timeout   duration `toml:"timeout"`
	Trace     bool     `toml:"trace"`
	StepLimit uint     `toml:"step_limit"`
	Jobs      int      `toml:"jobs"`
	History   string   `toml:"history"`
	Prompt    string   `toml:"prompt"`
}

var defaultConfig = config{
	Jobs:    4,
	History: "~/.postfix_history",
	Prompt:  "Type a postfix program: ",
}

type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configName)
}

// loadConfig decodes the config file at path over the defaults. A missing file
// is only an error if the path was explicitly asked for.
func loadConfig(path string, explicit bool) (config, error) {
	cfg := defaultConfig
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return defaultConfig, nil
	} else if err != nil {
		return defaultConfig, fmt.Errorf("failed to load config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return defaultConfig, fmt.Errorf("unknown config keys in %v: %v", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// historyPath expands a leading ~ in the configured history file.
func (cfg config) historyPath() string {
	path := cfg.History
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

func (cfg config) vmOptions(logf func(mess string, args ...interface{})) []VMOption {
	var opts []VMOption
	if cfg.Trace && logf != nil {
		opts = append(opts, WithLogf(logf))
	}
	if cfg.StepLimit != 0 {
		opts = append(opts, WithStepLimit(cfg.StepLimit))
	}
	return opts
}

// withTimeout bounds ctx by d, if d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
