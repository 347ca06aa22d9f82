package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configFileName is looked up in the working directory and its parents.
const configFileName = ".pyfloor.yml"

// config is the merged CLI configuration: file values overridden by any
// flags the user set explicitly.
type config struct {
	Quiet     bool     `yaml:"quiet"`
	Verbosity int      `yaml:"verbosity"`
	Lax       bool     `yaml:"lax"`
	Processes int      `yaml:"processes"`
	CacheDB   string   `yaml:"cache-db"`
	Exclude   []string `yaml:"exclude"`
}

// loadConfig reads .pyfloor.yml from startDir or the nearest parent
// directory containing one. A missing file yields the zero config.
func loadConfig(startDir string) (*config, error) {
	path, ok := findConfigFile(startDir)
	if !ok {
		return &config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func findConfigFile(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, configFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// applyFlags overrides config values with explicitly set command flags.
func (c *config) applyFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("quiet") {
		c.Quiet = flagQuiet
	}
	if cmd.Flags().Changed("verbose") {
		c.Verbosity = flagVerbose
	}
	if cmd.Flags().Changed("lax") {
		c.Lax = flagLax
	}
	if cmd.Flags().Changed("processes") {
		c.Processes = flagProcesses
	}
	if cmd.Flags().Changed("cache-db") {
		c.CacheDB = flagCacheDB
	}
}
