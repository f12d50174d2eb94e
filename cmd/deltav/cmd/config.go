package cmd

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of a simulation run. Environment
// variables with the DELTAV_ prefix override individual fields, and a .env
// file in the working directory is loaded first if present.
type Config struct {
	Name           string `yaml:"name"`
	RunForNS       uint64 `yaml:"run_for_ns"`
	MaxDeltaCycles uint64 `yaml:"max_delta_cycles"`

	Monitor struct {
		Enable      bool `yaml:"enable"`
		Port        int  `yaml:"port"`
		OpenBrowser bool `yaml:"open_browser"`
	} `yaml:"monitor"`

	Record struct {
		Enable bool   `yaml:"enable"`
		Path   string `yaml:"path"`
	} `yaml:"record"`

	Trace bool `yaml:"trace"`
}

func defaultConfig() Config {
	c := Config{
		Name:     "demo",
		RunForNS: 1000,
	}
	c.Monitor.Port = 8080

	return c
}

func loadConfig(path string) (Config, error) {
	c := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, errors.Wrap(err, "cannot read config")
		}

		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, errors.Wrap(err, "cannot parse config")
		}
	}

	// Missing .env files are fine.
	_ = godotenv.Load()

	applyEnvOverrides(&c)

	return c, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("DELTAV_RUN_FOR_NS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.RunForNS = n
		}
	}

	if v := os.Getenv("DELTAV_MONITOR_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Monitor.Port = n
		}
	}

	if v := os.Getenv("DELTAV_RECORD_PATH"); v != "" {
		c.Record.Enable = true
		c.Record.Path = v
	}
}
