package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/yuya-takeyama/isc/internal/checksum"
)

// Config holds the run settings. Precedence: defaults, config file,
// environment, then flags applied by the caller.
type Config struct {
	Threads     int      `yaml:"threads"`
	Concurrency int      `yaml:"concurrency"`
	Algorithm   string   `yaml:"algorithm"`
	Excludes    []string `yaml:"exclude"`
	Includes    []string `yaml:"include"`
	Progress    bool     `yaml:"progress"`
	Verbose     bool     `yaml:"verbose"`
	Quiet       bool     `yaml:"quiet"`
}

func Default() Config {
	return Config{
		Threads:   runtime.NumCPU(),
		Algorithm: string(checksum.DefaultAlgorithm),
	}
}

// Load returns the defaults overlaid with path (if non-empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadEnv(cfg *Config) error {
	if v := os.Getenv("ISC_THREADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ISC_THREADS: %w", err)
		}
		cfg.Threads = n
	}
	if v := os.Getenv("ISC_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ISC_CONCURRENCY: %w", err)
		}
		cfg.Concurrency = n
	}
	if v := os.Getenv("ISC_ALGORITHM"); v != "" {
		cfg.Algorithm = v
	}
	return nil
}

// Validate checks the settings and fills in Concurrency from Threads when unset.
func (c *Config) Validate() (checksum.Algorithm, error) {
	alg, err := checksum.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return "", err
	}
	if c.Threads <= 0 {
		return "", fmt.Errorf("threads must be positive, got %d", c.Threads)
	}
	if c.Concurrency < 0 {
		return "", fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Concurrency == 0 {
		c.Concurrency = c.Threads
	}
	return alg, nil
}
