// Package config loads the load generator's settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/randomizedcoder/ringpool/internal/pool"
)

// File mirrors the YAML document. Durations are strings such as "250ms".
type File struct {
	Pool     PoolConfig    `yaml:"pool"`
	Load     LoadConfig    `yaml:"load"`
	LogLevel string        `yaml:"log_level"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Report   ReportConfig  `yaml:"report"`
}

// PoolConfig sizes the worker pool.
type PoolConfig struct {
	Threads  int `yaml:"threads"`
	Capacity int `yaml:"capacity"`
}

// LoadConfig describes the synthetic producers.
type LoadConfig struct {
	Producers    int     `yaml:"producers"`
	Tasks        int     `yaml:"tasks"`
	Rate         float64 `yaml:"rate"`
	TaskDuration string  `yaml:"task_duration"`
	Retry        *bool   `yaml:"retry"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ReportConfig controls progress reporting.
type ReportConfig struct {
	Interval string `yaml:"interval"`
}

// Config is the validated, typed configuration.
type Config struct {
	Threads      int           // 0 selects GOMAXPROCS
	Capacity     int           // queue capacity including the guard slot
	Producers    int           // concurrent submitting goroutines
	Tasks        int           // tasks per producer
	Rate         float64       // submits per second per producer, 0 = unlimited
	TaskDuration time.Duration // simulated work per task
	Retry        bool          // retry on a full queue instead of shedding
	LogLevel     zerolog.Level
	MetricsAddr  string // empty disables the endpoint
	Report       time.Duration
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Threads:      0,
		Capacity:     pool.DefaultCapacity,
		Producers:    4,
		Tasks:        1000,
		TaskDuration: 100 * time.Microsecond,
		Retry:        true,
		LogLevel:     zerolog.InfoLevel,
		Report:       time.Second,
	}
}

// Load reads a YAML file and overlays it on Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse overlays a YAML document on Default and validates the result.
func Parse(data []byte) (Config, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	c, err := f.toConfig()
	if err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

func (f *File) toConfig() (Config, error) {
	c := Default()

	if f.Pool.Threads != 0 {
		c.Threads = f.Pool.Threads
	}
	if f.Pool.Capacity != 0 {
		c.Capacity = f.Pool.Capacity
	}
	if f.Load.Producers != 0 {
		c.Producers = f.Load.Producers
	}
	if f.Load.Tasks != 0 {
		c.Tasks = f.Load.Tasks
	}
	if f.Load.Rate != 0 {
		c.Rate = f.Load.Rate
	}
	if f.Load.TaskDuration != "" {
		d, err := time.ParseDuration(f.Load.TaskDuration)
		if err != nil {
			return c, fmt.Errorf("invalid task_duration: %w", err)
		}
		c.TaskDuration = d
	}
	if f.Load.Retry != nil {
		c.Retry = *f.Load.Retry
	}

	if f.LogLevel != "" {
		lvl, err := zerolog.ParseLevel(f.LogLevel)
		if err != nil {
			return c, fmt.Errorf("invalid log_level: %w", err)
		}
		c.LogLevel = lvl
	}
	c.MetricsAddr = f.Metrics.Addr
	if f.Report.Interval != "" {
		d, err := time.ParseDuration(f.Report.Interval)
		if err != nil {
			return c, fmt.Errorf("invalid report interval: %w", err)
		}
		c.Report = d
	}
	return c, nil
}

// Validate checks ranges the pool and producers depend on.
func (c Config) Validate() error {
	var errs []error
	if c.Threads < 0 {
		errs = append(errs, fmt.Errorf("threads must be >= 0, got %d", c.Threads))
	}
	if c.Capacity <= 1 {
		errs = append(errs, fmt.Errorf("capacity must be > 1, got %d", c.Capacity))
	}
	if c.Producers <= 0 {
		errs = append(errs, fmt.Errorf("producers must be > 0, got %d", c.Producers))
	}
	if c.Tasks < 0 {
		errs = append(errs, fmt.Errorf("tasks must be >= 0, got %d", c.Tasks))
	}
	if c.Rate < 0 {
		errs = append(errs, fmt.Errorf("rate must be >= 0, got %g", c.Rate))
	}
	if c.TaskDuration < 0 {
		errs = append(errs, fmt.Errorf("task_duration must be >= 0, got %s", c.TaskDuration))
	}
	if c.Report <= 0 {
		errs = append(errs, fmt.Errorf("report interval must be > 0, got %s", c.Report))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
