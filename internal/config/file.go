package config

// This file implements the optional YAML config file and environment
// overrides. Precedence (lowest to highest): DefaultConfig -> .env /
// environment -> --config file -> CLI flags.

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML schema. Only the fields present in the file
// override the current Config; absent fields keep their prior values.
type fileConfig struct {
	InputDir   string         `yaml:"input_dir"`
	OutputDir  string         `yaml:"output_dir"`
	Sizes      []SizeSpec     `yaml:"sizes"`
	Formats    []string       `yaml:"formats"`
	Quality    map[string]int `yaml:"quality"`
	Effort     map[string]int `yaml:"effort"`
	BenchImage string         `yaml:"bench_image"`
}

// LoadFile overlays cfg with values from a YAML config file.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.InputDir != "" {
		cfg.InputDir = NormalizeDirArg(fc.InputDir)
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = NormalizeDirArg(fc.OutputDir)
	}
	if len(fc.Sizes) > 0 {
		cfg.Sizes = fc.Sizes
	}
	if len(fc.Formats) > 0 {
		formats := make([]Format, 0, len(fc.Formats))
		for _, s := range fc.Formats {
			f, err := ParseFormat(s)
			if err != nil {
				return fmt.Errorf("config file %s: %w", path, err)
			}
			formats = append(formats, f)
		}
		cfg.Formats = formats
	}
	for k, v := range fc.Quality {
		f, err := ParseFormat(k)
		if err != nil {
			return fmt.Errorf("config file %s: quality: %w", path, err)
		}
		cfg.Quality[f] = v
	}
	for k, v := range fc.Effort {
		f, err := ParseFormat(k)
		if err != nil {
			return fmt.Errorf("config file %s: effort: %w", path, err)
		}
		cfg.Effort[f] = v
	}
	if fc.BenchImage != "" {
		cfg.BenchImage = fc.BenchImage
	}
	return nil
}

// LoadEnv overlays cfg with WEBIMAGE_* environment variables. A .env file in
// the working directory is loaded first when present; a missing .env is not
// an error.
func LoadEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("WEBIMAGE_INPUT"); v != "" {
		cfg.InputDir = NormalizeDirArg(v)
	}
	if v := os.Getenv("WEBIMAGE_OUTPUT"); v != "" {
		cfg.OutputDir = NormalizeDirArg(v)
	}
	if v := os.Getenv("WEBIMAGE_BENCH_IMAGE"); v != "" {
		cfg.BenchImage = v
	}
	if v := os.Getenv("WEBIMAGE_LOG"); v != "" {
		cfg.LogFile = v
	}
}
