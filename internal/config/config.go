// Package config holds runtime configuration: defaults, YAML/env/CLI loading,
// and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// Format identifies an output encoding.
type Format string

const (
	FormatJPEG Format = "jpeg" // Baseline JPEG (default fallback format).
	FormatWebP Format = "webp" // WebP lossy.
	FormatAVIF Format = "avif" // AVIF (AV1 still image).
	FormatPNG  Format = "png"  // PNG (lossless; quality setting ignored).
)

// Ext returns the output filename extension (without dot) for the format.
// JPEG thumbnails are written as ".jpg" to match the legacy naming.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// ParseFormat maps user input (including common aliases) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	case "avif":
		return FormatAVIF, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unknown format %q (use jpeg, webp, avif or png)", s)
	}
}

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// SizeSpec is one target thumbnail dimension with its filename suffix.
// A suffix of "" is the baseline variant; "@2x" the retina variant.
type SizeSpec struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Suffix string `yaml:"suffix"`
}

// Label returns a short human-readable form, e.g. "80x80" or "160x160 (@2x)".
func (s SizeSpec) Label() string {
	if s.Suffix == "" {
		return fmt.Sprintf("%dx%d", s.Width, s.Height)
	}
	return fmt.Sprintf("%dx%d (%s)", s.Width, s.Height, s.Suffix)
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadFile] and [LoadEnv], then mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
// After startup it is treated as immutable.
type Config struct {
	// Paths (set from positional args; defaults allow a bare invocation).
	InputDir  string
	OutputDir string

	// Conversion matrix.
	Sizes   []SizeSpec
	Formats []Format

	// Encoder tuning. Quality is 0-100 per format; Effort trades encode
	// time for compression efficiency (0 = fastest, 9 = smallest output).
	Quality map[Format]int
	Effort  map[Format]int

	// Benchmark.
	RunBench   bool   // Default: true. Cleared by --no-bench.
	BenchOnly  bool   // Run only the format benchmark.
	BenchImage string // Test image path; relative paths resolve under InputDir.

	// Behavior flags.
	DryRun       bool
	SkipExisting bool // Set by --skip-existing; --force clears it.
	Watch        bool // Keep watching InputDir after the initial batch.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check encoder diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults matching the legacy
// script: an 80x80 baseline plus a 160x160 "@2x" variant, encoded as
// JPEG, WebP and AVIF.
func DefaultConfig() Config {
	return Config{
		InputDir:  "images",
		OutputDir: "thumbs",
		Sizes: []SizeSpec{
			{Width: 80, Height: 80, Suffix: ""},
			{Width: 160, Height: 160, Suffix: "@2x"},
		},
		Formats: []Format{FormatJPEG, FormatWebP, FormatAVIF},
		Quality: map[Format]int{
			FormatJPEG: 80,
			FormatWebP: 80,
			FormatAVIF: 55,
		},
		Effort: map[Format]int{
			FormatWebP: 4,
			FormatAVIF: 4,
		},
		RunBench:   true,
		BenchImage: "test.jpg",
		ColorMode:  ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks the conversion matrix and enum fields. When not in
// CheckOnly mode, it also requires non-empty input and output directories.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if len(c.Sizes) == 0 {
		return errors.New("at least one thumbnail size is required")
	}
	seen := make(map[string]bool, len(c.Sizes))
	for _, s := range c.Sizes {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("invalid size %dx%d (dimensions must be positive)", s.Width, s.Height)
		}
		if seen[s.Suffix] {
			return fmt.Errorf("duplicate size suffix %q", s.Suffix)
		}
		seen[s.Suffix] = true
	}

	if len(c.Formats) == 0 {
		return errors.New("at least one output format is required")
	}
	for _, f := range c.Formats {
		switch f {
		case FormatJPEG, FormatWebP, FormatAVIF, FormatPNG:
			// valid
		default:
			return fmt.Errorf("unknown format %q (use jpeg, webp, avif or png)", f)
		}
		if q, ok := c.Quality[f]; ok && (q < 0 || q > 100) {
			return fmt.Errorf("quality for %s out of range: %d (use 0-100)", f, q)
		}
		if e, ok := c.Effort[f]; ok && (e < 0 || e > 9) {
			return fmt.Errorf("effort for %s out of range: %d (use 0-9)", f, e)
		}
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("need input_dir and output_dir")
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory. This prevents the batch from discovering
// its own thumbnails on a re-run. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}

// QualityFor returns the configured quality for a format, or the format's
// built-in default when the map has no entry.
func (c *Config) QualityFor(f Format) int {
	if q, ok := c.Quality[f]; ok {
		return q
	}
	if f == FormatAVIF {
		return 55
	}
	return 80
}

// EffortFor returns the configured effort for a format (default 4).
func (c *Config) EffortFor(f Format) int {
	if e, ok := c.Effort[f]; ok {
		return e
	}
	return 4
}

// BenchImagePath resolves the benchmark test image: absolute paths are used
// as-is, relative paths are looked up under InputDir.
func (c *Config) BenchImagePath() string {
	if c.BenchImage == "" {
		return ""
	}
	if filepath.IsAbs(c.BenchImage) {
		return c.BenchImage
	}
	return filepath.Join(c.InputDir, c.BenchImage)
}
