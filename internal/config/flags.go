package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into conversion, benchmark, behavior, display, and utility.
// Negated flags (e.g. --no-bench) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, malformed size list).
// The --config file, when given, is applied before the remaining flags so
// explicit flags win over file values.
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("webimage", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var negated negatedFlags
	var configFile string
	fs.StringVar(&configFile, "config", "", "YAML config file")

	defineConversionFlags(fs, cfg)
	defineBenchFlags(fs, cfg, &negated)
	defineBehaviorFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if negated.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "webimage v"+version)
		os.Exit(0)
	}

	// Re-apply flag values on top of the config file: parse the file first
	// into cfg, then let a second flag pass restore explicit flag values.
	if configFile != "" {
		if err := LoadFile(cfg, configFile); err != nil {
			return err
		}
		if err := fs.Parse(os.Args[1:]); err != nil {
			return err
		}
	}

	applyNegatedFlags(cfg, &negated)
	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noBench -> RunBench=false) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noBench     bool
	force       bool
	skipExist   bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineConversionFlags registers --sizes, --formats, -q/--quality, --effort.
func defineConversionFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&sizeListValue{&cfg.Sizes}, "sizes", "Comma list of WxH[:suffix] specs (e.g. 80x80,160x160:@2x)")
	fs.Var(&formatListValue{&cfg.Formats}, "formats", "Comma list of output formats (jpeg, webp, avif, png)")
	fs.Var(&qualityMapValue{&cfg.Quality}, "quality", "Comma list of format=quality pairs (e.g. jpeg=80,avif=55)")
	fs.Var(&qualityMapValue{&cfg.Quality}, "q", "Same as --quality")
	fs.Var(&effortMapValue{&cfg.Effort}, "effort", "Comma list of format=effort pairs, 0-9 (e.g. avif=6)")
}

// defineBenchFlags registers --no-bench, --bench-only, --bench-image.
func defineBenchFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.noBench, "no-bench", false, "Skip the format benchmark after the batch")
	fs.BoolVar(&cfg.BenchOnly, "bench-only", false, "Run only the format benchmark")
	fs.StringVar(&cfg.BenchImage, "bench-image", cfg.BenchImage, "Benchmark test image (relative to input dir)")
}

// defineBehaviorFlags registers dry-run, skip-existing, force, watch.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not write thumbnails")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&n.skipExist, "skip-existing", false, "Do not overwrite existing thumbnails")
	fs.BoolVar(&n.force, "force", false, "Overwrite existing thumbnails (default)")
	fs.BoolVar(&n.force, "f", false, "Same as --force")
	fs.BoolVar(&cfg.Watch, "watch", false, "Keep watching the input dir for new images")
	fs.BoolVar(&cfg.Watch, "w", false, "Same as --watch")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run encoder diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
// --force wins over --skip-existing when both are given.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noBench {
		cfg.RunBench = false
	}
	if n.skipExist {
		cfg.SkipExisting = true
	}
	if n.force {
		cfg.SkipExisting = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir and OutputDir from the optional
// positional args. Zero args keeps the defaults (bare invocation); one arg
// overrides the input dir only.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if len(args) > 2 {
		return fmt.Errorf("too many arguments (want [input_dir [output_dir]])")
	}
	if len(args) >= 1 {
		cfg.InputDir = NormalizeDirArg(args[0])
	}
	if len(args) == 2 {
		cfg.OutputDir = NormalizeDirArg(args[1])
	}
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "webimage v" + version + " — batch web thumbnail generator"},
		{"", ""},
		{"  webimage [OPTIONS] [input_dir [output_dir]]", ""},
		{"", ""},
		{"Conversion", ""},
		{"  --sizes <list>", "WxH[:suffix] specs (default: 80x80,160x160:@2x)"},
		{"  --formats <list>", "Output formats (default: jpeg,webp,avif)"},
		{"  -q, --quality <pairs>", "Per-format quality 0-100 (default: jpeg=80,webp=80,avif=55)"},
		{"  --effort <pairs>", "Per-format encode effort 0-9 (default: 4)"},
		{"", ""},
		{"Benchmark", ""},
		{"  --no-bench", "Skip the format benchmark after the batch"},
		{"  --bench-only", "Run only the format benchmark"},
		{"  --bench-image <path>", "Test image (default: test.jpg under input dir)"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -d, --dry-run", "Preview only; do not write thumbnails"},
		{"  --skip-existing", "Do not overwrite existing thumbnails"},
		{"  -f, --force", "Overwrite existing thumbnails (default)"},
		{"  -w, --watch", "Keep watching the input dir for new images"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --config <path>", "YAML config file"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "Encoder diagnostics (jpeg, webp, avif round-trips)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so the conversion matrix (sizes, formats, quality,
// effort) can be set from comma-separated flag values.

type sizeListValue struct{ p *[]SizeSpec }

func (v *sizeListValue) String() string {
	if v.p == nil {
		return ""
	}
	parts := make([]string, len(*v.p))
	for i, s := range *v.p {
		parts[i] = fmt.Sprintf("%dx%d", s.Width, s.Height)
		if s.Suffix != "" {
			parts[i] += ":" + s.Suffix
		}
	}
	return strings.Join(parts, ",")
}

// Set parses "WxH[:suffix]" entries, e.g. "80x80,160x160:@2x".
func (v *sizeListValue) Set(s string) error {
	var sizes []SizeSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		spec := SizeSpec{}
		if idx := strings.Index(part, ":"); idx >= 0 {
			spec.Suffix = part[idx+1:]
			part = part[:idx]
		}
		dims := strings.SplitN(strings.ToLower(part), "x", 2)
		if len(dims) != 2 {
			return fmt.Errorf("invalid size %q (use WxH or WxH:suffix)", part)
		}
		w, errW := strconv.Atoi(dims[0])
		h, errH := strconv.Atoi(dims[1])
		if errW != nil || errH != nil || w <= 0 || h <= 0 {
			return fmt.Errorf("invalid size %q (use WxH or WxH:suffix)", part)
		}
		spec.Width, spec.Height = w, h
		sizes = append(sizes, spec)
	}
	if len(sizes) == 0 {
		return fmt.Errorf("empty size list")
	}
	*v.p = sizes
	return nil
}

type formatListValue struct{ p *[]Format }

func (v *formatListValue) String() string {
	if v.p == nil {
		return ""
	}
	parts := make([]string, len(*v.p))
	for i, f := range *v.p {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

func (v *formatListValue) Set(s string) error {
	var formats []Format
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return fmt.Errorf("empty format list")
	}
	*v.p = formats
	return nil
}

type qualityMapValue struct{ p *map[Format]int }

func (v *qualityMapValue) String() string { return "" }

// Set parses "format=value" pairs, e.g. "jpeg=80,avif=55".
func (v *qualityMapValue) Set(s string) error {
	return setFormatIntPairs(s, "quality", *v.p)
}

type effortMapValue struct{ p *map[Format]int }

func (v *effortMapValue) String() string { return "" }

func (v *effortMapValue) Set(s string) error {
	return setFormatIntPairs(s, "effort", *v.p)
}

func setFormatIntPairs(s, name string, dst map[Format]int) error {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("invalid %s %q (use format=value)", name, part)
		}
		f, err := ParseFormat(kv[0])
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if err != nil {
			return fmt.Errorf("%s for %s must be a whole number (got %q)", name, f, kv[1])
		}
		dst[f] = n
	}
	return nil
}
