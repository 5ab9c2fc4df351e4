// Package bench implements the format benchmark: one fixed test image is
// resized and encoded once per configured format to compare output size and
// encode latency.
package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/trungnx2605/webimage/internal/codec"
	"github.com/trungnx2605/webimage/internal/config"
	"github.com/trungnx2605/webimage/internal/display"
	"github.com/trungnx2605/webimage/internal/logging"
)

// benchWidth/benchHeight is the fixed thumbnail size every format is
// measured at, matching the @2x batch variant.
const (
	benchWidth  = 160
	benchHeight = 160
)

// Result is one benchmark row: a format with its measured output size and
// encode duration, or the error that prevented measurement. A failed format
// never stops the remaining formats.
type Result struct {
	Format   config.Format
	Bytes    int64
	Duration time.Duration
	Err      error
}

// Run benchmarks every configured format against cfg's test image and logs
// a summary table. A missing test image is a warning, not an error: the
// benchmark is optional and the batch result stands on its own.
func Run(cfg *config.Config, log *logging.Logger) []Result {
	path := cfg.BenchImagePath()
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		log.Warn("Benchmark skipped: test image not found: %s", path)
		return nil
	}

	log.Info("Format benchmark (%dx%d from %s)", benchWidth, benchHeight, filepath.Base(path))

	src, err := codec.Open(path)
	if err != nil {
		log.Warn("Benchmark skipped: %v", err)
		return nil
	}
	thumb := codec.Cover(src, benchWidth, benchHeight)

	results := make([]Result, 0, len(cfg.Formats))
	for _, f := range cfg.Formats {
		res := Result{Format: f}

		// Encode to a throwaway uniquely-named file so a concurrent run
		// (or a stale temp file) can't interfere with the measurement.
		tmp := filepath.Join(os.TempDir(), fmt.Sprintf("webimage-bench-%s.%s", uuid.New(), f.Ext()))
		start := time.Now()
		bytes, err := codec.EncodeFile(tmp, thumb, f, cfg.QualityFor(f), cfg.EffortFor(f))
		res.Duration = time.Since(start)
		res.Bytes = bytes
		res.Err = err
		os.Remove(tmp)

		results = append(results, res)
	}

	logTable(cfg, log, results)
	return results
}

// logTable renders the benchmark rows as an aligned table through the
// BENCH log level.
func logTable(cfg *config.Config, log *logging.Logger, results []Result) {
	log.Bench("%-8s %10s %10s  %s", "FORMAT", "SIZE", "TIME", "NOTE")
	for _, r := range results {
		if r.Err != nil {
			log.Bench("%-8s %10s %10s  error: %v", r.Format, "-", "-", r.Err)
			continue
		}
		note := fmt.Sprintf("q%d, effort %d", cfg.QualityFor(r.Format), cfg.EffortFor(r.Format))
		log.Bench("%-8s %10s %10s  %s",
			r.Format, display.FormatBytes(r.Bytes), display.FormatDuration(r.Duration), note)
	}
}
