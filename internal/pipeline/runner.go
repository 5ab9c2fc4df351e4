package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/trungnx2605/webimage/internal/codec"
	"github.com/trungnx2605/webimage/internal/config"
	"github.com/trungnx2605/webimage/internal/display"
	"github.com/trungnx2605/webimage/internal/logging"
	"github.com/trungnx2605/webimage/internal/naming"
	"github.com/trungnx2605/webimage/internal/probe"
)

// Run is the top-level batch entry point. It discovers source images,
// processes each one sequentially through the size × format matrix, and
// returns aggregate stats with the post-run size report.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats
	start := time.Now()

	files, err := Discover(cfg.InputDir)
	if err != nil {
		log.Error("Source discovery failed: %v", err)
		return stats
	}

	stats.FilesFound = len(files)
	resolver := naming.NewCollisionResolver()

	logBatchHeader(cfg, log, &stats)

	for i, path := range files {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}

		ProcessFile(ctx, cfg, log, path, &stats, resolver)
	}

	stats.Elapsed = time.Since(start)
	sumSizes(cfg, &stats)
	logSummary(cfg, log, &stats)
	return stats
}

// ProcessFile converts one source image into all configured (size, format)
// thumbnails. The source is decoded once and resized per task. Per-task
// failures are logged and counted; they never abort the remaining tasks.
// Exported so watch mode can feed late-arriving files through the same path.
func ProcessFile(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	path string,
	stats *RunStats,
	resolver *naming.CollisionResolver,
) {
	basename := filepath.Base(path)
	tasks := BuildTasks(cfg, path, resolver)

	log.Info("[%d/%d] %s", stats.Current, stats.FilesFound, basename)

	// One probe and one decode per file; the decoded image is shared by
	// all size/format tasks.
	pr, err := probe.Probe(path)
	if err != nil {
		log.Error("Skipping %s: %v", basename, err)
		stats.Failed += len(tasks)
		fmt.Println()
		return
	}
	log.Info("  Source: %s | %s | %s", pr.Resolution(), display.FormatBytes(pr.Size), pr.MIME)

	src, err := codec.Open(path)
	if err != nil {
		log.Error("Skipping %s: %v", basename, err)
		stats.Failed += len(tasks)
		fmt.Println()
		return
	}

	for _, task := range tasks {
		if ctx.Err() != nil {
			return
		}
		res := runTask(cfg, task, src)
		recordTask(cfg, log, stats, res)
	}
	fmt.Println()
}

// errSkipExisting marks a task whose output already exists under
// --skip-existing; recordTask counts it as skipped, not failed.
var errSkipExisting = errors.New("output exists")

// runTask executes a single conversion task: cover-resize the decoded
// source to the task's dimensions and encode it to the output path.
func runTask(cfg *config.Config, task Task, src image.Image) TaskResult {
	res := TaskResult{Task: task}

	if cfg.SkipExisting {
		if _, err := os.Stat(task.Output); err == nil {
			res.Err = errSkipExisting
			return res
		}
	}
	if cfg.DryRun {
		return res
	}

	start := time.Now()
	thumb := codec.Cover(src, task.Size.Width, task.Size.Height)
	bytes, err := codec.EncodeFile(task.Output, thumb, task.Format,
		cfg.QualityFor(task.Format), cfg.EffortFor(task.Format))
	res.Duration = time.Since(start)
	res.Bytes = bytes
	res.Err = err
	return res
}

// recordTask folds one task result into the stats and logs its outcome.
func recordTask(cfg *config.Config, log *logging.Logger, stats *RunStats, res TaskResult) {
	name := filepath.Base(res.Output)

	switch {
	case res.Err == errSkipExisting:
		log.Debug(cfg.Verbose, "  Skip (exists): %s", name)
		stats.Skipped++
	case res.Err != nil:
		log.Error("  %s: %v", name, res.Err)
		stats.Failed++
	case cfg.DryRun:
		log.Success("  [DRY] Would write %s (%s)", name, res.Size.Label())
		stats.Generated++
	default:
		log.Success("  %s (%s, %s)", name, display.FormatBytes(res.Bytes), display.FormatDuration(res.Duration))
		stats.Generated++
	}
}

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d source images in %s", stats.FilesFound, cfg.InputDir)

	sizeLabels := make([]string, len(cfg.Sizes))
	for i, s := range cfg.Sizes {
		sizeLabels[i] = s.Label()
	}
	log.Info("Sizes: %s", strings.Join(sizeLabels, ", "))

	formatLabels := make([]string, len(cfg.Formats))
	for i, f := range cfg.Formats {
		formatLabels[i] = fmt.Sprintf("%s (q%d, effort %d)", f, cfg.QualityFor(f), cfg.EffortFor(f))
	}
	log.Info("Formats: %s", strings.Join(formatLabels, ", "))
	log.Info("Thumbnails per image: %d", len(cfg.Sizes)*len(cfg.Formats))

	if cfg.SkipExisting {
		log.Info("Existing thumbnails: keep")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN — no files will be written")
	}
	fmt.Println()
}

// sumSizes fills the byte totals by re-scanning both directories: recognized
// images under the input dir, every regular file under the output dir.
// Skipped in dry-run mode since nothing was written.
func sumSizes(cfg *config.Config, stats *RunStats) {
	if cfg.DryRun {
		return
	}

	if files, err := Discover(cfg.InputDir); err == nil {
		for _, f := range files {
			if fi, err := os.Stat(f); err == nil {
				stats.TotalInputBytes += fi.Size()
			}
		}
	}

	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if fi, err := e.Info(); err == nil {
			stats.TotalOutputBytes += fi.Size()
		}
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d thumbnails generated, %d skipped, %d failed (%s)",
		stats.Generated, stats.Skipped, stats.Failed, display.FormatDuration(stats.Elapsed))
	log.Info("  Source images: %d", stats.FilesFound)

	if cfg.DryRun {
		log.Info("  Size report: n/a (dry run)")
		return
	}
	if stats.TotalInputBytes == 0 {
		// No input bytes: skip the reduction line instead of dividing by zero.
		log.Info("  Size report: no input bytes")
		return
	}

	log.Info("  Originals:  %s", display.FormatBytes(stats.TotalInputBytes))
	log.Info("  Thumbnails: %s (%s of original)",
		display.FormatBytes(stats.TotalOutputBytes),
		display.FormatPercent(stats.TotalOutputBytes, stats.TotalInputBytes))

	saved := stats.SpaceSaved()
	if saved >= 0 {
		log.Success("  Size reduction: %s (%s)",
			display.FormatBytes(saved),
			display.FormatPercent(saved, stats.TotalInputBytes))
	} else {
		log.Warn("  Size reduction: %s (thumbnail set is larger)",
			display.FormatBytesWithSign(saved))
	}
}
