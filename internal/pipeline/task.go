package pipeline

import (
	"time"

	"github.com/trungnx2605/webimage/internal/config"
	"github.com/trungnx2605/webimage/internal/naming"
)

// Task is one unit of conversion work: a source file resized to one size
// spec and encoded in one output format.
type Task struct {
	Source string
	Size   config.SizeSpec
	Format config.Format
	Output string // Resolved output path (collision-free).
}

// TaskResult carries the outcome of one task: the written byte count on
// success, or the failure in Err. Failures are data, not aborts.
type TaskResult struct {
	Task
	Bytes    int64
	Duration time.Duration
	Err      error
}

// BuildTasks expands one source file into its size × format task list,
// claiming each output path through the collision resolver.
func BuildTasks(cfg *config.Config, source string, resolver *naming.CollisionResolver) []Task {
	tasks := make([]Task, 0, len(cfg.Sizes)*len(cfg.Formats))
	for _, size := range cfg.Sizes {
		for _, format := range cfg.Formats {
			out := naming.OutputPath(cfg.OutputDir, source, size.Suffix, format)
			tasks = append(tasks, Task{
				Source: source,
				Size:   size,
				Format: format,
				Output: resolver.Resolve(source, out),
			})
		}
	}
	return tasks
}
