package pipeline

import (
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/trungnx2605/webimage/internal/config"
	"github.com/trungnx2605/webimage/internal/logging"
	"github.com/trungnx2605/webimage/internal/naming"
)

// --- Helpers ---

func writeJPEG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 251)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8((i * 7) % 256)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("placeholder"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func newTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

// testConfig keeps pipeline tests fast: two sizes, JPEG + WebP only.
func testConfig(inputDir, outputDir string) config.Config {
	cfg := config.DefaultConfig()
	cfg.InputDir = inputDir
	cfg.OutputDir = outputDir
	cfg.Formats = []config.Format{config.FormatJPEG, config.FormatWebP}
	cfg.ColorMode = config.ColorNever
	return cfg
}

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "photo.jpg")
	touch(t, dir, "scan.jpeg")
	touch(t, dir, "icon.png")
	touch(t, dir, "anim.webp")
	touch(t, dir, "notes.txt")
	touch(t, dir, "movie.mp4")
	touch(t, dir, "vector.svg")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 4 {
		t.Errorf("got %d files, want 4: %v", len(files), files)
	}
}

func TestDiscover_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "PHOTO.JPG")
	touch(t, dir, "Icon.Png")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2 (case-insensitive ext matching)", len(files))
	}
}

func TestDiscover_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "top.jpg")
	os.MkdirAll(filepath.Join(dir, "nested"), 0o755)
	touch(t, filepath.Join(dir, "nested"), "deep.jpg")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %d files, want 1 (listing is non-recursive)", len(files))
	}
}

func TestDiscover_SortedAndEmpty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.jpg")
	touch(t, dir, "a.jpg")
	touch(t, dir, "c.png")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	for i := 1; i < len(files); i++ {
		if files[i] < files[i-1] {
			t.Errorf("not sorted: %q before %q", files[i-1], files[i])
		}
	}

	empty := t.TempDir()
	files, err = Discover(empty)
	if err != nil {
		t.Fatalf("Discover empty: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files from empty dir, want 0", len(files))
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "gone")); err == nil {
		t.Error("Discover should fail on a missing directory")
	}
}

// --- Task tests ---

func TestBuildTasks_Matrix(t *testing.T) {
	cfg := testConfig("/in", "/out")
	tasks := BuildTasks(&cfg, "/in/cat.png", naming.NewCollisionResolver())

	if len(tasks) != 4 {
		t.Fatalf("got %d tasks, want 4 (2 sizes x 2 formats)", len(tasks))
	}

	wantOutputs := map[string]bool{
		filepath.Join("/out", "cat.jpg"):     true,
		filepath.Join("/out", "cat.webp"):    true,
		filepath.Join("/out", "cat@2x.jpg"):  true,
		filepath.Join("/out", "cat@2x.webp"): true,
	}
	for _, task := range tasks {
		if !wantOutputs[task.Output] {
			t.Errorf("unexpected output path %q", task.Output)
		}
		delete(wantOutputs, task.Output)
	}
	if len(wantOutputs) != 0 {
		t.Errorf("missing outputs: %v", wantOutputs)
	}
}

func TestBuildTasks_CollisionAcrossSources(t *testing.T) {
	cfg := testConfig("/in", "/out")
	resolver := naming.NewCollisionResolver()

	first := BuildTasks(&cfg, "/in/cat.png", resolver)
	second := BuildTasks(&cfg, "/in/cat.jpg", resolver)

	seen := make(map[string]bool)
	for _, task := range append(first, second...) {
		if seen[task.Output] {
			t.Errorf("output path %q claimed twice", task.Output)
		}
		seen[task.Output] = true
	}
}

// --- RunStats tests ---

func TestRunStats_SpaceSaved(t *testing.T) {
	s := RunStats{TotalInputBytes: 1000, TotalOutputBytes: 600}
	if got := s.SpaceSaved(); got != 400 {
		t.Errorf("SpaceSaved: got %d, want 400", got)
	}

	s2 := RunStats{TotalInputBytes: 100, TotalOutputBytes: 150}
	if got := s2.SpaceSaved(); got != -50 {
		t.Errorf("SpaceSaved (negative): got %d, want -50", got)
	}
}

// --- Batch integration tests ---

func TestRun_GeneratesFullMatrix(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeJPEG(t, inputDir, "alpha.jpg", 320, 200)
	writeJPEG(t, inputDir, "beta.jpg", 100, 300)
	writePNG(t, inputDir, "gamma.png", 256, 256)
	touch(t, inputDir, "notes.txt") // ignored silently

	cfg := testConfig(inputDir, outputDir)
	stats := Run(context.Background(), &cfg, newTestLogger(t))

	if stats.FilesFound != 3 {
		t.Errorf("FilesFound = %d, want 3", stats.FilesFound)
	}
	if stats.Generated != 12 {
		t.Errorf("Generated = %d, want 12 (3 files x 2 sizes x 2 formats)", stats.Generated)
	}
	if stats.Failed != 0 {
		t.Errorf("Failed = %d, want 0", stats.Failed)
	}

	// Every thumbnail exists with the exact <basename><suffix>.<ext> name
	// and the exact configured dimensions, regardless of source aspect.
	checks := []struct {
		name string
		w, h int
	}{
		{"alpha.jpg", 80, 80},
		{"alpha.webp", 80, 80},
		{"alpha@2x.jpg", 160, 160},
		{"alpha@2x.webp", 160, 160},
		{"beta@2x.jpg", 160, 160},
		{"gamma.webp", 80, 80},
		{"gamma@2x.jpg", 160, 160},
	}
	for _, c := range checks {
		path := filepath.Join(outputDir, c.name)
		f, err := os.Open(path)
		if err != nil {
			t.Errorf("missing thumbnail %s: %v", c.name, err)
			continue
		}
		imgCfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Errorf("decode %s: %v", c.name, err)
			continue
		}
		if imgCfg.Width != c.w || imgCfg.Height != c.h {
			t.Errorf("%s: %dx%d, want %dx%d", c.name, imgCfg.Width, imgCfg.Height, c.w, c.h)
		}
	}

	if stats.TotalInputBytes <= 0 || stats.TotalOutputBytes <= 0 {
		t.Errorf("byte totals not collected: in=%d out=%d",
			stats.TotalInputBytes, stats.TotalOutputBytes)
	}
}

// A corrupt source must cost only its own tasks; every other file still
// gets its full thumbnail set.
func TestRun_CorruptSourceDoesNotAbort(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeJPEG(t, inputDir, "good.jpg", 200, 200)
	touch(t, inputDir, "corrupt.jpg") // image extension, text content

	cfg := testConfig(inputDir, outputDir)
	stats := Run(context.Background(), &cfg, newTestLogger(t))

	if stats.Generated != 4 {
		t.Errorf("Generated = %d, want 4 (good file only)", stats.Generated)
	}
	if stats.Failed != 4 {
		t.Errorf("Failed = %d, want 4 (corrupt file's task matrix)", stats.Failed)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "good@2x.webp")); err != nil {
		t.Errorf("good file's thumbnails missing: %v", err)
	}
}

func TestRun_EmptyInputDir(t *testing.T) {
	cfg := testConfig(t.TempDir(), t.TempDir())
	stats := Run(context.Background(), &cfg, newTestLogger(t))

	if stats.FilesFound != 0 || stats.Generated != 0 || stats.Failed != 0 {
		t.Errorf("empty input produced stats %+v", stats)
	}
	// The zero-input size report must not divide by zero.
	if stats.TotalInputBytes != 0 {
		t.Errorf("TotalInputBytes = %d, want 0", stats.TotalInputBytes)
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeJPEG(t, inputDir, "alpha.jpg", 100, 100)

	cfg := testConfig(inputDir, outputDir)
	cfg.DryRun = true
	stats := Run(context.Background(), &cfg, newTestLogger(t))

	if stats.Generated != 4 {
		t.Errorf("Generated = %d, want 4 (dry-run counts planned writes)", stats.Generated)
	}
	entries, _ := os.ReadDir(outputDir)
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d files", len(entries))
	}
}

func TestRun_SkipExisting(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeJPEG(t, inputDir, "alpha.jpg", 100, 100)

	cfg := testConfig(inputDir, outputDir)
	log := newTestLogger(t)

	first := Run(context.Background(), &cfg, log)
	if first.Generated != 4 {
		t.Fatalf("first run Generated = %d, want 4", first.Generated)
	}

	cfg.SkipExisting = true
	second := Run(context.Background(), &cfg, log)
	if second.Generated != 0 || second.Skipped != 4 {
		t.Errorf("second run Generated/Skipped = %d/%d, want 0/4",
			second.Generated, second.Skipped)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	writeJPEG(t, inputDir, "alpha.jpg", 100, 100)
	writeJPEG(t, inputDir, "beta.jpg", 100, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(inputDir, outputDir)
	stats := Run(ctx, &cfg, newTestLogger(t))

	if stats.Generated != 0 {
		t.Errorf("cancelled run generated %d thumbnails", stats.Generated)
	}
}
