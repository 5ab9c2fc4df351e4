package naming

import (
	"path/filepath"
	"testing"

	"github.com/trungnx2605/webimage/internal/config"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		name   string
		source string
		suffix string
		format config.Format
		want   string
	}{
		{"baseline jpeg", "cat.png", "", config.FormatJPEG, "cat.jpg"},
		{"retina webp", "cat.png", "@2x", config.FormatWebP, "cat@2x.webp"},
		{"avif from jpeg source", "photo.jpeg", "", config.FormatAVIF, "photo.avif"},
		{"retina avif", "photo.jpg", "@2x", config.FormatAVIF, "photo@2x.avif"},
		{"dotted basename", "my.holiday.jpg", "@2x", config.FormatJPEG, "my.holiday@2x.jpg"},
		{"webp source", "anim.webp", "", config.FormatWebP, "anim.webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutputName(tt.source, tt.suffix, tt.format)
			if got != tt.want {
				t.Errorf("OutputName(%q, %q, %s) = %q, want %q",
					tt.source, tt.suffix, tt.format, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("/thumbs", "/images/cat.png", "@2x", config.FormatWebP)
	want := filepath.Join("/thumbs", "cat@2x.webp")
	if got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestCollisionResolver_NoCollision(t *testing.T) {
	cr := NewCollisionResolver()

	got := cr.Resolve("/in/cat.png", "/out/cat.webp")
	if got != "/out/cat.webp" {
		t.Errorf("unclaimed path changed: %q", got)
	}

	// Same source re-claiming its path is stable.
	got = cr.Resolve("/in/cat.png", "/out/cat.webp")
	if got != "/out/cat.webp" {
		t.Errorf("re-claim by owner changed path: %q", got)
	}
}

func TestCollisionResolver_DupSuffixes(t *testing.T) {
	cr := NewCollisionResolver()

	first := cr.Resolve("/in/cat.png", "/out/cat.webp")
	second := cr.Resolve("/in/cat.jpg", "/out/cat.webp")
	third := cr.Resolve("/in/sub-cat.webp", "/out/cat.webp")

	if first != "/out/cat.webp" {
		t.Errorf("first claim = %q", first)
	}
	if second != filepath.Join("/out", "cat - dup1.webp") {
		t.Errorf("second claim = %q", second)
	}
	if third != filepath.Join("/out", "cat - dup2.webp") {
		t.Errorf("third claim = %q", third)
	}
}
