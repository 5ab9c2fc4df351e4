// Package probe extracts lightweight metadata from source images: byte size,
// pixel dimensions, and the sniffed content type. It reads only the image
// header (image.DecodeConfig), never the full pixel data, so probing a large
// directory stays cheap.
package probe

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Result holds the probed properties of a single source image.
type Result struct {
	Path   string
	Size   int64  // File size in bytes.
	Width  int    // Pixel width from the image header.
	Height int    // Pixel height from the image header.
	MIME   string // Sniffed content type, e.g. "image/jpeg".
	Format string // Decoder name reported by image.DecodeConfig.
}

// Resolution returns "WxH", or "unknown" when dimensions are missing.
func (r *Result) Resolution() string {
	if r.Width <= 0 || r.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Probe stats and sniffs the file at path and reads its image header.
// It returns an error when the content is not a decodable image, regardless
// of the file extension; the caller decides whether to skip or fail.
func Probe(path string) (*Result, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("sniff %s: %w", path, err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("not an image: %s (%s)", path, mt.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("read image header %s: %w", path, err)
	}

	return &Result{
		Path:   path,
		Size:   fi.Size(),
		Width:  cfg.Width,
		Height: cfg.Height,
		MIME:   mt.String(),
		Format: format,
	}, nil
}
