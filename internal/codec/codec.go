// Package codec wraps the decode → cover-resize → encode capability behind
// a small surface so the pipeline and benchmark share one encoder path.
//
// Decoding accepts JPEG, PNG and WebP sources. Encoding supports JPEG and
// PNG via imaging, WebP and AVIF via the gen2brain wazero-based codecs.
// Given fixed quality and effort settings the encoders are deterministic,
// so re-running a batch overwrites thumbnails with byte-identical output.
package codec

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/gen2brain/webp"
	"github.com/trungnx2605/webimage/internal/config"

	// Registers the WebP decoder so imaging.Open accepts .webp sources.
	_ "golang.org/x/image/webp"
)

// Open decodes the image at path using the registered decoders.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Cover resizes src to exactly width x height using cover fit: the source is
// scaled to fill the target box and center-cropped, discarding overflow.
func Cover(src image.Image, width, height int) image.Image {
	return imaging.Fill(src, width, height, imaging.Center, imaging.Lanczos)
}

// Encode writes img to w in the given format. quality is 0-100; effort is
// 0-9 (0 = fastest, 9 = smallest output) and is ignored by JPEG and PNG.
func Encode(w io.Writer, img image.Image, f config.Format, quality, effort int) error {
	switch f {
	case config.FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case config.FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case config.FormatWebP:
		return webp.Encode(w, img, webp.Options{
			Quality: quality,
			Method:  webpMethod(effort),
		})
	case config.FormatAVIF:
		return avif.Encode(w, img, avif.Options{
			Quality:      quality,
			QualityAlpha: quality,
			Speed:        avifSpeed(effort),
		})
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// EncodeFile encodes img to a new file at path and returns the written byte
// count. A partial file is removed on encode failure.
func EncodeFile(path string, img image.Image, f config.Format, quality, effort int) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(out, img, f, quality, effort); err != nil {
		out.Close()
		os.Remove(path)
		return 0, fmt.Errorf("encode %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// webpMethod maps the 0-9 effort scale onto libwebp's 0-6 method range.
func webpMethod(effort int) int {
	if effort > 6 {
		return 6
	}
	if effort < 0 {
		return 0
	}
	return effort
}

// avifSpeed maps effort onto libavif's inverted 0-10 speed range
// (speed 0 is slowest/smallest).
func avifSpeed(effort int) int {
	speed := 10 - effort
	if speed < 0 {
		return 0
	}
	if speed > 10 {
		return 10
	}
	return speed
}
