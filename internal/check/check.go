// Package check provides encoder diagnostics (--check mode): each supported
// output format is exercised with an in-memory round trip so codec problems
// surface before a long batch, not in the middle of one.
package check

import (
	"bytes"
	"image"
	"image/color"

	"github.com/trungnx2605/webimage/internal/codec"
	"github.com/trungnx2605/webimage/internal/config"
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck encodes a synthetic test image in every configured format and
// decodes the result back where a decoder is available. It is informational
// only and reports overall health; it does not stop on the first failure.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Encoder Check ===")

	src := testImage(64, 64)
	ok := true

	for _, f := range cfg.Formats {
		if !checkFormat(cfg, log, f, src) {
			ok = false
		}
	}
	return ok
}

// checkFormat runs one encode (and decode, when possible) round trip.
func checkFormat(cfg *config.Config, log Logger, f config.Format, src image.Image) bool {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, src, f, cfg.QualityFor(f), cfg.EffortFor(f)); err != nil {
		log.Error("%s: encode failed: %v", f, err)
		return false
	}

	decoded, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		// AVIF has no registered decoder in some builds; an encode that
		// produced bytes still counts as working.
		log.Warn("%s: encoded %d bytes (decode unavailable: %v)", f, buf.Len(), err)
		return true
	}

	b := decoded.Bounds()
	if b.Dx() != 64 || b.Dy() != 64 {
		log.Error("%s: round trip returned %dx%d, want 64x64", f, b.Dx(), b.Dy())
		return false
	}
	log.Success("%s: ok (%d bytes)", f, buf.Len())
	return true
}

// testImage returns a small diagonal gradient, enough signal for every
// encoder to produce a non-trivial payload.
func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 255 / (w + h)),
				A: 255,
			})
		}
	}
	return img
}
