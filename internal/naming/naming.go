// Package naming builds thumbnail output names and resolves collisions
// between sources that share a basename (e.g. photo.jpg and photo.png).
package naming

import (
	"path/filepath"
	"strings"

	"github.com/trungnx2605/webimage/internal/config"
)

// OutputName returns the thumbnail filename for a source file:
// <basename><suffix>.<ext>, e.g. "cat@2x.webp" for cat.png at the
// @2x size in WebP.
func OutputName(sourceName, suffix string, f config.Format) string {
	stem := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
	return stem + suffix + "." + f.Ext()
}

// OutputPath joins the output directory with the thumbnail name for source.
func OutputPath(outputDir, sourcePath, suffix string, f config.Format) string {
	return filepath.Join(outputDir, OutputName(filepath.Base(sourcePath), suffix, f))
}
