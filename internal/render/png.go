package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	appLog "sleepviz/internal/log"
)

// WritePNGFile encodes img to path. The parent directory is created if
// needed, and the file lands via temp + rename so a crashed run never leaves
// a truncated image behind.
func WritePNGFile(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".sleepviz-*.png")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("render: encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	appLog.Info("saved heatmap", "path", path,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}
