package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/openclaw/qrgen/qr"
)

// Save writes img to path in the format named by the path's extension.
// Missing parent directories are created.
func Save(path string, img *qr.Image) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return SaveAs(path, img, f)
}

// SaveAs writes img to path in format f regardless of the extension.
func SaveAs(path string, img *qr.Image, f Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Encode(file, img, f); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
