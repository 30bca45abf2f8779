package raster

import (
	"fmt"
	"image/png"
	"io"
	"os"
)

// WritePNG encodes the buffer to w.
func WritePNG(w io.Writer, b *Buffer) error {
	if err := png.Encode(w, b.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the buffer to path, replacing any existing file.
func SavePNG(path string, b *Buffer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WritePNG(f, b)
}
