package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// FileOutputHandler persists canvases as lossless bitmaps in a directory.
type FileOutputHandler struct {
	dir    string
	format string
}

func NewFileOutputHandler(dir, format string) *FileOutputHandler {
	if format == "" {
		format = FormatPNG
	}
	return &FileOutputHandler{
		dir:    dir,
		format: strings.ToLower(format),
	}
}

func (f *FileOutputHandler) GetType() string {
	return "file"
}

// Output writes the job's image to <dir>/<name>.<format> and records the path
// on the job.
func (f *FileOutputHandler) Output(_ context.Context, job *PrintJob) error {
	if job.Image == nil {
		return fmt.Errorf("job %s has no image", job.Name)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image dir: %v", err)
	}

	path := filepath.Join(f.dir, job.Name+"."+f.format)
	if err := SaveImage(path, job.Image); err != nil {
		return err
	}
	job.ImagePath = path
	return nil
}

func (f *FileOutputHandler) Close() error {
	return nil
}

// SaveImage picks the encoder from the file extension; anything but .bmp is
// written as PNG.
func SaveImage(path string, img *Monochrome) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer file.Close()

	format := FormatPNG
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		format = FormatBMP
	}
	if err := EncodeImage(file, img, format); err != nil {
		return fmt.Errorf("failed to encode %s: %v", path, err)
	}
	return nil
}

func EncodeImage(w io.Writer, img *Monochrome, format string) error {
	switch format {
	case FormatBMP:
		return bmp.Encode(w, img.Paletted())
	case FormatPNG:
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		return encoder.Encode(w, img.Paletted())
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}
