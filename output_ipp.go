package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	errBitmapConversion = errors.New("bitmap conversion failed")
	errIPPSubmit        = errors.New("IPP print failed")
)

// commandRunner runs an external program and returns its captured stderr.
type commandRunner func(ctx context.Context, name string, args ...string) (stderr string, err error)

func execCommand(ctx context.Context, name string, args ...string) (string, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// IPPOutputHandler converts a saved bitmap to a printer BMP with ImageMagick
// and submits it with ipptool.
type IPPOutputHandler struct {
	printerURI string
	widthPx    int
	timeout    time.Duration
	run        commandRunner
}

func NewIPPOutputHandler(config *ServiceConfig) *IPPOutputHandler {
	return &IPPOutputHandler{
		printerURI: config.PrinterURI(),
		widthPx:    config.GetPrintWidth(),
		timeout:    config.GetCommandTimeout(),
		run:        execCommand,
	}
}

func (h *IPPOutputHandler) GetType() string {
	return "ipp"
}

func (h *IPPOutputHandler) PrinterURI() string {
	return h.printerURI
}

func (h *IPPOutputHandler) Output(ctx context.Context, job *PrintJob) error {
	if job.ImagePath == "" {
		return errors.Errorf("job %s has not been saved", job.Name)
	}
	bmpPath := strings.TrimSuffix(job.ImagePath, filepath.Ext(job.ImagePath)) + ".printer.bmp"
	if err := h.ConvertToPrinterBMP(ctx, job.ImagePath, bmpPath); err != nil {
		return err
	}
	return h.SendBMP(ctx, bmpPath)
}

// ConvertToPrinterBMP resizes to the print width, forces 1-bit depth and flips
// rows for the printer's reverse-encoding BMP.
func (h *IPPOutputHandler) ConvertToPrinterBMP(ctx context.Context, inputPath, bmpPath string) error {
	args := []string{
		inputPath,
		"-resize", fmt.Sprintf("%dx", h.widthPx),
		"-monochrome",
		"-depth", "1",
		"-flip",
		"BMP3:" + bmpPath,
	}
	return h.runStep(ctx, errBitmapConversion, "convert", args...)
}

func (h *IPPOutputHandler) SendBMP(ctx context.Context, bmpPath string) error {
	args := []string{
		"-tv",
		"-f", bmpPath,
		h.printerURI,
		"-d", "fileType=image/reverse-encoding-bmp",
		"print-job.test",
	}
	return h.runStep(ctx, errIPPSubmit, "ipptool", args...)
}

func (h *IPPOutputHandler) runStep(ctx context.Context, kind error, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	stderr, err := h.run(ctx, name, args...)
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return errors.Wrapf(kind, "%s: %s", name, msg)
	}
	logDebugModule("ipp", "%s done in %v", name, time.Since(start))
	return nil
}

func (h *IPPOutputHandler) Close() error {
	return nil
}
