package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"
)

const (
	// Common VID/PID of 58/80mm USB receipt printers.
	escposDefaultVID      = 0x0416
	escposDefaultPID      = 0x5011
	escposDefaultEndpoint = 0x01

	escposBandRows  = 256
	escposFeedLines = 4
)

var (
	escposInit = []byte{0x1b, 0x40}             // ESC @
	escposCut  = []byte{0x1d, 0x56, 0x42, 0x00} // GS V 66 0: feed and partial cut
)

// EncodeESCPOSRaster turns a canvas into an ESC/POS job: init, GS v 0 raster
// bands, feed and cut. Raster bits are 1 for black, the inverse of Monochrome.
func EncodeESCPOSRaster(img *Monochrome) []byte {
	width := img.Rect.Dx()
	height := img.Rect.Dy()
	rowBytes := img.Stride

	// trailing bits of the last byte in a row must stay unprinted
	var lastMask uint8 = 0xff
	if rem := width % 8; rem != 0 {
		lastMask = uint8(0xff << uint(8-rem))
	}

	out := make([]byte, 0, len(escposInit)+height*rowBytes+(height/escposBandRows+1)*8+16)
	out = append(out, escposInit...)

	for top := 0; top < height; top += escposBandRows {
		rows := escposBandRows
		if top+rows > height {
			rows = height - top
		}
		out = append(out,
			0x1d, 0x76, 0x30, 0x00, // GS v 0, normal density
			byte(rowBytes), byte(rowBytes>>8),
			byte(rows), byte(rows>>8),
		)
		for y := top; y < top+rows; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
			for i, b := range row {
				b = ^b
				if i == rowBytes-1 {
					b &= lastMask
				}
				out = append(out, b)
			}
		}
	}

	out = append(out, 0x1b, 0x64, escposFeedLines) // ESC d n
	out = append(out, escposCut...)
	return out
}

type ESCPOSUSB struct {
	ctx     *gousb.Context
	device  *gousb.Device
	intf    *gousb.Interface
	done    func()
	outEndp *gousb.OutEndpoint
}

func NewESCPOSUSB(cfg USBConfig) (*ESCPOSUSB, error) {
	p := new(ESCPOSUSB)

	p.ctx = gousb.NewContext()
	if p.ctx == nil {
		return nil, fmt.Errorf("failed to create USB context")
	}

	device, err := p.ctx.OpenDeviceWithVIDPID(gousb.ID(cfg.VendorID), gousb.ID(cfg.ProductID))
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to open device: %v", err)
	}
	if device == nil {
		p.Close()
		return nil, fmt.Errorf("printer %04x:%04x not found", cfg.VendorID, cfg.ProductID)
	}
	p.device = device

	if err := device.SetAutoDetach(true); err != nil {
		logWarnModule("usb", "Auto detach unavailable: %v", err)
	}

	intf, done, err := device.DefaultInterface()
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to claim interface: %v", err)
	}
	p.intf = intf
	p.done = done

	outEndp, err := intf.OutEndpoint(cfg.Endpoint)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to get out endpoint: %v", err)
	}
	p.outEndp = outEndp

	return p, nil
}

func (p *ESCPOSUSB) Write(data []byte) error {
	for len(data) > 0 {
		n, err := p.outEndp.Write(data)
		if err != nil {
			return fmt.Errorf("data write failed: %v", err)
		}
		data = data[n:]
	}
	return nil
}

func (p *ESCPOSUSB) Close() {
	if p.done != nil {
		p.done()
		p.done = nil
		p.intf = nil
	}
	if p.device != nil {
		p.device.Close()
		p.device = nil
	}
	if p.ctx != nil {
		p.ctx.Close()
		p.ctx = nil
	}
}

// ESCPOSUSBOutputHandler prints straight to a USB receipt printer. The device
// is opened lazily and dropped after a failed transfer.
type ESCPOSUSBOutputHandler struct {
	cfg       USBConfig
	device    *ESCPOSUSB
	mutex     sync.Mutex
	lastError time.Time
}

func NewESCPOSUSBOutputHandler(cfg USBConfig) *ESCPOSUSBOutputHandler {
	handler := &ESCPOSUSBOutputHandler{cfg: cfg}

	// Try to connect immediately but don't fail if device not available
	handler.mutex.Lock()
	handler.connectLocked()
	handler.mutex.Unlock()

	return handler
}

func (h *ESCPOSUSBOutputHandler) connectLocked() {
	if h.device != nil {
		return
	}

	device, err := NewESCPOSUSB(h.cfg)
	if err != nil {
		// Only log errors occasionally to avoid spam
		if time.Since(h.lastError) > 10*time.Second {
			logWarnModule("usb", "Printer not available: %v", err)
			h.lastError = time.Now()
		}
		return
	}

	h.device = device
	logInfoModule("usb", "Connected to %04x:%04x", h.cfg.VendorID, h.cfg.ProductID)
}

func (h *ESCPOSUSBOutputHandler) GetType() string {
	return "usb"
}

func (h *ESCPOSUSBOutputHandler) Output(ctx context.Context, job *PrintJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.connectLocked()
	if h.device == nil {
		return fmt.Errorf("printer not available")
	}

	if err := h.device.Write(EncodeESCPOSRaster(job.Image)); err != nil {
		logErrorModule("usb", "Transfer failed: %v", err)
		h.device.Close()
		h.device = nil
		return err
	}

	return nil
}

func (h *ESCPOSUSBOutputHandler) Close() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.device != nil {
		logInfoModule("usb", "Disconnecting")
		h.device.Close()
		h.device = nil
	}

	return nil
}
