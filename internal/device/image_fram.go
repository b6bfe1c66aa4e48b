package device

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/joalopez1206/suchai/internal/interfaces"
)

// ImageFram is an FRAM emulation backed by an image file. Fresh images read
// back as 0xFF, like a factory-new part.
type ImageFram struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	size   uint32
	serial string
}

// OpenImageFram opens or creates an FRAM image at path.
func OpenImageFram(path string, size uint32) (*ImageFram, error) {
	if size == 0 {
		return nil, fmt.Errorf("image fram: invalid size 0")
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("image fram: cannot open %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("image fram: cannot stat %s: %w", path, err)
	}
	switch info.Size() {
	case int64(size):
	case 0:
		// Fresh image: write the factory state, all 0xFF.
		blank := make([]byte, size)
		for i := range blank {
			blank[i] = 0xFF
		}
		if _, err := file.WriteAt(blank, 0); err != nil {
			file.Close()
			return nil, fmt.Errorf("image fram: cannot blank %s: %w", path, err)
		}
	default:
		file.Close()
		return nil, fmt.Errorf("image fram: %s is %d bytes, expected %d", path, info.Size(), size)
	}
	return &ImageFram{file: file, path: path, size: size, serial: uuid.NewString()}, nil
}

func (d *ImageFram) bounds(addr uint32, n int) error {
	if addr+uint32(n) > d.size {
		return fmt.Errorf("image fram: access [%d, %d) beyond end of device (%d bytes)",
			addr, int(addr)+n, d.size)
	}
	return nil
}

// ReadFram fills buf starting at addr.
func (d *ImageFram) ReadFram(addr uint32, buf []byte) error {
	if err := d.bounds(addr, len(buf)); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.file.ReadAt(buf, int64(addr)); err != nil {
		return fmt.Errorf("image fram: read at %d failed: %w", addr, err)
	}
	return nil
}

// WriteFram stores buf starting at addr.
func (d *ImageFram) WriteFram(addr uint32, buf []byte) error {
	if err := d.bounds(addr, len(buf)); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.file.WriteAt(buf, int64(addr)); err != nil {
		return fmt.Errorf("image fram: write at %d failed: %w", addr, err)
	}
	return nil
}

// FramSize returns the capacity in bytes.
func (d *ImageFram) FramSize() uint32 {
	return d.size
}

// Close flushes and closes the image file.
func (d *ImageFram) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.file.Sync(); err != nil {
		d.file.Close()
		return fmt.Errorf("image fram: cannot sync %s: %w", d.path, err)
	}
	return d.file.Close()
}

// Info describes the device.
func (d *ImageFram) Info() interfaces.DeviceInfo {
	return interfaces.DeviceInfo{Path: d.path, Type: "image-fram", Serial: d.serial}
}
