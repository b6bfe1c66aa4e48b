package device

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/joalopez1206/suchai/internal/interfaces"
)

// ImageFlash is a NOR flash emulation backed by an image file, so contents
// survive process restarts the way the real part survives resets. Partitions
// are laid out back to back inside the image.
type ImageFlash struct {
	mu            sync.Mutex
	file          *os.File
	path          string
	partitions    int
	partitionSize uint32
	sectionSize   uint32
	serial        string
}

// OpenImageFlash opens or creates a flash image at path. A newly created
// image is filled with 0xFF, the erased state.
func OpenImageFlash(path string, partitions, sections int, sectionSize uint32) (*ImageFlash, error) {
	if partitions <= 0 || sections <= 0 || sectionSize == 0 {
		return nil, fmt.Errorf("image flash: invalid geometry (%d partitions, %d sections of %d bytes)",
			partitions, sections, sectionSize)
	}
	partitionSize := uint32(sections) * sectionSize
	total := int64(partitions) * int64(partitionSize)

	file, err := os.OpenFile(path, os.O_RDWR, 0o600)
	fresh := false
	if os.IsNotExist(err) {
		file, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
		fresh = true
	}
	if err != nil {
		return nil, fmt.Errorf("image flash: cannot open %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("image flash: cannot stat %s: %w", path, err)
	}
	if info.Size() != total {
		if info.Size() != 0 {
			file.Close()
			return nil, fmt.Errorf("image flash: %s is %d bytes, geometry needs %d",
				path, info.Size(), total)
		}
		fresh = true
	}

	d := &ImageFlash{
		file:          file,
		path:          path,
		partitions:    partitions,
		partitionSize: partitionSize,
		sectionSize:   sectionSize,
		serial:        uuid.NewString(),
	}
	if fresh {
		if err := d.blank(); err != nil {
			file.Close()
			return nil, err
		}
	}
	return d, nil
}

// blank writes the erased state over the whole image, one section at a time.
func (d *ImageFlash) blank() error {
	section := make([]byte, d.sectionSize)
	for i := range section {
		section[i] = 0xFF
	}
	total := int64(d.partitions) * int64(d.partitionSize)
	for off := int64(0); off < total; off += int64(d.sectionSize) {
		if _, err := d.file.WriteAt(section, off); err != nil {
			return fmt.Errorf("image flash: cannot blank %s: %w", d.path, err)
		}
	}
	return nil
}

func (d *ImageFlash) offset(partition uint8, addr uint32, n int) (int64, error) {
	if int(partition) >= d.partitions {
		return 0, fmt.Errorf("image flash: no such partition %d", partition)
	}
	if addr+uint32(n) > d.partitionSize {
		return 0, fmt.Errorf("image flash: access [%d, %d) beyond end of partition (%d bytes)",
			addr, int(addr)+n, d.partitionSize)
	}
	return int64(partition)*int64(d.partitionSize) + int64(addr), nil
}

// ReadFlash fills buf starting at addr.
func (d *ImageFlash) ReadFlash(partition uint8, addr uint32, buf []byte) error {
	off, err := d.offset(partition, addr, len(buf))
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.file.ReadAt(buf, off); err != nil {
		return fmt.Errorf("image flash: read at %d failed: %w", addr, err)
	}
	return nil
}

// WriteFlash programs buf starting at addr.
func (d *ImageFlash) WriteFlash(partition uint8, addr uint32, buf []byte) error {
	off, err := d.offset(partition, addr, len(buf))
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.file.WriteAt(buf, off); err != nil {
		return fmt.Errorf("image flash: write at %d failed: %w", addr, err)
	}
	return nil
}

// EraseFlashSection fills the section containing addr with 0xFF.
func (d *ImageFlash) EraseFlashSection(partition uint8, addr uint32) error {
	base := (addr / d.sectionSize) * d.sectionSize
	off, err := d.offset(partition, base, int(d.sectionSize))
	if err != nil {
		return err
	}
	section := make([]byte, d.sectionSize)
	for i := range section {
		section[i] = 0xFF
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.file.WriteAt(section, off); err != nil {
		return fmt.Errorf("image flash: erase at %d failed: %w", base, err)
	}
	return nil
}

// FlashSize returns the capacity of one partition in bytes.
func (d *ImageFlash) FlashSize() uint32 {
	return d.partitionSize
}

// Close flushes and closes the image file.
func (d *ImageFlash) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.file.Sync(); err != nil {
		d.file.Close()
		return fmt.Errorf("image flash: cannot sync %s: %w", d.path, err)
	}
	return d.file.Close()
}

// Info describes the device.
func (d *ImageFlash) Info() interfaces.DeviceInfo {
	return interfaces.DeviceInfo{Path: d.path, Type: "image-flash", Serial: d.serial}
}
