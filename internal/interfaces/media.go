package interfaces

// FlashDevice provides section-erased, page-programmed NOR flash access.
// Addresses are flat byte offsets inside a partition. Callers own alignment:
// a write must not cross a page boundary (the hardware wraps inside the page
// instead of advancing) and erase operates on whole sections only.
type FlashDevice interface {
	// ReadFlash fills buf starting at addr.
	ReadFlash(partition uint8, addr uint32, buf []byte) error

	// WriteFlash programs buf starting at addr.
	WriteFlash(partition uint8, addr uint32, buf []byte) error

	// EraseFlashSection erases the whole section containing addr. On real
	// hardware this takes around 500 ms per section.
	EraseFlashSection(partition uint8, addr uint32) error

	// FlashSize returns the capacity of one partition in bytes.
	FlashSize() uint32
}

// FramDevice provides byte-granular ferroelectric RAM access. FRAM is small
// and fast; there is no erase cycle and no alignment requirement.
type FramDevice interface {
	// ReadFram fills buf starting at addr.
	ReadFram(addr uint32, buf []byte) error

	// WriteFram stores buf starting at addr.
	WriteFram(addr uint32, buf []byte) error

	// FramSize returns the capacity in bytes.
	FramSize() uint32
}

// DeviceInfo identifies a media device instance.
type DeviceInfo struct {
	// Path is the backing file for hosted devices, empty for in-memory ones.
	Path string

	// Type is the device kind, e.g. "sim-flash", "image-flash", "sim-fram".
	Type string

	// Serial is a per-instance identifier.
	Serial string
}

// MediaInfo is implemented by devices that can describe themselves.
type MediaInfo interface {
	Info() DeviceInfo
}
