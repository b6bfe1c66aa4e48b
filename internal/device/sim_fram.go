package device

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/joalopez1206/suchai/internal/interfaces"
)

// SimFram emulates a byte-addressable FRAM with an in-process array. Unlike
// flash there is no erase cycle. A factory-fresh part reads back as 0xFF,
// which the flight plan TLB decodes as the empty table.
type SimFram struct {
	mem    []byte
	serial string
}

// NewSimFram allocates an FRAM of the given size in the factory-fresh state.
func NewSimFram(size uint32) (*SimFram, error) {
	if size == 0 {
		return nil, fmt.Errorf("sim fram: invalid size 0")
	}
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = 0xFF
	}
	return &SimFram{mem: mem, serial: uuid.NewString()}, nil
}

func (d *SimFram) bounds(addr uint32, n int) error {
	if int(addr)+n > len(d.mem) {
		return fmt.Errorf("sim fram: access [%d, %d) beyond end of device (%d bytes)",
			addr, int(addr)+n, len(d.mem))
	}
	return nil
}

// ReadFram fills buf starting at addr.
func (d *SimFram) ReadFram(addr uint32, buf []byte) error {
	if err := d.bounds(addr, len(buf)); err != nil {
		return err
	}
	copy(buf, d.mem[addr:])
	return nil
}

// WriteFram stores buf starting at addr.
func (d *SimFram) WriteFram(addr uint32, buf []byte) error {
	if err := d.bounds(addr, len(buf)); err != nil {
		return err
	}
	copy(d.mem[addr:], buf)
	return nil
}

// FramSize returns the capacity in bytes.
func (d *SimFram) FramSize() uint32 {
	return uint32(len(d.mem))
}

// Info describes the simulated device.
func (d *SimFram) Info() interfaces.DeviceInfo {
	return interfaces.DeviceInfo{Type: "sim-fram", Serial: d.serial}
}
