package device

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/joalopez1206/suchai/internal/interfaces"
)

// SimFlash emulates a NOR flash partition pair with in-process byte arrays.
// Erase fills a whole section with 0xFF, matching real NOR behavior: a
// freshly erased flight plan TLB decodes as all -1 (empty).
type SimFlash struct {
	partitions  [][]byte
	sectionSize uint32
	serial      string
}

// NewSimFlash allocates partitions of sections * sectionSize bytes each, all
// in the erased state.
func NewSimFlash(partitions, sections int, sectionSize uint32) (*SimFlash, error) {
	if partitions <= 0 || sections <= 0 || sectionSize == 0 {
		return nil, fmt.Errorf("sim flash: invalid geometry (%d partitions, %d sections of %d bytes)",
			partitions, sections, sectionSize)
	}
	d := &SimFlash{
		partitions:  make([][]byte, partitions),
		sectionSize: sectionSize,
		serial:      uuid.NewString(),
	}
	for i := range d.partitions {
		p := make([]byte, sections*int(sectionSize))
		for j := range p {
			p[j] = 0xFF
		}
		d.partitions[i] = p
	}
	return d, nil
}

func (d *SimFlash) bounds(partition uint8, addr uint32, n int) ([]byte, error) {
	if int(partition) >= len(d.partitions) {
		return nil, fmt.Errorf("sim flash: no such partition %d", partition)
	}
	p := d.partitions[partition]
	if int(addr)+n > len(p) {
		return nil, fmt.Errorf("sim flash: access [%d, %d) beyond end of partition (%d bytes)",
			addr, int(addr)+n, len(p))
	}
	return p, nil
}

// ReadFlash fills buf starting at addr.
func (d *SimFlash) ReadFlash(partition uint8, addr uint32, buf []byte) error {
	p, err := d.bounds(partition, addr, len(buf))
	if err != nil {
		return err
	}
	copy(buf, p[addr:])
	return nil
}

// WriteFlash programs buf starting at addr.
func (d *SimFlash) WriteFlash(partition uint8, addr uint32, buf []byte) error {
	p, err := d.bounds(partition, addr, len(buf))
	if err != nil {
		return err
	}
	copy(p[addr:], buf)
	return nil
}

// EraseFlashSection fills the section containing addr with 0xFF.
func (d *SimFlash) EraseFlashSection(partition uint8, addr uint32) error {
	base := (addr / d.sectionSize) * d.sectionSize
	p, err := d.bounds(partition, base, int(d.sectionSize))
	if err != nil {
		return err
	}
	section := p[base : base+d.sectionSize]
	for i := range section {
		section[i] = 0xFF
	}
	return nil
}

// FlashSize returns the capacity of one partition in bytes.
func (d *SimFlash) FlashSize() uint32 {
	return uint32(len(d.partitions[0]))
}

// Info describes the simulated device.
func (d *SimFlash) Info() interfaces.DeviceInfo {
	return interfaces.DeviceInfo{Type: "sim-flash", Serial: d.serial}
}
