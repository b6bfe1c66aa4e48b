package device

import (
	"github.com/joalopez1206/suchai/internal/interfaces"
	"github.com/joalopez1206/suchai/internal/metrics"
)

// InstrumentedFlash wraps a FlashDevice and counts every operation.
type InstrumentedFlash struct {
	interfaces.FlashDevice
	m *metrics.Media
}

// InstrumentFlash attaches media counters to a flash device.
func InstrumentFlash(d interfaces.FlashDevice, m *metrics.Media) *InstrumentedFlash {
	return &InstrumentedFlash{FlashDevice: d, m: m}
}

func (d *InstrumentedFlash) ReadFlash(partition uint8, addr uint32, buf []byte) error {
	d.m.FlashReads.Inc()
	return d.FlashDevice.ReadFlash(partition, addr, buf)
}

func (d *InstrumentedFlash) WriteFlash(partition uint8, addr uint32, buf []byte) error {
	d.m.FlashWrites.Inc()
	return d.FlashDevice.WriteFlash(partition, addr, buf)
}

func (d *InstrumentedFlash) EraseFlashSection(partition uint8, addr uint32) error {
	d.m.FlashErases.Inc()
	return d.FlashDevice.EraseFlashSection(partition, addr)
}

// InstrumentedFram wraps a FramDevice and counts every operation.
type InstrumentedFram struct {
	interfaces.FramDevice
	m *metrics.Media
}

// InstrumentFram attaches media counters to an FRAM device.
func InstrumentFram(d interfaces.FramDevice, m *metrics.Media) *InstrumentedFram {
	return &InstrumentedFram{FramDevice: d, m: m}
}

func (d *InstrumentedFram) ReadFram(addr uint32, buf []byte) error {
	d.m.FramReads.Inc()
	return d.FramDevice.ReadFram(addr, buf)
}

func (d *InstrumentedFram) WriteFram(addr uint32, buf []byte) error {
	d.m.FramWrites.Inc()
	return d.FramDevice.WriteFram(addr, buf)
}
