package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Media counts low-level media operations. Counters live in an owned
// registry so several stores can coexist in one process (tests, simulators).
type Media struct {
	registry *prometheus.Registry

	FlashReads  prometheus.Counter
	FlashWrites prometheus.Counter
	FlashErases prometheus.Counter
	FramReads   prometheus.Counter
	FramWrites  prometheus.Counter
}

// NewMedia creates and registers the media operation counters.
func NewMedia() *Media {
	m := &Media{
		registry: prometheus.NewRegistry(),
		FlashReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "suchai",
			Subsystem: "media",
			Name:      "flash_reads_total",
			Help:      "Flash read operations.",
		}),
		FlashWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "suchai",
			Subsystem: "media",
			Name:      "flash_writes_total",
			Help:      "Flash page program operations.",
		}),
		FlashErases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "suchai",
			Subsystem: "media",
			Name:      "flash_erases_total",
			Help:      "Flash section erase operations.",
		}),
		FramReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "suchai",
			Subsystem: "media",
			Name:      "fram_reads_total",
			Help:      "FRAM read operations.",
		}),
		FramWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "suchai",
			Subsystem: "media",
			Name:      "fram_writes_total",
			Help:      "FRAM write operations.",
		}),
	}
	m.registry.MustRegister(m.FlashReads, m.FlashWrites, m.FlashErases, m.FramReads, m.FramWrites)
	return m
}

// WriteTo dumps the counters in the prometheus text format.
func (m *Media) WriteTo(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
