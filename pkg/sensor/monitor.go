// Package sensor receives device-orientation samples from an external
// source (typically a browser streaming deviceorientation events over the
// dashboard websocket) and tracks whether the stream is alive.
package sensor

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/framewright/go-leveler/pkg/orientation"
)

// DefaultStaleAfter is how long the stream may go quiet before it stops
// counting as active.
const DefaultStaleAfter = 2 * time.Second

// Sample is the wire form of one orientation event. Pointer fields so a
// missing axis is distinguishable from a zero reading.
type Sample struct {
	Pitch *float64 `json:"pitch"`
	Roll  *float64 `json:"roll"`
}

// Monitor forwards valid samples to a sink and answers the two capability
// questions the pipeline asks: has a source ever connected, and is it
// currently delivering.
type Monitor struct {
	mu         sync.RWMutex
	sink       func(*orientation.Sample)
	staleAfter time.Duration
	supported  bool
	lastSample time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewMonitor creates a monitor forwarding valid samples to sink.
func NewMonitor(sink func(*orientation.Sample)) *Monitor {
	return &Monitor{
		sink:       sink,
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
	}
}

// SourceConnected marks that a sensor source has attached. Supported stays
// true for the rest of the session even if the source later disconnects.
func (m *Monitor) SourceConnected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supported = true
}

// Ingest validates and forwards one sample. Samples with missing axes are
// dropped silently; a malformed sensor event must never fault the pipeline.
func (m *Monitor) Ingest(s *Sample) {
	if s == nil || s.Pitch == nil || s.Roll == nil {
		return
	}

	m.mu.Lock()
	m.supported = true
	m.lastSample = m.now()
	sink := m.sink
	m.mu.Unlock()

	if sink != nil {
		sink(&orientation.Sample{Pitch: *s.Pitch, Roll: *s.Roll})
	}
}

// IngestJSON decodes and ingests one wire message. Undecodable payloads are
// dropped silently.
func (m *Monitor) IngestJSON(data []byte) {
	var s Sample
	if err := json.Unmarshal(data, &s); err != nil {
		return
	}
	m.Ingest(&s)
}

// Supported reports whether any sensor source has ever connected.
func (m *Monitor) Supported() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.supported
}

// ActiveAndReady reports whether a sample arrived within the staleness
// window.
func (m *Monitor) ActiveAndReady() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.lastSample.IsZero() && m.now().Sub(m.lastSample) < m.staleAfter
}
