// Package stabilize smooths per-object tilt measurements across frames.
// Objects are keyed by a coarse positional identity rather than a true
// tracking ID: good enough to reuse history while the object stays roughly
// in place, and cheap enough to run every frame.
package stabilize

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultWindow is the per-identity history length.
	DefaultWindow = 10

	// DefaultBucketSize quantizes bounding-box origins into identity
	// buckets, in pixels.
	DefaultBucketSize = 50.0

	// maxIdentities triggers housekeeping; survivorCount is how many
	// identities outlive it. Length of history stands in for "persistently
	// observed": transient false positives never accumulate one.
	maxIdentities = 50
	survivorCount = 20
)

// Identity is a coarse position bucket derived from a bounding-box origin.
// The same physical object lands in the same bucket across consecutive
// frames as long as it moves less than the bucket size.
type Identity struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Bucket quantizes a bounding-box origin into an Identity using the default
// bucket size.
func Bucket(x, y float64) Identity {
	return BucketSized(x, y, DefaultBucketSize)
}

// BucketSized quantizes with an explicit bucket size.
func BucketSized(x, y, size float64) Identity {
	return Identity{
		Col: int(math.Round(x / size)),
		Row: int(math.Round(y / size)),
	}
}

// Stabilizer keeps a bounded tilt history per identity and answers with a
// recency-weighted average.
type Stabilizer struct {
	mu        sync.Mutex
	window    int
	histories map[Identity][]float64
}

// NewStabilizer creates a stabilizer with the default window.
func NewStabilizer() *Stabilizer {
	return &Stabilizer{
		window:    DefaultWindow,
		histories: make(map[Identity][]float64),
	}
}

// Stabilize records a compensated tilt for the identity and returns the
// recency-weighted average of its history. The i-th of N entries
// (oldest-first) weighs (i+1)/N, so recent measurements dominate but the
// whole window contributes.
func (s *Stabilizer) Stabilize(id Identity, tilt float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.histories[id], tilt)
	if len(history) > s.window {
		history = history[len(history)-s.window:]
	}
	s.histories[id] = history

	if len(s.histories) > maxIdentities {
		s.evict()
	}

	n := len(history)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = float64(i+1) / float64(n)
	}
	return stat.Mean(history, weights)
}

// Tracked returns how many identities currently hold history.
func (s *Stabilizer) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories)
}

// Reset drops all history.
func (s *Stabilizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories = make(map[Identity][]float64)
}

// SetLevel maps the stability dial (1-10) onto the window size, 20 samples
// down to 3. Level 1 is maximum stability, 10 maximum responsiveness.
// Independent of the orientation smoother's own dial.
func (s *Stabilizer) SetLevel(level int) {
	if level < 1 {
		level = 1
	}
	if level > 10 {
		level = 10
	}
	t := float64(level-1) / 9.0

	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = int(math.Round(20 - t*17))
	for id, history := range s.histories {
		if len(history) > s.window {
			s.histories[id] = history[len(history)-s.window:]
		}
	}
}

// evict keeps only the identities with the longest histories. Ties break
// deterministically by bucket coordinates so eviction is reproducible.
// Caller holds the lock.
func (s *Stabilizer) evict() {
	type entry struct {
		id  Identity
		len int
	}
	entries := make([]entry, 0, len(s.histories))
	for id, history := range s.histories {
		entries = append(entries, entry{id: id, len: len(history)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].len != entries[j].len {
			return entries[i].len > entries[j].len
		}
		if entries[i].id.Col != entries[j].id.Col {
			return entries[i].id.Col < entries[j].id.Col
		}
		return entries[i].id.Row < entries[j].id.Row
	})

	kept := make(map[Identity][]float64, survivorCount)
	for _, e := range entries[:survivorCount] {
		kept[e.id] = s.histories[e.id]
	}
	s.histories = kept
}
