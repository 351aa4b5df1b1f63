package stabilize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucket_Deterministic(t *testing.T) {
	a := Bucket(123, 456)
	b := Bucket(123, 456)
	assert.Equal(t, a, b)

	// Movement smaller than the bucket size keeps the identity.
	assert.Equal(t, Bucket(100, 100), Bucket(110, 95))

	// A large jump changes it.
	assert.NotEqual(t, Bucket(100, 100), Bucket(300, 100))
}

func TestStabilizer_ConstantInputConverges(t *testing.T) {
	s := NewStabilizer()
	id := Bucket(100, 100)

	var got float64
	for i := 0; i < DefaultWindow; i++ {
		got = s.Stabilize(id, 4.2)
	}
	// A full window of identical values is a convex combination of 4.2
	// with itself.
	assert.InDelta(t, 4.2, got, 1e-12)
}

func TestStabilizer_RecencyWeighting(t *testing.T) {
	s := NewStabilizer()
	id := Bucket(0, 0)

	s.Stabilize(id, 0)
	got := s.Stabilize(id, 10)

	// Two entries: weights 1/2 and 2/2 → (0*0.5 + 10*1.0) / 1.5
	assert.InDelta(t, 10.0/1.5, got, 1e-12)
}

func TestStabilizer_WindowBoundsHistory(t *testing.T) {
	s := NewStabilizer()
	id := Bucket(0, 0)

	for i := 0; i < 100; i++ {
		s.Stabilize(id, float64(i))
	}
	require.Len(t, s.histories[id], DefaultWindow)
	// Oldest dropped first: the window holds 90..99.
	assert.Equal(t, 90.0, s.histories[id][0])
	assert.Equal(t, 99.0, s.histories[id][DefaultWindow-1])
}

func TestStabilizer_IndependentIdentities(t *testing.T) {
	s := NewStabilizer()
	a := Bucket(0, 0)
	b := Bucket(500, 500)

	for i := 0; i < DefaultWindow; i++ {
		s.Stabilize(a, 5)
		s.Stabilize(b, -5)
	}
	assert.InDelta(t, 5, s.Stabilize(a, 5), 1e-12)
	assert.InDelta(t, -5, s.Stabilize(b, -5), 1e-12)
}

func TestStabilizer_EvictsToLongestHistories(t *testing.T) {
	s := NewStabilizer()

	// 30 persistent identities with deep history.
	persistent := make([]Identity, 0, 30)
	for i := 0; i < 30; i++ {
		id := Identity{Col: i, Row: 0}
		persistent = append(persistent, id)
		for j := 0; j < 5; j++ {
			s.Stabilize(id, 1)
		}
	}

	// A burst of transient single-sighting detections pushes the map past
	// the cap: 30 + 21 = 51 identities triggers housekeeping.
	for i := 0; i < 21; i++ {
		s.Stabilize(Identity{Col: i, Row: 100}, 1)
	}

	assert.Equal(t, survivorCount, s.Tracked(), "exactly the survivor count remains")

	// Every survivor is one of the deep-history identities.
	kept := 0
	for _, id := range persistent {
		if _, ok := s.histories[id]; ok {
			kept++
		}
	}
	assert.Equal(t, survivorCount, kept, "survivors must be longest-history identities")
}

func TestStabilizer_SetLevel(t *testing.T) {
	s := NewStabilizer()

	s.SetLevel(1)
	assert.Equal(t, 20, s.window)

	s.SetLevel(10)
	assert.Equal(t, 3, s.window)

	s.SetLevel(-3)
	assert.Equal(t, 20, s.window, "out-of-range levels clamp")
}

func TestStabilizer_SetLevelTruncatesHistories(t *testing.T) {
	s := NewStabilizer()
	id := Bucket(0, 0)
	s.SetLevel(1)
	for i := 0; i < 20; i++ {
		s.Stabilize(id, float64(i))
	}
	s.SetLevel(10)
	require.Len(t, s.histories[id], 3)
	assert.Equal(t, []float64{17, 18, 19}, s.histories[id])
}

func TestStabilizer_Reset(t *testing.T) {
	s := NewStabilizer()
	s.Stabilize(Bucket(0, 0), 3)
	s.Reset()
	assert.Zero(t, s.Tracked())
}

func TestStabilizer_OutputIsConvex(t *testing.T) {
	s := NewStabilizer()
	id := Bucket(0, 0)
	values := []float64{-8, 3, 7, -2, 5, 1}

	min, max := values[0], values[0]
	for _, v := range values {
		min = math.Min(min, v)
		max = math.Max(max, v)
		got := s.Stabilize(id, v)
		require.GreaterOrEqual(t, got, min)
		require.LessOrEqual(t, got, max)
	}
}
