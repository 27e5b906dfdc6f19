// Package chance provides the random sources behind simulated outcomes.
package chance

import (
	"math/rand/v2"
	"sync"
)

// Source decides whether a single simulated attempt succeeds.
type Source interface {
	Succeeds(p float64) bool
}

// Jitter draws the cosmetic quantities attached to outcomes (latencies, gas, delays).
type Jitter interface {
	IntBetween(lo, hi int) int
	FloatBetween(lo, hi float64) float64
}

// Random is the production Source and Jitter backed by math/rand/v2.
type Random struct{}

// Succeeds reports true with probability p.
func (Random) Succeeds(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rand.Float64() < p
}

// IntBetween returns a uniform integer in [lo, hi].
func (Random) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rand.IntN(hi-lo+1)
}

// FloatBetween returns a uniform float in [lo, hi).
func (Random) FloatBetween(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rand.Float64()*(hi-lo)
}

// Always is a Source that returns the same answer for every draw.
type Always bool

// Succeeds ignores p.
func (a Always) Succeeds(float64) bool { return bool(a) }

// Script replays a fixed sequence of outcomes, then repeats the last one.
// It also records the probabilities it was asked about.
type Script struct {
	mu       sync.Mutex
	outcomes []bool
	next     int
	asked    []float64
}

// NewScript builds a Script from the given outcomes.
func NewScript(outcomes ...bool) *Script {
	return &Script{outcomes: outcomes}
}

// Succeeds returns the next scripted outcome.
func (s *Script) Succeeds(p float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, p)
	if len(s.outcomes) == 0 {
		return true
	}
	idx := s.next
	if idx >= len(s.outcomes) {
		idx = len(s.outcomes) - 1
	}
	s.next++
	return s.outcomes[idx]
}

// Asked returns the probabilities passed to Succeeds so far.
func (s *Script) Asked() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.asked))
	copy(out, s.asked)
	return out
}

// Floor is a Jitter that always returns the lower bound.
type Floor struct{}

// IntBetween returns lo.
func (Floor) IntBetween(lo, _ int) int { return lo }

// FloatBetween returns lo.
func (Floor) FloatBetween(lo, _ float64) float64 { return lo }
