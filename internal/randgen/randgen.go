// Package randgen produces uniform integers for call-IDs and per-call
// service durations.
//
// The source (rand-generator.hpp) seeded a fresh mt19937 from the wall
// clock on every call, which produces near-identical draws during a
// burst of calls received within the same clock tick. This
// implementation seeds once per Source from a high-entropy value and
// reuses the generator, per spec.md §9's suggested hardening.
package randgen

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand"
	"sync"
)

// Source produces uniform integers in [lo, hi], inclusive on both ends.
type Source interface {
	// UniformUint64 returns a uniform value in [lo, hi].
	UniformUint64(lo, hi uint64) uint64
}

// process is the default Source, safe for concurrent use by multiple
// producer goroutines and the dispatcher's scheduler goroutine.
type process struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// New returns a Source seeded once from a cryptographically random
// value, shared by every caller of UniformUint64 for the lifetime of
// the process (or test).
func New() Source {
	return &process{rng: mrand.New(mrand.NewSource(seed()))}
}

// NewSeeded returns a Source with a caller-chosen seed, for tests that
// need reproducible sequences.
func NewSeeded(seed int64) Source {
	return &process{rng: mrand.New(mrand.NewSource(seed))}
}

func seed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand is expected to never fail on supported platforms;
		// fall back to a fixed seed rather than panicking the caller.
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) & math.MaxInt64)
}

// UniformUint64 returns a uniform value in [lo, hi]. Panics if lo > hi,
// mirroring the precondition std::uniform_int_distribution places on
// its callers.
func (p *process) UniformUint64(lo, hi uint64) uint64 {
	if lo > hi {
		panic("randgen: lo > hi")
	}
	if lo == hi {
		return lo
	}
	span := hi - lo + 1 // number of representable values; does not overflow since lo >= 1 in all call sites

	p.mu.Lock()
	defer p.mu.Unlock()
	return lo + uniformMod(p.rng, span)
}

// uniformMod draws an unbiased value in [0, span) via rejection
// sampling, discarding draws from the partial final bucket so every
// value in range has exactly equal probability.
func uniformMod(rng *mrand.Rand, span uint64) uint64 {
	limit := -span % span
	for {
		v := rng.Uint64()
		if v >= limit {
			return v % span
		}
	}
}
