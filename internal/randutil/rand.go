package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
	"sync"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Source produces the 32-bit draws consumed by the game engine
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Seeded returns a reproducible Source
func Seeded(seed int64) *Source {
	return &Source{rng: New(seed)}
}

// NextU32 returns the next value of the sequence
func (s *Source) NextU32() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Uint32()
}

// CryptoSource draws from crypto/rand
type CryptoSource struct{}

// Crypto returns a Source backed by the operating system's CSPRNG
func Crypto() CryptoSource {
	return CryptoSource{}
}

// NextU32 returns a fresh random value. crypto/rand.Read never fails on
// supported platforms; if it ever does we fall back to the runtime generator.
func (CryptoSource) NextU32() uint32 {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.Uint32()
	}
	return binary.LittleEndian.Uint32(b[:])
}

// FixedSource replays a fixed list of values, cycling when exhausted
type FixedSource struct {
	mu     sync.Mutex
	values []uint32
	next   int
	calls  int
}

// Fixed returns a FixedSource. With no values it always returns 0.
func Fixed(values ...uint32) *FixedSource {
	return &FixedSource{values: values}
}

// NextU32 returns the next configured value
func (f *FixedSource) NextU32() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[f.next]
	f.next = (f.next + 1) % len(f.values)
	return v
}

// Calls reports how many values have been drawn
func (f *FixedSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
