// rand.go provides a buffered source of cryptographically secure random
// bits for the BB84 simulation.
//
// A protocol run draws thousands of independent bits and bases; reading
// them one syscall at a time from the OS CSPRNG would dominate the run
// time, so the source refills from crypto/rand in blocks and deals out
// individual bits.
package qkd

import (
	"encoding/binary"

	"github.com/mrityu75/guardian-bed-treehacks/pkg/crypto"
)

// BitReader yields uniformly random bits. It is the randomness dependency
// of qubit measurement, kept as an interface so measurement stays a pure
// function of (qubit, basis, randomness).
type BitReader interface {
	Bit() Bit
}

const bitSourceBufSize = 256

// bitSource deals random bits, bases, floats, and index samples from a
// buffered CSPRNG. Not safe for concurrent use; each Exchange owns its own.
type bitSource struct {
	buf  [bitSourceBufSize]byte
	pos  int // next unread byte in buf
	cur  byte
	left int // unread bits remaining in cur
}

func newBitSource() *bitSource {
	s := &bitSource{}
	s.refill()
	return s
}

func (s *bitSource) refill() {
	if err := crypto.SecureRandom(s.buf[:]); err != nil {
		panic("qkd: CSPRNG failure: " + err.Error())
	}
	s.pos = 0
}

func (s *bitSource) nextByte() byte {
	if s.pos >= len(s.buf) {
		s.refill()
	}
	b := s.buf[s.pos]
	s.pos++
	return b
}

// Bit returns one uniformly random bit.
func (s *bitSource) Bit() Bit {
	if s.left == 0 {
		s.cur = s.nextByte()
		s.left = 8
	}
	b := Bit(s.cur & 1)
	s.cur >>= 1
	s.left--
	return b
}

// Basis returns a uniformly random measurement basis.
func (s *bitSource) Basis() Basis {
	return Basis(s.Bit())
}

// Float64 returns a uniform value in [0,1) with 53 bits of precision.
func (s *bitSource) Float64() float64 {
	var raw [8]byte
	for i := range raw {
		raw[i] = s.nextByte()
	}
	v := binary.BigEndian.Uint64(raw[:]) >> 11
	return float64(v) / (1 << 53)
}

// Intn returns a uniform value in [0,n) using rejection sampling to avoid
// modulo bias.
func (s *bitSource) Intn(n int) int {
	if n <= 0 {
		panic("qkd: Intn with non-positive bound")
	}
	max := uint64(n)
	limit := (uint64(1) << 32) - (uint64(1)<<32)%max
	for {
		var raw [4]byte
		for i := range raw {
			raw[i] = s.nextByte()
		}
		v := uint64(binary.BigEndian.Uint32(raw[:]))
		if v < limit {
			return int(v % max)
		}
	}
}

// sampleIndices returns k distinct indices drawn uniformly from [0,n),
// via a partial Fisher-Yates shuffle.
func (s *bitSource) sampleIndices(n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + s.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
