package toggle

import (
	"fmt"
	"math/bits"
)

// Mask packs a flag vector into an integer. Flag 0 is the most significant
// of the n bits, so a three-flag group encodes as 0b100, 0b010, 0b001.
type Mask uint64

// Bit returns the mask for flag i of an n-flag group.
func Bit(i, n int) Mask {
	return 1 << uint(n-1-i)
}

// Pack encodes vec as a Mask.
func Pack(vec []bool) Mask {
	var m Mask
	for i, on := range vec {
		if on {
			m |= Bit(i, len(vec))
		}
	}
	return m
}

// Unpack decodes the low n bits of m into a flag vector.
func (m Mask) Unpack(n int) []bool {
	vec := make([]bool, n)
	for i := range vec {
		vec[i] = m.Has(Bit(i, n))
	}
	return vec
}

// Has reports whether every bit of flag is set in m.
func (m Mask) Has(flag Mask) bool { return m&flag == flag && flag != 0 }

// Singleton reports whether exactly one bit is set.
func (m Mask) Singleton() bool { return bits.OnesCount64(uint64(m)) == 1 }

// Index returns the flag position of a singleton mask within an n-flag group.
func (m Mask) Index(n int) (int, bool) {
	if !m.Singleton() || n <= 0 || n > MaxFlags {
		return -1, false
	}
	i := n - 1 - bits.TrailingZeros64(uint64(m))
	if i < 0 {
		return -1, false
	}
	return i, true
}

// Format renders m as an n-digit binary literal, e.g. 0b010.
func (m Mask) Format(n int) string {
	return fmt.Sprintf("0b%0*b", n, uint64(m))
}
