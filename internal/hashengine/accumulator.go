// Accumulator is a pure-Go four-lane scalar hash accumulator: four
// parallel 64-bit lanes, each mixed with the two xxh3 primes as
// rotl31(acc + input*P2) * P1, finalized by rotating-and-summing the
// lanes with rotations (1, 7, 12, 18), adding the total length, and
// avalanching through P3/P4. A vectorised (SIMD/asm) kernel of the same
// algorithm is out of scope here. Accumulator backs IncrementalHasher and
// HashBlocksScalar; HashBytes always uses cespare/xxhash/v2, and the two
// produce different values for the same input.
package hashengine

import "math/bits"

const (
	prime1 = 0x9E3779B185EBCA87
	prime2 = 0xC2B2AE3D27D4EB4F
	prime3 = 0x165667B19E3779F9
	prime4 = 0x85EBCA77C2B2AE63
)

// Accumulator mirrors the original's HashState: 4 lanes, fed 32-byte
// blocks.
type Accumulator struct {
	lanes    [4]uint64
	totalLen uint64
}

// NewAccumulator seeds the four lanes exactly as the original does.
func NewAccumulator(seed uint64) *Accumulator {
	return &Accumulator{
		lanes: [4]uint64{
			seed + prime1 + prime2,
			seed + prime2,
			seed,
			seed - prime1,
		},
	}
}

// Update processes as many complete 32-byte blocks as data contains. Any
// trailing partial block is the caller's responsibility (see
// IncrementalHasher, which buffers it).
func (a *Accumulator) Update(data []byte) {
	a.totalLen += uint64(len(data))
	blocks := len(data) / 32
	for i := 0; i < blocks; i++ {
		off := i * 32
		for lane := 0; lane < 4; lane++ {
			lo := off + lane*8
			input := leUint64(data[lo : lo+8])
			a.lanes[lane] = bits.RotateLeft64(a.lanes[lane]+input*prime2, 31) * prime1
		}
	}
}

// Finalize rotates and sums the four lanes, folds in the total length
// seen across every Update call, and avalanches the result.
func (a *Accumulator) Finalize() uint64 {
	h := bits.RotateLeft64(a.lanes[0], 1) +
		bits.RotateLeft64(a.lanes[1], 7) +
		bits.RotateLeft64(a.lanes[2], 12) +
		bits.RotateLeft64(a.lanes[3], 18)

	h += a.totalLen

	h ^= h >> 33
	h *= prime3
	h ^= h >> 29
	h *= prime4
	h ^= h >> 32

	return h
}

func leUint64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

// HashBlocksScalar zero-pads data to a multiple of 32 bytes, runs it
// through a fresh Accumulator seeded at 0, and returns the finalized
// value. It is used only by tests, which check that it is deterministic;
// its value is not compared against HashBytes.
func HashBlocksScalar(data []byte) uint64 {
	acc := NewAccumulator(0)
	padded := data
	if rem := len(data) % 32; rem != 0 {
		padded = make([]byte, len(data)+(32-rem))
		copy(padded, data)
	}
	acc.Update(padded)
	return acc.Finalize()
}
