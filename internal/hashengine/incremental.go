package hashengine

// IncrementalHasher accepts arbitrary byte runs via Update and produces a
// Fingerprint on Finalize. It buffers any remainder below 32 bytes and,
// on Finalize, zero-pads that remainder to a full 32-byte block before
// folding it in.
//
// Because the final partial block is zero-padded rather than fed
// through byte-for-byte, IncrementalHasher(full).Finalize() is NOT
// required to equal HashBytes(full) for the same bytes — only
// determinism is guaranteed (two runs over the same sequence of Update
// calls agree). Do not rely on incremental and one-shot hashing
// producing the same value.
type IncrementalHasher struct {
	acc    *Accumulator
	buffer []byte
}

// NewIncrementalHasher starts a fresh incremental hash, seed 0.
func NewIncrementalHasher() *IncrementalHasher {
	return &IncrementalHasher{
		acc:    NewAccumulator(0),
		buffer: make([]byte, 0, 32),
	}
}

// Update feeds more bytes in. Complete 32-byte blocks are processed
// immediately; any remainder stays buffered.
func (h *IncrementalHasher) Update(data []byte) {
	h.buffer = append(h.buffer, data...)

	complete := len(h.buffer) / 32
	if complete == 0 {
		return
	}
	n := complete * 32
	h.acc.Update(h.buffer[:n])
	h.buffer = append(h.buffer[:0], h.buffer[n:]...)
}

// Finalize zero-pads any buffered remainder to 32 bytes, folds it in,
// and returns the Fingerprint.
func (h *IncrementalHasher) Finalize() Fingerprint {
	if len(h.buffer) > 0 {
		padded := make([]byte, 32)
		copy(padded, h.buffer)
		h.acc.Update(padded)
	}
	return Fingerprint{Value: h.acc.Finalize(), Algorithm: Algorithm}
}
